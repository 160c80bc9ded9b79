// apps/go-server/internal/puzzle/types.go
//
// Wire format for puzzle data and the small value types shared by the
// grid model and the entry index.
//
// Defines:
//   - Direction: across | down.
//   - Coord:     (row, col) on the grid.
//   - Data:      the JSON document a puzzle is loaded from.

package puzzle

import (
	"encoding/json"
	"fmt"
)

// Direction is the orientation of an entry.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Across {
		return Down
	}
	return Across
}

// Valid reports whether d is across or down.
func (d Direction) Valid() bool { return d == Across || d == Down }

// Step returns the row/col delta for one move along d.
func (d Direction) Step() (dr, dc int) {
	if d == Down {
		return 1, 0
	}
	return 0, 1
}

// Coord identifies a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Add returns c shifted by (dr, dc).
func (c Coord) Add(dr, dc int) Coord { return Coord{Row: c.Row + dr, Col: c.Col + dc} }

// Data is the puzzle document as published:
//
//	{"id": "...", "grid": {...}, "entries": [...]}
type Data struct {
	ID      string     `json:"id"`
	Grid    GridData   `json:"grid"`
	Entries []RawEntry `json:"entries"`
}

// GridData describes the fixed layout of the grid.
type GridData struct {
	Rows    int         `json:"rows"`
	Cols    int         `json:"cols"`
	Blocks  []Block     `json:"blocks"`
	Numbers NumbersData `json:"numbers"`
}

// Block is a [row, col] pair naming a blocked cell.
type Block [2]int

// UnmarshalJSON rejects pairs with missing or extra items.
func (b *Block) UnmarshalJSON(raw []byte) error {
	var parts []int
	if err := json.Unmarshal(raw, &parts); err != nil {
		return fmt.Errorf("block: %w", err)
	}
	if len(parts) != 2 {
		return invalidf("", "block: want [row, col], got %d items", len(parts))
	}
	*b = Block{parts[0], parts[1]}
	return nil
}

// NumbersData holds the number overlays. Only "all" is read.
type NumbersData struct {
	All []NumberLabel `json:"all"`
}

// NumberLabel is a [row, col, "label"] triple.
type NumberLabel struct {
	Row   int
	Col   int
	Label string
}

// UnmarshalJSON decodes the mixed-type [row, col, "label"] array.
func (n *NumberLabel) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("number label: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("number label: want [row, col, label], got %d items", len(parts))
	}
	if err := json.Unmarshal(parts[0], &n.Row); err != nil {
		return fmt.Errorf("number label row: %w", err)
	}
	if err := json.Unmarshal(parts[1], &n.Col); err != nil {
		return fmt.Errorf("number label col: %w", err)
	}
	// Labels are usually strings but tolerate bare numbers.
	if err := json.Unmarshal(parts[2], &n.Label); err != nil {
		var num json.Number
		if err2 := json.Unmarshal(parts[2], &num); err2 != nil {
			return fmt.Errorf("number label text: %w", err)
		}
		n.Label = num.String()
	}
	return nil
}

// MarshalJSON encodes n back to its array form.
func (n NumberLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{n.Row, n.Col, n.Label})
}

// RawEntry is one entry as it appears in puzzle data.
type RawEntry struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Answer    string    `json:"answer"`
	Clue      Clue      `json:"clue"`
}
