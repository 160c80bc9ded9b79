package puzzle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlaceholderID identifies the built-in fallback puzzle.
const PlaceholderID = "placeholder"

// Puzzle is validated puzzle data: an empty grid layout plus its entry index.
// A Puzzle is read-only; each game session plays on its own grid copy.
type Puzzle struct {
	ID     string
	Data   *Data
	Index  *Index
	layout *Grid
}

// New validates d and builds its grid and entry index.
func New(d *Data) (*Puzzle, error) {
	if d == nil {
		return nil, invalidf("", "no data")
	}
	grid, err := NewGrid(d.Grid)
	if err != nil {
		return nil, err
	}
	ix, err := Build(grid, d.Entries)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(d.ID)
	if id == "" {
		id = "untitled"
	}
	return &Puzzle{ID: id, Data: d, Index: ix, layout: grid}, nil
}

// Decode parses puzzle JSON without validating it.
func Decode(b []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode puzzle: %w", err)
	}
	return &d, nil
}

// Parse decodes and validates puzzle JSON.
func Parse(b []byte) (*Puzzle, error) {
	d, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return New(d)
}

// NewGrid returns a fresh, letter-free grid for this puzzle.
func (p *Puzzle) NewGrid() *Grid {
	g := p.layout.Clone()
	g.Clear()
	return g
}

// Rows and Cols report the grid size.
func (p *Puzzle) Rows() int { return p.layout.Rows }
func (p *Puzzle) Cols() int { return p.layout.Cols }

// IsPlaceholder reports whether p is the built-in fallback.
func (p *Puzzle) IsPlaceholder() bool { return p.ID == PlaceholderID }

// PlaceholderData is the minimal puzzle served when real data is missing or
// broken.
//
//	T O P
//	E # I
//	N U N
func PlaceholderData() *Data {
	return &Data{
		ID: PlaceholderID,
		Grid: GridData{
			Rows:   3,
			Cols:   3,
			Blocks: []Block{{1, 1}},
			Numbers: NumbersData{All: []NumberLabel{
				{Row: 0, Col: 0, Label: "1"},
				{Row: 0, Col: 2, Label: "2"},
				{Row: 2, Col: 0, Label: "3"},
			}},
		},
		Entries: []RawEntry{
			{ID: "1A", Direction: Across, Row: 0, Col: 0, Answer: "TOP",
				Clue: Clue{Surface: "Best spinning toy (3)", Segments: []Segment{
					{Type: Definition, Text: "Best"}, {Type: Definition, Text: "spinning toy"}}}},
			{ID: "3A", Direction: Across, Row: 2, Col: 0, Answer: "NUN",
				Clue: Clue{Surface: "Sister, reversed, is still a sister (3)", Segments: []Segment{
					{Type: Definition, Text: "Sister"}, {Type: Indicator, Category: "reversal", Text: "reversed"}}}},
			{ID: "1D", Direction: Down, Row: 0, Col: 0, Answer: "TEN",
				Clue: Clue{Surface: "Number of fingers (3)", Segments: []Segment{
					{Type: Definition, Text: "Number of fingers"}}}},
			{ID: "2D", Direction: Down, Row: 0, Col: 2, Answer: "PIN",
				Clue: Clue{Surface: "Fasten a needle (3)", Segments: []Segment{
					{Type: Definition, Text: "Fasten"}, {Type: Definition, Text: "a needle"}}}},
		},
	}
}

// Placeholder returns the built-in fallback puzzle. It always validates.
func Placeholder() *Puzzle {
	p, err := New(PlaceholderData())
	if err != nil {
		panic("puzzle: placeholder does not validate: " + err.Error())
	}
	return p
}
