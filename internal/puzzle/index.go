// apps/go-server/internal/puzzle/index.go
//
// Entry index: derives every entry's path from the grid and keeps the
// cell → entries mapping used by navigation and rendering.
//
// Build rules:
//   - A path starts at the entry's (row, col) and walks in its direction
//     until the grid edge or a blocked cell.
//   - The walked length must equal the answer length. A mismatch is an
//     authoring error and is reported, never truncated or padded.
//   - A cell carries at most one across and one down entry.
//
// The index is immutable after Build and can be shared by many sessions.

package puzzle

import (
	"errors"
	"strings"
)

// Entry is one answer slot in the grid.
type Entry struct {
	ID        string
	Direction Direction
	Start     Coord
	Path      []Coord
	Answer    string // uppercase, len(Answer) == len(Path)
	Clue      Clue
}

// IndexOf returns the position of c on the path, or -1.
func (e *Entry) IndexOf(c Coord) int {
	for i, p := range e.Path {
		if p == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c lies on the path.
func (e *Entry) Contains(c Coord) bool { return e.IndexOf(c) >= 0 }

// Index maps cells to the entries that pass through them.
type Index struct {
	entries []*Entry
	byID    map[string]*Entry
	byCell  map[Coord][]*Entry
}

// Build walks every raw entry over grid and returns the index. All problems
// found are joined into the returned error; each wraps ErrInvalid.
func Build(grid *Grid, raws []RawEntry) (*Index, error) {
	ix := &Index{
		byID:   make(map[string]*Entry, len(raws)),
		byCell: make(map[Coord][]*Entry),
	}
	if len(raws) == 0 {
		return nil, invalidf("", "no entries")
	}

	var errs []error
	for _, raw := range raws {
		e, err := buildEntry(grid, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := ix.byID[e.ID]; dup {
			errs = append(errs, invalidf(e.ID, "duplicate id"))
			continue
		}
		if err := ix.claim(e); err != nil {
			errs = append(errs, err)
			continue
		}
		ix.entries = append(ix.entries, e)
		ix.byID[e.ID] = e
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ix, nil
}

func buildEntry(grid *Grid, raw RawEntry) (*Entry, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return nil, invalidf("?", "missing id")
	}
	if !raw.Direction.Valid() {
		return nil, invalidf(id, "direction %q is not across or down", raw.Direction)
	}
	start := Coord{Row: raw.Row, Col: raw.Col}
	if !grid.InBounds(start) {
		return nil, invalidf(id, "start %s out of bounds", start)
	}
	if grid.Blocked(start) {
		return nil, invalidf(id, "start %s is blocked", start)
	}
	answer := strings.ToUpper(strings.TrimSpace(raw.Answer))
	for _, r := range answer {
		if r < 'A' || r > 'Z' {
			return nil, invalidf(id, "answer %q must be letters A-Z", raw.Answer)
		}
	}

	dr, dc := raw.Direction.Step()
	var path []Coord
	for c := start; grid.Open(c); c = c.Add(dr, dc) {
		path = append(path, c)
	}
	if len(path) != len(answer) {
		return nil, invalidf(id, "answer %q has %d letters but the path from %s has %d cells",
			answer, len(answer), start, len(path))
	}
	return &Entry{
		ID:        id,
		Direction: raw.Direction,
		Start:     start,
		Path:      path,
		Answer:    answer,
		Clue:      raw.Clue,
	}, nil
}

// claim registers e on each of its cells, refusing a second entry in the
// same direction through any cell.
func (ix *Index) claim(e *Entry) error {
	for _, c := range e.Path {
		for _, other := range ix.byCell[c] {
			if other.Direction == e.Direction {
				return invalidf(e.ID, "overlaps %s at %s", other.ID, c)
			}
		}
	}
	for _, c := range e.Path {
		ix.byCell[c] = append(ix.byCell[c], e)
	}
	return nil
}

// Entries returns all entries in data order.
func (ix *Index) Entries() []*Entry { return ix.entries }

// Entry looks up an entry by id.
func (ix *Index) Entry(id string) *Entry { return ix.byID[id] }

// EntriesAt returns the entries (at most two) whose path contains c.
func (ix *Index) EntriesAt(c Coord) []*Entry { return ix.byCell[c] }

// StartingAt returns the entries whose path begins at c.
func (ix *Index) StartingAt(c Coord) []*Entry {
	var out []*Entry
	for _, e := range ix.byCell[c] {
		if e.Start == c {
			out = append(out, e)
		}
	}
	return out
}

// FindEntryAt returns the entry through c running in dir, or nil.
func (ix *Index) FindEntryAt(c Coord, dir Direction) *Entry {
	for _, e := range ix.byCell[c] {
		if e.Direction == dir {
			return e
		}
	}
	return nil
}

// Resolve is FindEntryAt with a fallback to the opposite direction.
func (ix *Index) Resolve(c Coord, dir Direction) *Entry {
	if e := ix.FindEntryAt(c, dir); e != nil {
		return e
	}
	return ix.FindEntryAt(c, dir.Opposite())
}

// First returns the first across entry, or the first entry of any kind.
func (ix *Index) First() *Entry {
	for _, e := range ix.entries {
		if e.Direction == Across {
			return e
		}
	}
	if len(ix.entries) > 0 {
		return ix.entries[0]
	}
	return nil
}
