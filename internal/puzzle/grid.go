// apps/go-server/internal/puzzle/grid.go
//
// Grid model: a fixed rectangle of cells, each blocked or open, each
// optionally carrying a number label. Open cells hold at most one letter.
//
// The grid is the single source of truth for letters. Entries only refer to
// coordinates, so a letter written through one entry is seen by every entry
// crossing that cell.

package puzzle

import "unicode"

// Cell is a single square of the grid.
type Cell struct {
	Blocked bool
	Letter  rune // 0 when empty
	Label   string
}

// Grid is a row-major array of cells.
type Grid struct {
	Rows  int
	Cols  int
	cells []Cell
}

// MaxSize bounds both grid dimensions.
const MaxSize = 64

// NewGrid builds an empty grid from its layout description.
// Blocks or labels outside the grid are validation errors.
func NewGrid(d GridData) (*Grid, error) {
	if d.Rows <= 0 || d.Cols <= 0 {
		return nil, invalidf("", "grid must be at least 1x1, got %dx%d", d.Rows, d.Cols)
	}
	if d.Rows > MaxSize || d.Cols > MaxSize {
		return nil, invalidf("", "grid %dx%d exceeds %dx%d", d.Rows, d.Cols, MaxSize, MaxSize)
	}
	g := &Grid{Rows: d.Rows, Cols: d.Cols, cells: make([]Cell, d.Rows*d.Cols)}
	for _, b := range d.Blocks {
		c := Coord{Row: b[0], Col: b[1]}
		if !g.InBounds(c) {
			return nil, invalidf("", "block %s out of bounds", c)
		}
		g.cells[g.idx(c)].Blocked = true
	}
	for _, n := range d.Numbers.All {
		c := Coord{Row: n.Row, Col: n.Col}
		if !g.InBounds(c) {
			return nil, invalidf("", "number %q at %s out of bounds", n.Label, c)
		}
		// Labels on blocks are never drawn.
		if g.cells[g.idx(c)].Blocked {
			continue
		}
		g.cells[g.idx(c)].Label = n.Label
	}
	return g, nil
}

func (g *Grid) idx(c Coord) int { return c.Row*g.Cols + c.Col }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Blocked reports whether c is a blocked cell. Out-of-bounds counts as blocked.
func (g *Grid) Blocked(c Coord) bool {
	return !g.InBounds(c) || g.cells[g.idx(c)].Blocked
}

// Open reports whether c is in bounds and not blocked.
func (g *Grid) Open(c Coord) bool { return !g.Blocked(c) }

// Cell returns a copy of the cell at c.
func (g *Grid) Cell(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[g.idx(c)], true
}

// Letter returns the letter at c, or 0.
func (g *Grid) Letter(c Coord) rune {
	if !g.InBounds(c) {
		return 0
	}
	return g.cells[g.idx(c)].Letter
}

// SetLetter writes ch (uppercased) at c; 0 clears the cell.
// Writes to blocked or out-of-bounds cells, or of non A–Z letters, are refused.
func (g *Grid) SetLetter(c Coord, ch rune) bool {
	if g.Blocked(c) {
		return false
	}
	if ch != 0 {
		ch = unicode.ToUpper(ch)
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	g.cells[g.idx(c)].Letter = ch
	return true
}

// Clear removes every letter.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].Letter = 0
	}
}

// Clone returns a deep copy, letters included.
func (g *Grid) Clone() *Grid {
	cp := &Grid{Rows: g.Rows, Cols: g.Cols, cells: make([]Cell, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}

// Letters returns one string per row; blocked cells are '#', empty cells ' '.
func (g *Grid) Letters() []string {
	out := make([]string, g.Rows)
	buf := make([]rune, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := g.cells[r*g.Cols+c]
			switch {
			case cell.Blocked:
				buf[c] = '#'
			case cell.Letter == 0:
				buf[c] = ' '
			default:
				buf[c] = cell.Letter
			}
		}
		out[r] = string(buf)
	}
	return out
}
