// Package share renders a finished (or abandoned) grid as a spoiler-free
// block of emoji for pasting into chats.
//
//	Daily 5×5 Cryptic — 2025-08-19
//	🟩🟩🟩🟩🟩
//	⬜⬛⬜⬛⬜
//	...
//	#cryptic
package share

import (
	"fmt"
	"strings"

	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

// Glyphs used in the share grid.
const (
	GlyphBlock    = "⬛"
	GlyphEmpty    = "⬜"
	GlyphSolved   = "🟩"
	GlyphHelped   = "🟨"
	GlyphRevealed = "🟥"
	Hashtag       = "#cryptic"
)

// Status is the outcome of one entry.
type Status struct {
	Solved    bool
	HintsUsed bool
	GaveUp    bool
}

// Glyph picks the glyph for s. Giving up outranks solving.
func (s Status) Glyph() string {
	switch {
	case s.GaveUp:
		return GlyphRevealed
	case s.Solved && s.HintsUsed:
		return GlyphHelped
	case s.Solved:
		return GlyphSolved
	default:
		return GlyphEmpty
	}
}

// Layout is the part of a grid the formatter needs.
type Layout interface {
	InBounds(c puzzle.Coord) bool
	Blocked(c puzzle.Coord) bool
}

// Format builds the share text. Across entries paint their cells; open cells
// no across entry covers take the status of their down entry.
func Format(puzzleID string, rows, cols int, grid Layout, entries []*puzzle.Entry, status map[string]Status) string {
	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c := range cells[r] {
			if grid.Blocked(puzzle.Coord{Row: r, Col: c}) {
				cells[r][c] = GlyphBlock
			}
		}
	}

	paint := func(dir puzzle.Direction, onlyEmpty bool) {
		for _, e := range entries {
			if e.Direction != dir {
				continue
			}
			glyph := status[e.ID].Glyph()
			for _, p := range e.Path {
				if !grid.InBounds(p) || p.Row >= rows || p.Col >= cols || grid.Blocked(p) {
					continue
				}
				if onlyEmpty && cells[p.Row][p.Col] != "" {
					continue
				}
				cells[p.Row][p.Col] = glyph
			}
		}
	}
	paint(puzzle.Across, false)
	paint(puzzle.Down, true)

	var b strings.Builder
	fmt.Fprintf(&b, "Daily %d×%d Cryptic — %s\n", rows, cols, puzzleID)
	for _, row := range cells {
		for _, g := range row {
			if g == "" {
				g = GlyphEmpty
			}
			b.WriteString(g)
		}
		b.WriteByte('\n')
	}
	b.WriteString(Hashtag)
	return b.String()
}
