// apps/go-server/internal/game/types.go
//
// Core type definitions for a cryptic puzzle session.
// Defines:
//   - EntryState: per-entry solved / hint / give-up flags.
//   - Cursor:     the active entry and position within its path.
//   - Update:     description of what a transition changed, for redraws.
//   - Notifier:   sink for "entry solved" signals (fireworks, toasts, SSE).

package game

import "github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"

// EntryState tracks how an entry was completed.
// Solved never goes back to false except on Restart; GaveUp outranks Solved
// for display and scoring.
type EntryState struct {
	HintsUsed bool `json:"hintsUsed"`
	Solved    bool `json:"solved"`
	GaveUp    bool `json:"gaveUp"`
}

// Cursor is the active entry and index into its path.
type Cursor struct {
	Entry *puzzle.Entry
	Index int
}

// Active reports whether an entry is selected.
func (c Cursor) Active() bool { return c.Entry != nil }

// Cell returns the coordinate under the cursor.
func (c Cursor) Cell() (puzzle.Coord, bool) {
	if c.Entry == nil {
		return puzzle.Coord{}, false
	}
	return c.Entry.Path[c.Index], true
}

// Direction returns the active entry's direction, across when idle.
func (c Cursor) Direction() puzzle.Direction {
	if c.Entry == nil {
		return puzzle.Across
	}
	return c.Entry.Direction
}

// Update describes the effect of one transition. The zero value means
// nothing changed.
type Update struct {
	Moved       bool           `json:"moved,omitempty"`       // cursor cell or entry changed
	ClueChanged bool           `json:"clueChanged,omitempty"` // clue panel must be redrawn
	Cells       []puzzle.Coord `json:"cells,omitempty"`       // cells whose letter changed
	Solved      []string       `json:"solved,omitempty"`      // entries that became solved during this transition
	States      bool           `json:"states,omitempty"`      // some EntryState changed
}

// Changed reports whether anything needs redrawing.
func (u Update) Changed() bool {
	return u.Moved || u.ClueChanged || len(u.Cells) > 0 || len(u.Solved) > 0 || u.States
}

func (u *Update) merge(o Update) {
	u.Moved = u.Moved || o.Moved
	u.ClueChanged = u.ClueChanged || o.ClueChanged
	u.Cells = append(u.Cells, o.Cells...)
	u.Solved = append(u.Solved, o.Solved...)
	u.States = u.States || o.States
}

// SolvedEvent is sent once per entry when it becomes solved.
type SolvedEvent struct {
	SessionID string `json:"sessionId"`
	EntryID   string `json:"entryId"`
	HintsUsed bool   `json:"hintsUsed"`
	GaveUp    bool   `json:"gaveUp"`
	Complete  bool   `json:"complete"` // every entry is now solved
}

// Notifier receives solve signals. Implementations must not call back into
// the session.
type Notifier interface {
	Solved(ev SolvedEvent)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(SolvedEvent)

func (f NotifierFunc) Solved(ev SolvedEvent) { f(ev) }

// Arrow is a screen-direction key.
type Arrow int

const (
	ArrowLeft Arrow = iota
	ArrowRight
	ArrowUp
	ArrowDown
)

// delta maps an arrow to a row/col step.
func (a Arrow) delta() (dr, dc int) {
	switch a {
	case ArrowLeft:
		return 0, -1
	case ArrowRight:
		return 0, 1
	case ArrowUp:
		return -1, 0
	default:
		return 1, 0
	}
}

// HintKind names the informational hints that do not touch the grid.
type HintKind string

const (
	HintDefinition HintKind = "definition"
	HintAnalysis   HintKind = "analysis"
	HintLetter     HintKind = "letter"
)
