// apps/go-server/internal/game/engine.go
//
// Core engine for a single puzzle session.
// Responsibilities:
//   - Own the session's grid letters, entry states and cursor.
//   - Navigation: select entry, advance within an entry, arrow moves,
//     cell clicks with direction toggling.
//   - Letter input: type, backspace, key dispatch.
//
// Notes:
//   - Every transition is synchronous and returns an Update describing what
//     changed; callers redraw from View().
//   - Invalid navigation (blocked cell, out of bounds, nothing selected) is a
//     silent no-op and returns a zero Update.
//   - A Session is not safe for concurrent use; surfaces that share one
//     (HTTP handlers) serialise access themselves.
package game

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

// Session is one player's attempt at one puzzle.
type Session struct {
	ID        string
	Puzzle    *puzzle.Puzzle
	StartedAt time.Time

	grid   *puzzle.Grid
	states map[string]*EntryState
	cursor Cursor

	// clickDir remembers the last direction chosen by clicking each cell.
	clickDir map[puzzle.Coord]puzzle.Direction
	// lastClick is the previous transition's clicked cell, nil after any
	// other transition.
	lastClick *puzzle.Coord

	showDefinition bool
	showAnalysis   bool

	rng    *rand.Rand
	notify Notifier
}

// Option configures a Session.
type Option func(*Session)

// WithID overrides the generated session id.
func WithID(id string) Option { return func(s *Session) { s.ID = id } }

// WithRand sets the source used to pick revealed letters.
func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

// WithNotifier sets the sink for solved events.
func WithNotifier(n Notifier) Option { return func(s *Session) { s.notify = n } }

// New starts a session on p with an empty grid and the cursor on the first
// across entry.
func New(p *puzzle.Puzzle, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Puzzle:    p,
		StartedAt: time.Now().UTC(),
		grid:      p.NewGrid(),
		clickDir:  make(map[puzzle.Coord]puzzle.Direction),
	}
	for _, o := range opts {
		o(s)
	}
	s.resetStates()
	s.selectEntry(p.Index.First(), nil)
	return s
}

func (s *Session) resetStates() {
	s.states = make(map[string]*EntryState, len(s.Puzzle.Index.Entries()))
	for _, e := range s.Puzzle.Index.Entries() {
		s.states[e.ID] = &EntryState{}
	}
}

// Cursor returns the current cursor.
func (s *Session) Cursor() Cursor { return s.cursor }

// Letter returns the letter at c, or 0.
func (s *Session) Letter(c puzzle.Coord) rune { return s.grid.Letter(c) }

// EntryLetters returns the letters along e's path; empty cells are ' '.
func (s *Session) EntryLetters(e *puzzle.Entry) string {
	var b strings.Builder
	for _, c := range e.Path {
		if ch := s.grid.Letter(c); ch != 0 {
			b.WriteRune(ch)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// State returns a copy of the state of entry id.
func (s *Session) State(id string) EntryState {
	if st, ok := s.states[id]; ok {
		return *st
	}
	return EntryState{}
}

// States returns a copy of every entry state keyed by entry id.
func (s *Session) States() map[string]EntryState {
	out := make(map[string]EntryState, len(s.states))
	for id, st := range s.states {
		out[id] = *st
	}
	return out
}

// Complete reports whether every entry is solved.
func (s *Session) Complete() bool {
	for _, st := range s.states {
		if !st.Solved {
			return false
		}
	}
	return true
}

// ------------------------------ navigation ---------------------------------

// SelectEntry makes e active with the cursor on at (or the path start when
// at is nil or not on the path). Entries from another puzzle are ignored.
func (s *Session) SelectEntry(e *puzzle.Entry, at *puzzle.Coord) Update {
	s.lastClick = nil
	return s.selectEntry(e, at)
}

// SelectByID is SelectEntry by entry id.
func (s *Session) SelectByID(id string, at *puzzle.Coord) Update {
	return s.SelectEntry(s.Puzzle.Index.Entry(id), at)
}

func (s *Session) selectEntry(e *puzzle.Entry, at *puzzle.Coord) Update {
	if e == nil || s.Puzzle.Index.Entry(e.ID) != e {
		return Update{}
	}
	idx := 0
	if at != nil {
		if i := e.IndexOf(*at); i >= 0 {
			idx = i
		}
	}
	moved := s.cursor.Entry != e || s.cursor.Index != idx
	if s.cursor.Entry != e {
		s.showDefinition, s.showAnalysis = false, false
	}
	s.cursor = Cursor{Entry: e, Index: idx}
	return Update{Moved: moved, ClueChanged: true}
}

// Advance moves the cursor by delta within the active entry, clamped to the
// path. It never wraps or leaves the entry.
func (s *Session) Advance(delta int) Update {
	s.lastClick = nil
	return s.advance(delta)
}

func (s *Session) advance(delta int) Update {
	if !s.cursor.Active() {
		return Update{}
	}
	next := s.cursor.Index + delta
	if next < 0 {
		next = 0
	}
	if last := len(s.cursor.Entry.Path) - 1; next > last {
		next = last
	}
	if next == s.cursor.Index {
		return Update{}
	}
	s.cursor.Index = next
	return Update{Moved: true}
}

// Arrow moves to the neighbouring cell in the key's screen direction,
// keeping the current direction when an entry runs that way through the
// target and switching otherwise. Blocked or off-grid targets are ignored.
func (s *Session) Arrow(a Arrow) Update {
	s.lastClick = nil
	from, ok := s.cursor.Cell()
	if !ok {
		return Update{}
	}
	to := from.Add(a.delta())
	if !s.grid.Open(to) {
		return Update{}
	}
	e := s.Puzzle.Index.Resolve(to, s.cursor.Direction())
	if e == nil {
		return Update{}
	}
	return s.selectEntry(e, &to)
}

// Click selects an entry through c.
//
// Each cell remembers the direction last chosen by clicking it (across by
// default). Clicking the same cell twice in a row flips that direction when
// the cell has entries both ways; otherwise the remembered direction is
// used, falling back to whichever entry exists.
func (s *Session) Click(c puzzle.Coord) Update {
	repeat := s.lastClick != nil && *s.lastClick == c
	s.lastClick = nil
	if !s.grid.Open(c) {
		return Update{}
	}
	ix := s.Puzzle.Index
	dir, ok := s.clickDir[c]
	if !ok {
		dir = puzzle.Across
	}
	if repeat && ix.FindEntryAt(c, puzzle.Across) != nil && ix.FindEntryAt(c, puzzle.Down) != nil {
		dir = dir.Opposite()
	}
	e := ix.Resolve(c, dir)
	if e == nil {
		return Update{}
	}
	s.clickDir[c] = e.Direction
	u := s.selectEntry(e, &c)
	clicked := c
	s.lastClick = &clicked
	return u
}

// --------------------------------- input -----------------------------------

// Type writes ch at the cursor, advances one cell and checks every entry
// through the written cell. Non-letters are ignored.
func (s *Session) Type(ch rune) Update {
	s.lastClick = nil
	at, ok := s.cursor.Cell()
	if !ok || !isLetter(ch) {
		return Update{}
	}
	var u Update
	if s.grid.SetLetter(at, ch) {
		u.Cells = append(u.Cells, at)
	}
	u.merge(s.advance(1))
	u.merge(s.checkCells(u.Cells))
	return u
}

// Backspace clears the cell under the cursor and steps back one cell.
func (s *Session) Backspace() Update {
	s.lastClick = nil
	at, ok := s.cursor.Cell()
	if !ok {
		return Update{}
	}
	var u Update
	if s.grid.Letter(at) != 0 && s.grid.SetLetter(at, 0) {
		u.Cells = append(u.Cells, at)
	}
	u.merge(s.advance(-1))
	return u
}

// HandleKey dispatches a key name as sent by browsers ("ArrowLeft",
// "Backspace", "a") or terminals ("left", "backspace").
func (s *Session) HandleKey(key string) Update {
	if a, ok := ParseArrow(key); ok {
		return s.Arrow(a)
	}
	switch strings.ToLower(key) {
	case "backspace", "delete":
		return s.Backspace()
	}
	r := []rune(key)
	if len(r) == 1 {
		return s.Type(r[0])
	}
	return Update{}
}

// ParseArrow maps a key name to an Arrow.
func ParseArrow(key string) (Arrow, bool) {
	switch strings.ToLower(strings.TrimPrefix(key, "Arrow")) {
	case "left":
		return ArrowLeft, true
	case "right":
		return ArrowRight, true
	case "up":
		return ArrowUp, true
	case "down":
		return ArrowDown, true
	}
	return 0, false
}

// Restart clears every letter and entry state and returns the cursor to the
// first entry.
func (s *Session) Restart() Update {
	s.lastClick = nil
	s.grid.Clear()
	s.resetStates()
	s.clickDir = make(map[puzzle.Coord]puzzle.Direction)
	s.cursor = Cursor{}
	u := s.selectEntry(s.Puzzle.Index.First(), nil)
	u.States = true
	for _, e := range s.Puzzle.Index.Entries() {
		u.Cells = append(u.Cells, e.Path...)
	}
	return u
}

func isLetter(ch rune) bool {
	ch = unicode.ToUpper(ch)
	return ch >= 'A' && ch <= 'Z'
}
