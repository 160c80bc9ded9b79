package game

import (
	"math/rand/v2"

	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

// RevealLetter fills one empty cell of e, chosen uniformly at random, with
// its answer letter and marks the entry as helped. It does nothing when the
// path has no empty cell.
func (s *Session) RevealLetter(e *puzzle.Entry) Update {
	s.lastClick = nil
	st, ok := s.stateFor(e)
	if !ok {
		return Update{}
	}
	var empties []int
	for i, c := range e.Path {
		if s.grid.Letter(c) == 0 {
			empties = append(empties, i)
		}
	}
	if len(empties) == 0 {
		return Update{}
	}
	pos := empties[s.intN(len(empties))]
	at := e.Path[pos]
	s.grid.SetLetter(at, rune(e.Answer[pos]))
	st.HintsUsed = true

	u := Update{Cells: []puzzle.Coord{at}, States: true}
	u.merge(s.checkCells(u.Cells))
	return u
}

// RevealEntry writes the whole answer of e, marks it given up and runs the
// checker, which then reports it solved. GaveUp keeps precedence.
func (s *Session) RevealEntry(e *puzzle.Entry) Update {
	s.lastClick = nil
	st, ok := s.stateFor(e)
	if !ok {
		return Update{}
	}
	st.GaveUp = true
	u := Update{States: true}
	for i, c := range e.Path {
		want := rune(e.Answer[i])
		if s.grid.Letter(c) != want {
			s.grid.SetLetter(c, want)
			u.Cells = append(u.Cells, c)
		}
	}
	// Check e itself even when every letter was already in place.
	if _, newly := s.checkEntry(e); newly {
		u.Solved = append(u.Solved, e.ID)
	}
	u.merge(s.checkCells(u.Cells))
	return u
}

// MarkHintUsed flags e as helped without touching the grid.
func (s *Session) MarkHintUsed(e *puzzle.Entry) Update {
	st, ok := s.stateFor(e)
	if !ok || st.HintsUsed {
		return Update{}
	}
	st.HintsUsed = true
	return Update{States: true}
}

// Hint applies a hint of the given kind to the active entry. Definition and
// analysis toggle their display on the clue panel and count as help every
// time they are requested.
func (s *Session) Hint(kind HintKind) Update {
	e := s.cursor.Entry
	if e == nil {
		return Update{}
	}
	switch kind {
	case HintLetter:
		return s.RevealLetter(e)
	case HintDefinition:
		s.showDefinition = !s.showDefinition
	case HintAnalysis:
		s.showAnalysis = !s.showAnalysis
	default:
		return Update{}
	}
	u := s.MarkHintUsed(e)
	u.ClueChanged = true
	return u
}

// GiveUp reveals the active entry.
func (s *Session) GiveUp() Update {
	if s.cursor.Entry == nil {
		return Update{}
	}
	return s.RevealEntry(s.cursor.Entry)
}

func (s *Session) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}

// stateFor returns the state of e when e belongs to this session's puzzle.
func (s *Session) stateFor(e *puzzle.Entry) (*EntryState, bool) {
	if e == nil || s.Puzzle.Index.Entry(e.ID) != e {
		return nil, false
	}
	st, ok := s.states[e.ID]
	return st, ok
}
