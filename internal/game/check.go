package game

import (
	"strings"

	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

// CheckEntry reports whether the letters on e's path spell its answer.
// The first time that holds, the entry is marked solved and the notifier
// fires; later calls never fire again and never clear the flag.
func (s *Session) CheckEntry(e *puzzle.Entry) bool {
	ok, _ := s.checkEntry(e)
	return ok
}

// checkEntry also reports whether this call flipped solved to true.
func (s *Session) checkEntry(e *puzzle.Entry) (match, newly bool) {
	st, known := s.stateFor(e)
	if !known {
		return false, false
	}
	var b strings.Builder
	for _, c := range e.Path {
		if ch := s.grid.Letter(c); ch != 0 {
			b.WriteRune(ch)
		}
	}
	word := b.String()
	match = len(word) == len(e.Answer) && strings.EqualFold(word, e.Answer)
	if !match || st.Solved {
		return match, false
	}
	st.Solved = true
	if s.notify != nil {
		s.notify.Solved(SolvedEvent{
			SessionID: s.ID,
			EntryID:   e.ID,
			HintsUsed: st.HintsUsed,
			GaveUp:    st.GaveUp,
			Complete:  s.Complete(),
		})
	}
	return true, true
}

// checkCells runs the checker over every entry crossing the given cells.
func (s *Session) checkCells(cells []puzzle.Coord) Update {
	var u Update
	seen := make(map[string]bool)
	for _, c := range cells {
		for _, e := range s.Puzzle.Index.EntriesAt(c) {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			if _, newly := s.checkEntry(e); newly {
				u.Solved = append(u.Solved, e.ID)
				u.States = true
			}
		}
	}
	return u
}
