package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestShareSolvedAndGaveUp(t *testing.T) {
	s, _ := newSession(t)
	typeWord(s, "DISCO")
	s.SelectByID("2A", nil)
	s.GiveUp()

	want := strings.Join([]string{
		"Daily 5×5 Cryptic — 2025-08-19",
		"🟩🟩🟩🟩🟩",
		"⬜⬛⬜⬛⬜",
		"🟥🟥🟥🟥🟥",
		"⬜⬛⬜⬛⬜",
		"⬜⬜⬜⬜⬜",
		"#cryptic",
	}, "\n")
	if got := s.Share(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestShareHelped(t *testing.T) {
	s, _ := newSession(t)
	s.Hint(HintDefinition)
	typeWord(s, "DISCO")
	lines := strings.Split(s.Share(), "\n")
	if lines[1] != "🟨🟨🟨🟨🟨" {
		t.Fatalf("row 0 = %q", lines[1])
	}
}

func TestViewHidesAnswers(t *testing.T) {
	s, _ := newSession(t)
	b, err := json.Marshal(s.View())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range s.Puzzle.Index.Entries() {
		if strings.Contains(string(b), `"`+e.Answer+`"`) {
			t.Fatalf("view leaks answer %s", e.Answer)
		}
	}
}

func TestViewCursorAndClue(t *testing.T) {
	s, _ := newSession(t)
	s.SelectByID("2D", nil)
	v := s.View()
	if v.Cursor == nil || *v.Cursor != at(0, 2) {
		t.Fatalf("cursor = %v", v.Cursor)
	}
	if !v.Cells[0][2].Active || !v.Cells[4][2].InEntry || v.Cells[0][0].InEntry {
		t.Fatal("active/inEntry flags wrong")
	}
	if v.Clue == nil || v.Clue.EntryID != "2D" || v.Clue.Header != "2 Down — 5 letters" {
		t.Fatalf("clue = %+v", v.Clue)
	}
	if v.Cells[1][1].Blocked != true || v.Cells[0][0].Label != "1" {
		t.Fatal("layout flags wrong")
	}
}

func TestDefinitionsOnlyWhenShown(t *testing.T) {
	s, _ := newSession(t)
	if defs := s.View().Clue.Definitions; len(defs) != 0 {
		t.Fatalf("definitions before hint = %q", defs)
	}
	s.Hint(HintDefinition)
	defs := s.View().Clue.Definitions
	if len(defs) != 1 || defs[0] != "a certain type of fever?" {
		t.Fatalf("definitions = %q", defs)
	}
}

func TestHintTogglesResetOnEntryChange(t *testing.T) {
	s, _ := newSession(t)
	u := s.Hint(HintDefinition)
	if !u.ClueChanged || !s.State("1A").HintsUsed {
		t.Fatalf("definition hint update = %+v", u)
	}
	s.Hint(HintAnalysis)
	v := s.View()
	if !v.Clue.ShowDefinition || !v.Clue.ShowAnalysis {
		t.Fatal("hint toggles not shown")
	}
	s.Hint(HintDefinition)
	if s.View().Clue.ShowDefinition {
		t.Fatal("second definition hint should hide it")
	}
	if !s.State("1A").HintsUsed {
		t.Fatal("hint flag cleared")
	}
	s.SelectByID("1D", nil)
	if v := s.View(); v.Clue.ShowAnalysis || v.Clue.ShowDefinition {
		t.Fatal("toggles survived an entry change")
	}
	if s.State("1D").HintsUsed {
		t.Fatal("hint leaked to another entry")
	}
}

func TestRevealLetter(t *testing.T) {
	s, _ := newSession(t)
	e := s.Puzzle.Index.Entry("3A")
	u := s.RevealLetter(e)
	if len(u.Cells) != 1 {
		t.Fatalf("revealed %d cells", len(u.Cells))
	}
	c := u.Cells[0]
	i := e.IndexOf(c)
	if i < 0 || s.Letter(c) != rune(e.Answer[i]) {
		t.Fatalf("revealed %q at %v", s.Letter(c), c)
	}
	if st := s.State("3A"); !st.HintsUsed || st.Solved {
		t.Fatalf("state = %+v", st)
	}
	for range e.Path {
		s.RevealLetter(e)
	}
	if !s.State("3A").Solved {
		t.Fatal("revealing every letter should solve")
	}
}

func TestRevealLetterNoopWhenFull(t *testing.T) {
	s, _ := newSession(t)
	typeWord(s, "DISCO")
	before := s.State("1A")
	if u := s.RevealLetter(s.Puzzle.Index.Entry("1A")); u.Changed() {
		t.Fatalf("update = %+v", u)
	}
	if s.State("1A") != before {
		t.Fatal("state changed on a full entry")
	}
}

func TestRevealEntry(t *testing.T) {
	s, rec := newSession(t)
	e := s.Puzzle.Index.Entry("2A")
	u := s.RevealEntry(e)
	if len(u.Solved) != 1 || u.Solved[0] != "2A" {
		t.Fatalf("solved = %v", u.Solved)
	}
	if !s.CheckEntry(e) {
		t.Fatal("CheckEntry false after reveal")
	}
	st := s.State("2A")
	if !st.GaveUp || !st.Solved {
		t.Fatalf("state = %+v", st)
	}
	if len(rec.events) != 1 || !rec.events[0].GaveUp {
		t.Fatalf("events = %+v", rec.events)
	}
}
