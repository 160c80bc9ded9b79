package puzzle

import (
	"errors"
	"strings"
	"testing"
)

func discoGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(GridData{
		Rows:   5,
		Cols:   5,
		Blocks: []Block{{1, 1}, {1, 3}, {3, 1}, {3, 3}},
	})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func discoEntries() []RawEntry {
	return []RawEntry{
		{ID: "1A", Direction: Across, Row: 0, Col: 0, Answer: "DISCO"},
		{ID: "2A", Direction: Across, Row: 2, Col: 0, Answer: "INANE"},
		{ID: "3A", Direction: Across, Row: 4, Col: 0, Answer: "TAROT"},
		{ID: "1D", Direction: Down, Row: 0, Col: 0, Answer: "DRIFT"},
		{ID: "2D", Direction: Down, Row: 0, Col: 2, Answer: "STAIR"},
		{ID: "3D", Direction: Down, Row: 0, Col: 4, Answer: "OVERT"},
	}
}

func TestBuildPaths(t *testing.T) {
	ix, err := Build(discoGrid(t), discoEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, e := range ix.Entries() {
		if len(e.Path) != len(e.Answer) {
			t.Errorf("%s: path %d != answer %d", e.ID, len(e.Path), len(e.Answer))
		}
		dr, dc := e.Direction.Step()
		for i := 1; i < len(e.Path); i++ {
			if e.Path[i] != e.Path[i-1].Add(dr, dc) {
				t.Errorf("%s: path not contiguous at %d", e.ID, i)
			}
		}
	}

	d := ix.Entry("1D")
	want := []Coord{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	for i, c := range want {
		if d.Path[i] != c {
			t.Fatalf("1D path[%d] = %v, want %v", i, d.Path[i], c)
		}
	}
}

func TestBuildCellToEntries(t *testing.T) {
	ix, err := Build(discoGrid(t), discoEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tests := []struct {
		c    Coord
		want []string
	}{
		{Coord{0, 0}, []string{"1A", "1D"}},
		{Coord{0, 1}, []string{"1A"}},
		{Coord{1, 0}, []string{"1D"}},
		{Coord{1, 1}, nil},
		{Coord{2, 2}, []string{"2A", "2D"}},
	}
	for _, tt := range tests {
		got := ix.EntriesAt(tt.c)
		if len(got) != len(tt.want) {
			t.Fatalf("EntriesAt(%v) = %d entries, want %d", tt.c, len(got), len(tt.want))
		}
		for i, e := range got {
			if e.ID != tt.want[i] {
				t.Errorf("EntriesAt(%v)[%d] = %s, want %s", tt.c, i, e.ID, tt.want[i])
			}
		}
	}
	if n := len(ix.StartingAt(Coord{0, 0})); n != 2 {
		t.Fatalf("StartingAt(0,0) = %d entries, want 2", n)
	}
}

func TestBuildLengthMismatch(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		row    int
		col    int
	}{
		{"too long for blocked path", "DISCOS", 0, 0},
		{"too short", "DISC", 0, 0},
		{"runs into block", "AB", 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(discoGrid(t), []RawEntry{
				{ID: "X", Direction: Across, Row: tt.row, Col: tt.col, Answer: tt.answer},
			})
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.EntryID != "X" {
				t.Fatalf("expected ValidationError for X, got %v", err)
			}
		})
	}
}

func TestBuildRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		raws []RawEntry
		msg  string
	}{
		{"out of bounds", []RawEntry{{ID: "1A", Direction: Across, Row: 9, Col: 0, Answer: "A"}}, "out of bounds"},
		{"blocked start", []RawEntry{{ID: "1A", Direction: Across, Row: 1, Col: 1, Answer: "A"}}, "blocked"},
		{"bad direction", []RawEntry{{ID: "1A", Direction: "diagonal", Row: 0, Col: 0, Answer: "DISCO"}}, "direction"},
		{"non letters", []RawEntry{{ID: "1A", Direction: Across, Row: 0, Col: 0, Answer: "DIS-O"}}, "letters"},
		{"duplicate id", []RawEntry{
			{ID: "1A", Direction: Across, Row: 0, Col: 0, Answer: "DISCO"},
			{ID: "1A", Direction: Across, Row: 2, Col: 0, Answer: "INANE"},
		}, "duplicate"},
		{"same direction overlap", []RawEntry{
			{ID: "1A", Direction: Across, Row: 0, Col: 0, Answer: "DISCO"},
			{ID: "9A", Direction: Across, Row: 0, Col: 2, Answer: "SCO"},
		}, "overlaps"},
		{"no entries", nil, "no entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(discoGrid(t), tt.raws)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestBuildLowercaseAnswer(t *testing.T) {
	ix, err := Build(discoGrid(t), []RawEntry{{ID: "1A", Direction: Across, Row: 0, Col: 0, Answer: "disco"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := ix.Entry("1A").Answer; got != "DISCO" {
		t.Fatalf("answer = %q, want DISCO", got)
	}
}

func TestFindEntryAtAndResolve(t *testing.T) {
	ix, err := Build(discoGrid(t), discoEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e := ix.FindEntryAt(Coord{0, 2}, Down); e == nil || e.ID != "2D" {
		t.Fatalf("FindEntryAt(0,2,down) = %v, want 2D", e)
	}
	if e := ix.FindEntryAt(Coord{1, 0}, Across); e != nil {
		t.Fatalf("FindEntryAt(1,0,across) = %s, want nil", e.ID)
	}
	if e := ix.Resolve(Coord{1, 0}, Across); e == nil || e.ID != "1D" {
		t.Fatalf("Resolve(1,0,across) = %v, want 1D fallback", e)
	}
	if e := ix.Resolve(Coord{1, 1}, Across); e != nil {
		t.Fatalf("Resolve on block = %s, want nil", e.ID)
	}
	if e := ix.First(); e.ID != "1A" {
		t.Fatalf("First = %s, want 1A", e.ID)
	}
}

func TestEntryHeader(t *testing.T) {
	ix, err := Build(discoGrid(t), discoEntries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := ix.Entry("2D").Header(); got != "2 Down — 5 letters" {
		t.Fatalf("Header = %q", got)
	}
}
