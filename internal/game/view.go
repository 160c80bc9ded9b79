package game

import (
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
	"github.com/robalobadob/cryptic/apps/go-server/internal/share"
)

// CellView is one square as the renderer sees it.
type CellView struct {
	Blocked bool   `json:"blocked,omitempty"`
	Letter  string `json:"letter,omitempty"`
	Label   string `json:"label,omitempty"`
	Active  bool   `json:"active,omitempty"`  // under the cursor
	InEntry bool   `json:"inEntry,omitempty"` // on the active entry's path
}

// SegmentView is a clue segment with its resolved tooltip.
type SegmentView struct {
	Type     puzzle.SegmentType `json:"type"`
	Category string             `json:"category,omitempty"`
	Text     string             `json:"text"`
	Tip      string             `json:"tip"`
}

// ClueView is the clue panel for the active entry.
type ClueView struct {
	EntryID        string           `json:"entryId"`
	Header         string           `json:"header"`
	Direction      puzzle.Direction `json:"direction"`
	Surface        string           `json:"surface"`
	PrimaryDevice  string           `json:"primaryDevice,omitempty"`
	Segments       []SegmentView    `json:"segments"`
	Definitions    []string         `json:"definitions,omitempty"` // only when ShowDefinition
	ShowDefinition bool             `json:"showDefinition"`
	ShowAnalysis   bool             `json:"showAnalysis"`
}

// EntryView summarises one entry for clue lists.
type EntryView struct {
	ID        string           `json:"id"`
	Direction puzzle.Direction `json:"direction"`
	Length    int              `json:"length"`
	Surface   string           `json:"surface"`
	State     EntryState       `json:"state"`
}

// View is a full snapshot for the rendering collaborator. It carries no
// answers.
type View struct {
	SessionID   string        `json:"sessionId"`
	PuzzleID    string        `json:"puzzleId"`
	Placeholder bool          `json:"placeholder,omitempty"`
	Rows        int           `json:"rows"`
	Cols        int           `json:"cols"`
	Cells       [][]CellView  `json:"cells"`
	Cursor      *puzzle.Coord `json:"cursor,omitempty"`
	Clue        *ClueView     `json:"clue,omitempty"`
	Entries     []EntryView   `json:"entries"`
	Complete    bool          `json:"complete"`
}

// View renders the session state. Cells are visited once each, so shared
// cells never appear twice.
func (s *Session) View() View {
	p := s.Puzzle
	v := View{
		SessionID:   s.ID,
		PuzzleID:    p.ID,
		Placeholder: p.IsPlaceholder(),
		Rows:        p.Rows(),
		Cols:        p.Cols(),
		Complete:    s.Complete(),
	}

	active, hasCursor := s.cursor.Cell()
	if hasCursor {
		at := active
		v.Cursor = &at
	}
	v.Cells = make([][]CellView, v.Rows)
	for r := 0; r < v.Rows; r++ {
		v.Cells[r] = make([]CellView, v.Cols)
		for c := 0; c < v.Cols; c++ {
			at := puzzle.Coord{Row: r, Col: c}
			cell, _ := s.grid.Cell(at)
			cv := CellView{Blocked: cell.Blocked, Label: cell.Label}
			if cell.Letter != 0 {
				cv.Letter = string(cell.Letter)
			}
			cv.Active = hasCursor && at == active
			cv.InEntry = s.cursor.Entry != nil && s.cursor.Entry.Contains(at)
			v.Cells[r][c] = cv
		}
	}

	if e := s.cursor.Entry; e != nil {
		cv := &ClueView{
			EntryID:        e.ID,
			Header:         e.Header(),
			Direction:      e.Direction,
			Surface:        e.Clue.Surface,
			PrimaryDevice:  e.Clue.PrimaryDevice(),
			ShowDefinition: s.showDefinition,
			ShowAnalysis:   s.showAnalysis,
		}
		for _, seg := range e.Clue.Segments {
			cv.Segments = append(cv.Segments, SegmentView{
				Type: seg.Type, Category: seg.Category, Text: seg.Text, Tip: seg.Tip(),
			})
		}
		if s.showDefinition {
			for _, seg := range e.Clue.Definitions() {
				cv.Definitions = append(cv.Definitions, seg.Text)
			}
		}
		v.Clue = cv
	}

	for _, e := range p.Index.Entries() {
		v.Entries = append(v.Entries, EntryView{
			ID:        e.ID,
			Direction: e.Direction,
			Length:    len(e.Path),
			Surface:   e.Clue.Surface,
			State:     s.State(e.ID),
		})
	}
	return v
}

// Share formats the session's result grid.
func (s *Session) Share() string {
	status := make(map[string]share.Status, len(s.states))
	for id, st := range s.states {
		status[id] = share.Status{Solved: st.Solved, HintsUsed: st.HintsUsed, GaveUp: st.GaveUp}
	}
	return share.Format(s.Puzzle.ID, s.Puzzle.Rows(), s.Puzzle.Cols(), s.grid, s.Puzzle.Index.Entries(), status)
}
