// Package tui is the terminal front end: a bubbletea model that renders a
// game.Session and forwards keys and mouse clicks to it.
//
// The share toast and the "fireworks" flash on a solve are timers here;
// they only toggle presentation flags and never touch the session.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

const (
	toastDelay = 2 * time.Second
	flashDelay = 1200 * time.Millisecond

	cellWidth = 3 // " A "
	gridTop   = 2 // title line + blank line
)

// clipboardWrite is the clipboard sink for share strings.
var clipboardWrite = clipboard.WriteAll

type toastExpiredMsg struct{ seq int }

type flashExpiredMsg struct{ seq int }

// Model renders one session.
type Model struct {
	sess *game.Session

	width, height int

	toast    string
	toastSeq int
	flash    bool
	flashSeq int
}

// New returns a model for sess.
func New(sess *game.Session) *Model {
	return &Model{sess: sess}
}

// Run starts the full-screen program and blocks until the player quits.
func Run(sess *game.Session) error {
	p := tea.NewProgram(New(sess), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if c, ok := cellAt(msg.X, msg.Y); ok {
			return m, m.after(m.sess.Click(c))
		}
		return m, nil
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = false
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "down", "left", "right":
		a, _ := game.ParseArrow(key.String())
		return m, m.after(m.sess.Arrow(a))
	case "backspace", "delete":
		return m, m.after(m.sess.Backspace())
	case "tab":
		return m, m.after(m.toggleDirection())
	case "ctrl+n":
		return m, m.after(m.cycleEntry(1))
	case "ctrl+p":
		return m, m.after(m.cycleEntry(-1))
	case "ctrl+l":
		return m, m.after(m.sess.Hint(game.HintLetter))
	case "ctrl+d":
		return m, m.after(m.sess.Hint(game.HintDefinition))
	case "ctrl+a":
		return m, m.after(m.sess.Hint(game.HintAnalysis))
	case "ctrl+g":
		return m, m.after(m.sess.GiveUp())
	case "ctrl+r":
		return m, m.after(m.sess.Restart())
	case "ctrl+s":
		return m, m.share()
	}
	if key.Type == tea.KeyRunes && len(key.Runes) == 1 {
		return m, m.after(m.sess.Type(key.Runes[0]))
	}
	return m, nil
}

// after turns a transition's Update into presentation effects.
func (m *Model) after(u game.Update) tea.Cmd {
	if len(u.Solved) == 0 {
		return nil
	}
	m.flash = true
	m.flashSeq++
	seq := m.flashSeq
	cmds := []tea.Cmd{tea.Tick(flashDelay, func(time.Time) tea.Msg { return flashExpiredMsg{seq: seq} })}
	if m.sess.Complete() {
		cmds = append(cmds, m.showToast("Grid complete! ctrl+s to share"))
	} else {
		cmds = append(cmds, m.showToast("Solved "+strings.Join(u.Solved, ", ")))
	}
	return tea.Batch(cmds...)
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDelay, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m *Model) share() tea.Cmd {
	if err := clipboardWrite(m.sess.Share()); err != nil {
		return m.showToast(fmt.Sprintf("Clipboard copy failed: %v", err))
	}
	return m.showToast("Copied to clipboard")
}

// toggleDirection switches to the crossing entry at the cursor, if any.
func (m *Model) toggleDirection() game.Update {
	cur := m.sess.Cursor()
	at, ok := cur.Cell()
	if !ok {
		return game.Update{}
	}
	e := m.sess.Puzzle.Index.FindEntryAt(at, cur.Direction().Opposite())
	if e == nil {
		return game.Update{}
	}
	return m.sess.SelectEntry(e, &at)
}

// cycleEntry selects the next or previous entry in clue order.
func (m *Model) cycleEntry(step int) game.Update {
	entries := m.sess.Puzzle.Index.Entries()
	if len(entries) == 0 {
		return game.Update{}
	}
	i := 0
	if cur := m.sess.Cursor(); cur.Active() {
		for j, e := range entries {
			if e == cur.Entry {
				i = j
				break
			}
		}
	}
	next := (i + step + len(entries)) % len(entries)
	return m.sess.SelectEntry(entries[next], nil)
}

// cellAt maps a terminal position to a grid coordinate.
func cellAt(x, y int) (puzzle.Coord, bool) {
	if x < 0 || y < gridTop {
		return puzzle.Coord{}, false
	}
	return puzzle.Coord{Row: y - gridTop, Col: x / cellWidth}, true
}
