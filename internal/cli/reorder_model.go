package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type reorderKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Pick    key.Binding
	DropBef key.Binding
	DropAft key.Binding
	Cancel  key.Binding
	Save    key.Binding
	Quit    key.Binding
}

func defaultReorderKeys() reorderKeyMap {
	return reorderKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Pick:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		DropBef: key.NewBinding(key.WithKeys("enter", "b"), key.WithHelp("enter/b", "drop before")),
		DropAft: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "drop after")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel move")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k reorderKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Pick, k.DropBef, k.DropAft, k.Cancel, k.Save, k.Quit}
}

func (k reorderKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// orderSavedMsg reports the outcome of persisting the order.
type orderSavedMsg struct{ err error }

// reorderModel drives a planner.Session from the keyboard: pick an
// initiative up, move the cursor to a target, drop before or after it.
// Every accepted drop recomputes classification and team load.
type reorderModel struct {
	session *planner.Session
	save    func(ids []string) error
	keys    reorderKeyMap
	help    help.Model

	cursor      int
	message     string
	isErr       bool
	dirty       bool
	confirmQuit bool
}

func newReorderModel(session *planner.Session, save func(ids []string) error) *reorderModel {
	return &reorderModel{
		session: session,
		save:    save,
		keys:    defaultReorderKeys(),
		help:    help.New(),
	}
}

func (m *reorderModel) Init() tea.Cmd { return nil }

func (m *reorderModel) rows() []*domain.Initiative {
	return m.session.YearOrder()
}

func (m *reorderModel) current() *domain.Initiative {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return rows[m.cursor]
}

func (m *reorderModel) setError(rej *planner.MoveRejection) {
	m.message = rej.Message
	m.isErr = true
}

func (m *reorderModel) setInfo(msg string) {
	m.message = msg
	m.isErr = false
}

func (m *reorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case orderSavedMsg:
		if msg.err != nil {
			m.message = "save failed: " + msg.err.Error()
			m.isErr = true
			return m, nil
		}
		m.dirty = false
		m.setInfo("Order saved.")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *reorderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.setInfo("Unsaved order. Press q again to discard, s to save.")
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Pick):
		cur := m.current()
		if cur == nil {
			return m, nil
		}
		if rej := m.session.BeginMove(cur.ID); rej != nil {
			m.setError(rej)
			return m, nil
		}
		m.setInfo(fmt.Sprintf("Moving %s. Choose a target and drop.", cur.Title))

	case key.Matches(msg, m.keys.DropBef), key.Matches(msg, m.keys.DropAft):
		cur := m.current()
		if cur == nil || m.session.DragState() != planner.Dragging {
			return m, nil
		}
		pos := planner.DropBefore
		if key.Matches(msg, m.keys.DropAft) {
			pos = planner.DropAfter
		}
		draggedID := m.session.DraggingID()
		if rej := m.session.AttemptDrop(cur.ID, pos); rej != nil {
			m.setError(rej)
			return m, nil
		}
		if cur.ID != draggedID {
			m.dirty = true
		}
		m.cursor = indexOfInitiative(m.rows(), draggedID)
		m.setInfo("Moved.")

	case key.Matches(msg, m.keys.Cancel):
		if m.session.DragState() == planner.Dragging {
			m.session.Cancel()
			m.setInfo("Move cancelled.")
		}

	case key.Matches(msg, m.keys.Save):
		ids := make([]string, 0, len(m.rows()))
		for _, init := range m.rows() {
			ids = append(ids, init.ID)
		}
		save := m.save
		return m, func() tea.Msg {
			return orderSavedMsg{err: save(ids)}
		}
	}
	return m, nil
}

func indexOfInitiative(list []*domain.Initiative, id string) int {
	for i, init := range list {
		if init.ID == id {
			return i
		}
	}
	return 0
}

func (m *reorderModel) View() string {
	res := m.session.Result()
	var b strings.Builder
	b.WriteString(formatter.FormatPlanHeader(res))
	b.WriteString("\n\n")

	dragging := m.session.DraggingID()
	for i, init := range m.rows() {
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("> ")
		}
		title := init.Title
		if init.IsProtected {
			title = formatter.StylePurple.Render("◆ ") + title
		}
		if init.ID == dragging {
			title = formatter.StyleYellow.Render("⇅ " + init.Title)
		}
		label := formatter.ClassLabel(init.Classification)
		if init.IsCompleted() {
			label = formatter.Dim("done")
		}
		fmt.Fprintf(&b, "%s%s %s  %s %s\n", marker, formatter.PadRight(label, 4), title,
			formatter.Dim(formatter.Number(init.TotalSDE())),
			formatter.Dim("Σ "+formatter.Number(init.CumulativeSDE)))
	}

	b.WriteString("\n")
	b.WriteString(formatter.FormatTeamLoad(res.TeamLoad))
	b.WriteString("\n")
	if m.message != "" {
		if m.isErr {
			b.WriteString(formatter.StyleRed.Render(m.message))
		} else {
			b.WriteString(formatter.StyleGreen.Render(m.message))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
