package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/tui/styles"
	"vpgsync/internal/application/commands"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
	"vpgsync/internal/vpg"
)

// DetailKeyMap defines key bindings for the detail view
type DetailKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Copy key.Binding
	Edit key.Binding
	Back key.Binding
}

var DetailKeys = DetailKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "h", "q"),
		key.WithHelp("esc", "back"),
	),
}

type detailLoadedMsg struct {
	show *commands.ShowResult
	err  error
}

// DetailModel shows the live VPG text of one object
type DetailModel struct {
	ViewState
	watcher *watcher.Watcher
	object  string
	show    *commands.ShowResult
	status  domain.ObjectStatus
	lines   []string
	pager   *Paginator
}

// NewDetailModel creates a new detail model
func NewDetailModel(w *watcher.Watcher) *DetailModel {
	return &DetailModel{
		watcher: w,
		pager:   NewPaginator(20),
	}
}

// SetObject selects the object to show
func (m *DetailModel) SetObject(name string) {
	if name != m.object {
		m.pager.SetCursor(0)
		m.status = domain.ObjectStatus{}
	}
	m.object = name
	m.ClearMessage()
}

// SetSize updates the view dimensions and the number of visible lines
func (m *DetailModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(height - 9)
}

// Init loads the text
func (m *DetailModel) Init() tea.Cmd {
	return m.load
}

func (m *DetailModel) load() tea.Msg {
	res, err := commands.NewShowCommand(m.watcher, m.object).Execute(context.Background())
	return detailLoadedMsg{show: res, err: err}
}

// Update handles messages for the detail view
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.status, _ = statusByName(msg.Status, m.object)
		return m, m.load

	case detailLoadedMsg:
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.show = msg.show
		m.lines = vpg.SplitLines(msg.show.Text)
		m.pager.SetTotal(len(m.lines))
		return m, nil

	case ResultMsg:
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
		} else {
			m.SetMessage(msg.Message, false)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DetailKeys.Back):
			return m, func() tea.Msg { return SwitchToMonitorMsg{} }
		case key.Matches(msg, DetailKeys.Up):
			m.pager.CursorUp()
		case key.Matches(msg, DetailKeys.Down):
			m.pager.CursorDown()
		case key.Matches(msg, DetailKeys.Copy):
			return m, copyCmd(m.watcher, m.object)
		case key.Matches(msg, DetailKeys.Edit):
			object := m.object
			return m, func() tea.Msg { return EditRequestMsg{Object: object} }
		}
	}
	return m, nil
}

// View renders the detail view
func (m *DetailModel) View() string {
	v := NewViewBuilder().Title(m.object)

	if m.show != nil {
		v.Line(fmt.Sprintf("%s  %s", styles.ObjectPath.Render(m.show.Path), styles.Phase(m.show.Phase)))
		if m.status.Object != "" {
			v.Muted(fmt.Sprintf("%d vertices, %d faces", m.status.VertexCount, m.status.FaceCount))
		}
		if m.status.LastError != "" {
			v.Line(styles.ErrorMsg.Render("last sync failed: " + m.status.LastError))
		}
		v.BlankLine()

		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			marker := "  "
			if i == m.pager.Cursor() {
				marker = styles.HelpKey.Render("▶ ")
			}
			v.Line(marker + RenderVPGLine(m.lines[i]))
		}
		for _, issue := range m.show.Issues {
			v.Line(styles.ErrorMsg.Render("! " + issue.String()))
		}
		v.BlankLine()
	}

	v.Message(m.Message, m.MessageErr)
	v.Help(DetailKeys.Up, DetailKeys.Down, DetailKeys.Copy, DetailKeys.Edit, DetailKeys.Back)
	return v.String()
}
