package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/tui/styles"
	"vpgsync/internal/application/commands"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
)

// MonitorKeyMap defines key bindings for the monitor view
type MonitorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Copy   key.Binding
	Edit   key.Binding
	Undo   key.Binding
	Redo   key.Binding
	Save   key.Binding
	Reload key.Binding
	Import key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var MonitorKeys = MonitorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", "l"),
		key.WithHelp("enter", "show text"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy text"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("r", "ctrl+r"),
		key.WithHelp("r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Reload: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reload"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// MonitorModel lists linked objects with their sync phase
type MonitorModel struct {
	ViewState
	watcher *watcher.Watcher
	status  *commands.StatusResult
	pager   *Paginator
}

// NewMonitorModel creates a new monitor model
func NewMonitorModel(w *watcher.Watcher) *MonitorModel {
	return &MonitorModel{
		watcher: w,
		pager:   NewPaginator(10),
	}
}

// Init initializes the monitor
func (m *MonitorModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions and the number of visible rows
func (m *MonitorModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// title, blank, message, stats, help and padding
	m.pager.SetPageSize(height - 10)
}

// Selected returns the object under the cursor
func (m *MonitorModel) Selected() (domain.ObjectStatus, bool) {
	if m.status == nil || m.pager.Total() == 0 {
		return domain.ObjectStatus{}, false
	}
	return m.status.Objects[m.pager.Cursor()], true
}

// Update handles messages for the monitor
func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.status = msg.Status
		m.pager.SetTotal(len(msg.Status.Objects))
		return m, nil

	case ResultMsg:
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
		} else {
			m.SetMessage(msg.Message, false)
		}
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, MonitorKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, MonitorKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, MonitorKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, MonitorKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }

		case key.Matches(msg, MonitorKeys.Import):
			return m, func() tea.Msg { return SwitchToImportMsg{} }

		case key.Matches(msg, MonitorKeys.Undo):
			return m, undoCmd(m.watcher)

		case key.Matches(msg, MonitorKeys.Redo):
			return m, redoCmd(m.watcher)
		}

		sel, ok := m.Selected()
		if !ok {
			return m, nil
		}
		switch {
		case key.Matches(msg, MonitorKeys.Enter):
			return m, func() tea.Msg { return SwitchToDetailMsg{Object: sel.Object} }
		case key.Matches(msg, MonitorKeys.Copy):
			return m, copyCmd(m.watcher, sel.Object)
		case key.Matches(msg, MonitorKeys.Edit):
			return m, func() tea.Msg { return EditRequestMsg{Object: sel.Object} }
		case key.Matches(msg, MonitorKeys.Save):
			return m, saveCmd(m.watcher, sel.Object)
		case key.Matches(msg, MonitorKeys.Reload):
			return m, reloadCmd(m.watcher, sel.Object)
		}
	}

	return m, nil
}

// View renders the monitor
func (m *MonitorModel) View() string {
	v := NewViewBuilder().Title("vpgsync")

	switch {
	case m.status == nil:
		v.Muted("Waiting for the first tick...")
	case len(m.status.Objects) == 0:
		v.Muted("No linked objects. Import a .vpg file or create geometry to start syncing.")
	default:
		v.Subtitle(fmt.Sprintf("%d linked objects, %d documents", len(m.status.Objects), len(m.status.Documents)))
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderRow(m.status.Objects[i], i == m.pager.Cursor()))
		}
		if end-start < m.pager.Total() {
			v.Muted(fmt.Sprintf("%d-%d of %d", start+1, end, m.pager.Total()))
		}
	}
	v.BlankLine()
	v.Message(m.Message, m.MessageErr)

	if m.status != nil {
		v.Line(RenderStats(m.status.LastTick, m.status.Ticks, m.status.HistoryLen, m.status.HistoryCursor))
		v.BlankLine()
	}
	v.Help(MonitorKeys.Enter, MonitorKeys.Copy, MonitorKeys.Edit, MonitorKeys.Import, MonitorKeys.Undo, MonitorKeys.Redo, MonitorKeys.Help, MonitorKeys.Quit)
	return v.String()
}

func (m *MonitorModel) renderRow(st domain.ObjectStatus, selected bool) string {
	name := padRight(st.Object, 20)
	if selected {
		name = styles.ObjectSelected.Render(name)
	} else {
		name = styles.ObjectName.Render(name)
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString("  ")
	b.WriteString(styles.Phase(st.Phase))
	fmt.Fprintf(&b, "  %5dv %5df  ", st.VertexCount, st.FaceCount)
	b.WriteString(styles.ObjectPath.Render(st.Path))
	if st.LastError != "" {
		b.WriteString("  ")
		b.WriteString(styles.ErrorMsg.Render(st.LastError))
	}
	return b.String()
}

// --- actions shared with the detail view ---

func result(message string, err error) tea.Msg {
	return ResultMsg{Message: message, Err: err}
}

func copyCmd(w *watcher.Watcher, object string) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.NewShowCommand(w, object).Execute(context.Background())
		if err != nil {
			return result("", err)
		}
		if err := clipboard.WriteAll(res.Text); err != nil {
			return result("", fmt.Errorf("failed to copy: %w", err))
		}
		return result(fmt.Sprintf("Copied %s (%d bytes)", domain.ShortName(res.Path), len(res.Text)), nil)
	}
}

func undoCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.NewUndoCommand(w).Execute(context.Background())
		if err != nil {
			return result("", err)
		}
		return result(res.Message, nil)
	}
}

func redoCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.NewRedoCommand(w).Execute(context.Background())
		if err != nil {
			return result("", err)
		}
		return result(res.Message, nil)
	}
}

func saveCmd(w *watcher.Watcher, object string) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.NewSaveCommand(w, object).Execute(context.Background())
		if err != nil {
			return result("", err)
		}
		return result(res.Message, nil)
	}
}

func reloadCmd(w *watcher.Watcher, object string) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.NewReloadCommand(w, object).Execute(context.Background())
		if err != nil {
			return result("", err)
		}
		return result(res.Message, nil)
	}
}
