package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/tui/views"
	"vpgsync/internal/application/commands"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewMonitor ViewState = iota
	ViewDetail
	ViewHelp
	ViewImport
)

// App is the main TUI application model. It owns the tick schedule: every
// interval it runs one watcher tick and hands the new status to the views.
type App struct {
	watcher  *watcher.Watcher
	editor   ports.EditorOpener
	interval time.Duration

	state    ViewState
	monitor  *views.MonitorModel
	detail   *views.DetailModel
	help     *views.HelpModel
	importer *views.ImportModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(w *watcher.Watcher, ed ports.EditorOpener, interval time.Duration) *App {
	if interval <= 0 {
		interval = watcher.DefaultInterval
	}
	return &App{
		watcher:  w,
		editor:   ed,
		interval: interval,
		state:    ViewMonitor,
		monitor:  views.NewMonitorModel(w),
		detail:   views.NewDetailModel(w),
		help:     views.NewHelpModel(),
		importer: views.NewImportModel(w),
	}
}

type tickMsg time.Time

// Init runs the first tick at once
func (a *App) Init() tea.Cmd {
	return a.runTick
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) runTick() tea.Msg {
	a.watcher.Tick()
	st, _ := commands.NewStatusCommand(a.watcher).Execute(context.Background())
	return views.StatusMsg{Status: st}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.monitor.SetSize(msg.Width, msg.Height)
		a.detail.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		a.importer.SetSize(msg.Width, msg.Height)
		return a, nil

	case tickMsg:
		return a, a.runTick

	case views.StatusMsg:
		a.monitor.Update(msg)
		var cmd tea.Cmd
		if a.state == ViewDetail {
			_, cmd = a.detail.Update(msg)
		}
		return a, tea.Batch(cmd, a.scheduleTick())

	case views.ResultMsg:
		a.monitor.Update(msg)
		a.detail.Update(msg)
		return a, nil

	// View switching messages
	case views.SwitchToDetailMsg:
		a.state = ViewDetail
		a.detail.SetObject(msg.Object)
		return a, a.detail.Init()

	case views.SwitchToMonitorMsg:
		a.state = ViewMonitor
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToImportMsg:
		a.state = ViewImport
		a.importer.Reset()
		return a, a.importer.Init()

	case views.ImportedMsg:
		a.state = ViewMonitor
		a.monitor.SetMessage(msg.Message, false)
		return a, nil

	case views.EditRequestMsg:
		return a, a.openEditor(msg.Object)

	case editorFinishedMsg:
		return a, a.applyEdit(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewMonitor:
		_, cmd = a.monitor.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	case ViewImport:
		_, cmd = a.importer.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	object   string
	path     string
	original string
	err      error
}

// openEditor writes the object's text to a temporary file and suspends the
// program while the editor runs on it
func (a *App) openEditor(object string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	show, err := commands.NewShowCommand(a.watcher, object).Execute(context.Background())
	if err != nil {
		return func() tea.Msg { return views.ResultMsg{Err: err} }
	}

	f, err := os.CreateTemp("", strings.TrimSuffix(domain.ShortName(show.Path), domain.Extension)+"-*"+domain.Extension)
	if err != nil {
		return func() tea.Msg { return views.ResultMsg{Err: err} }
	}
	_, err = f.WriteString(show.Text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return func() tea.Msg { return views.ResultMsg{Err: err} }
	}

	cmd, err := a.editor.Command(f.Name())
	if err != nil {
		os.Remove(f.Name())
		return func() tea.Msg { return views.ResultMsg{Err: err} }
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{object: object, path: f.Name(), original: show.Text, err: err}
	})
}

// applyEdit puts the saved text into the object's buffer
func (a *App) applyEdit(msg editorFinishedMsg) tea.Cmd {
	return func() tea.Msg {
		defer os.Remove(msg.path)
		if msg.err != nil {
			return views.ResultMsg{Err: fmt.Errorf("editor failed: %w", msg.err)}
		}

		edited, err := os.ReadFile(msg.path)
		if err != nil {
			return views.ResultMsg{Err: err}
		}
		if string(edited) == msg.original {
			return views.ResultMsg{Message: "No changes"}
		}

		res, err := commands.NewPutTextCommand(a.watcher, msg.object, string(edited)).Execute(context.Background())
		if err != nil {
			return views.ResultMsg{Err: err}
		}
		return views.ResultMsg{Message: res.Message}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDetail:
		return a.detail.View()
	case ViewHelp:
		return a.help.View()
	case ViewImport:
		return a.importer.View()
	default:
		return a.monitor.View()
	}
}
