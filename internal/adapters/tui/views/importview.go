package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/filesystem"
	"vpgsync/internal/adapters/tui/styles"
	"vpgsync/internal/application/commands"
	"vpgsync/internal/application/watcher"
)

// ImportKeyMap defines key bindings for the import prompt
type ImportKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var ImportKeys = ImportKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "import"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type importDoneMsg struct {
	result *commands.ImportResult
	err    error
}

// ImportModel prompts for a .vpg path and imports it
type ImportModel struct {
	ViewState
	watcher *watcher.Watcher
	input   textinput.Model
	spinner spinner.Model
	running bool
}

// NewImportModel creates a new import prompt
func NewImportModel(w *watcher.Watcher) *ImportModel {
	input := textinput.New()
	input.Placeholder = "~/models/cube.vpg"
	input.Prompt = "Path: "
	input.CharLimit = 1024

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.HelpKey

	return &ImportModel{watcher: w, input: input, spinner: s}
}

// Reset clears the prompt and focuses it
func (m *ImportModel) Reset() {
	m.input.SetValue("")
	m.input.Focus()
	m.running = false
	m.ClearMessage()
}

// Init starts the cursor blinking
func (m *ImportModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the import prompt
func (m *ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case importDoneMsg:
		m.running = false
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			m.input.Focus()
			return m, nil
		}
		message := msg.result.Message
		return m, func() tea.Msg { return ImportedMsg{Message: message} }

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch {
		case key.Matches(msg, ImportKeys.Cancel):
			return m, func() tea.Msg { return SwitchToMonitorMsg{} }
		case key.Matches(msg, ImportKeys.Submit):
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			m.running = true
			m.input.Blur()
			m.ClearMessage()
			return m, tea.Batch(m.spinner.Tick, m.importPath(path))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ImportModel) importPath(path string) tea.Cmd {
	return func() tea.Msg {
		abs, err := filesystem.AbsPath(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		res, err := commands.NewImportCommand(m.watcher, abs).Execute(context.Background())
		return importDoneMsg{result: res, err: err}
	}
}

// View renders the import prompt
func (m *ImportModel) View() string {
	v := NewViewBuilder().Title("Import VPG file")
	v.Line(m.input.View())
	v.BlankLine()
	if m.running {
		v.Line(m.spinner.View() + " importing...")
		v.BlankLine()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(ImportKeys.Submit, ImportKeys.Cancel)
	return v.String()
}
