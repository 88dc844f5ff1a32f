package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg {
			return SwitchToMonitorMsg{}
		}
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("vpgsync Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Geometry and VPG text, kept in sync"))
	b.WriteString("\n\n")

	b.WriteString(styles.Label.Render("Objects"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("Enter", "Show VPG text"))
	b.WriteString(helpLine("y", "Copy VPG text to the clipboard"))
	b.WriteString(helpLine("e", "Edit VPG text in $EDITOR"))
	b.WriteString(helpLine("s", "Save buffer to its file"))
	b.WriteString(helpLine("x", "Reload buffer from its file"))
	b.WriteString(helpLine("i", "Import a .vpg file"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("History"))
	b.WriteString("\n")
	b.WriteString(helpLine("u", "Undo text edit"))
	b.WriteString(helpLine("r", "Redo text edit"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("Phases"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  linked          geometry and text agree"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  text-ahead      text edited, geometry being rebuilt"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  geometry-ahead  geometry edited, text being rewritten"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
