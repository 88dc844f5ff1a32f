package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"vpgsync/internal/adapters/tui/styles"
	"vpgsync/internal/domain"
	"vpgsync/internal/vpg"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderStats renders one tick's statistics as a status bar
func RenderStats(stats domain.TickStats, ticks, historyLen, historyCursor int) string {
	parts := []string{
		fmt.Sprintf("tick %d", ticks),
		stats.Duration.Round(time.Microsecond).String(),
		fmt.Sprintf("geo→txt %d", stats.GeometryApplied),
		fmt.Sprintf("txt→geo %d", stats.TextApplied),
	}
	if stats.Linked > 0 {
		parts = append(parts, fmt.Sprintf("linked %d", stats.Linked))
	}
	if stats.OrphansRemoved > 0 {
		parts = append(parts, fmt.Sprintf("orphans %d", stats.OrphansRemoved))
	}
	if stats.Failures > 0 {
		parts = append(parts, styles.ErrorMsg.Render(fmt.Sprintf("failures %d", stats.Failures)))
	}
	parts = append(parts, fmt.Sprintf("history %d/%d", historyCursor+1, historyLen))
	return styles.StatusBar.Render(strings.Join(parts, "  "))
}

// RenderVPGLine colors one line of VPG text by kind
func RenderVPGLine(line string) string {
	switch vpg.Classify(line) {
	case vpg.LineVertex:
		return styles.TextVertex.Render(line)
	case vpg.LineFace:
		return styles.TextFace.Render(line)
	case vpg.LineComment:
		return styles.TextComment.Render(line)
	default:
		return line
	}
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Subtitle adds a subtitle section
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(styles.Subtitle.Render(subtitle))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(styles.MutedText.Render(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
