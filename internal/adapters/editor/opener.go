package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	// Editor overrides $EDITOR and $VISUAL when set
	Editor string
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener(editor string) *Opener {
	return &Opener{Editor: editor}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	// allow "code --wait" style editors
	fields := strings.Fields(editor)
	args := append(fields[1:], path)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// EditText writes text to a temporary VPG file, opens it in the editor and
// returns what was saved
func (o *Opener) EditText(name, text string) (string, error) {
	f, err := os.CreateTemp("", tempPattern(name))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := o.OpenFile(path); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}

func tempPattern(name string) string {
	base := strings.TrimSuffix(name, domain.Extension)
	base = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '*' {
			return '_'
		}
		return r
	}, base)
	return base + "-*" + domain.Extension
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if o.Editor != "" {
		return o.Editor
	}

	// Check $EDITOR first
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Check $VISUAL
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
