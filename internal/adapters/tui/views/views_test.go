package views

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/memory"
	"vpgsync/internal/application/commands"
	"vpgsync/internal/application/documents"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
)

const triangleText = "n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3\n"

func newWatcher(t *testing.T, files map[string]string) *watcher.Watcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scene := memory.NewScene()
	docs, err := documents.NewStore(memory.NewBuffers(), memory.NewFiles(files), nil, logger)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	w, err := watcher.New(engine.New(scene, docs, logger), scene, watcher.Options{}, logger)
	if err != nil {
		t.Fatalf("watcher.New() error: %v", err)
	}
	for path := range files {
		if _, err := commands.NewImportCommand(w, path).Execute(context.Background()); err != nil {
			t.Fatalf("import %s: %v", path, err)
		}
	}
	w.Tick()
	return w
}

func statusMsg(t *testing.T, w *watcher.Watcher) StatusMsg {
	t.Helper()
	st, err := commands.NewStatusCommand(w).Execute(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	return StatusMsg{Status: st}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestMonitor_ListsObjects(t *testing.T) {
	w := newWatcher(t, map[string]string{
		"/tmp/a.vpg": triangleText,
		"/tmp/b.vpg": triangleText,
	})
	m := NewMonitorModel(w)
	m.SetSize(100, 40)

	if out := m.View(); !contains(out, "Waiting for the first tick") {
		t.Errorf("view before status = %q", out)
	}

	m.Update(statusMsg(t, w))
	out := m.View()
	for _, want := range []string{"a", "b", "/tmp/a.vpg", "linked", "tick 1"} {
		if !contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}

	if sel, _ := m.Selected(); sel.Object != "a" {
		t.Errorf("Selected() = %q, want a", sel.Object)
	}
	m.Update(keyMsg("j"))
	if sel, _ := m.Selected(); sel.Object != "b" {
		t.Errorf("after j Selected() = %q, want b", sel.Object)
	}
	m.Update(keyMsg("j"))
	if sel, _ := m.Selected(); sel.Object != "b" {
		t.Errorf("cursor moved past the end: %q", sel.Object)
	}
}

func TestMonitor_KeysEmitMessages(t *testing.T) {
	w := newWatcher(t, map[string]string{"/tmp/tri.vpg": triangleText})
	m := NewMonitorModel(w)
	m.Update(statusMsg(t, w))

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"enter", SwitchToDetailMsg{Object: "tri"}},
		{"e", EditRequestMsg{Object: "tri"}},
		{"?", SwitchToHelpMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := m.Update(keyMsg(tt.key))
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("message = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMonitor_UndoReportsResult(t *testing.T) {
	w := newWatcher(t, map[string]string{"/tmp/tri.vpg": triangleText})
	m := NewMonitorModel(w)
	m.Update(statusMsg(t, w))

	_, cmd := m.Update(keyMsg("u"))
	msg := cmd()
	m.Update(msg)
	if !contains(m.View(), "Nothing to undo") {
		t.Errorf("view = %q", m.View())
	}
}

func TestMonitor_EmptyScene(t *testing.T) {
	w := newWatcher(t, nil)
	m := NewMonitorModel(w)
	m.Update(statusMsg(t, w))

	if !contains(m.View(), "No linked objects") {
		t.Errorf("view = %q", m.View())
	}
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("enter with nothing selected should do nothing")
	}
}

func TestDetail_ShowsTextAndIssues(t *testing.T) {
	w := newWatcher(t, map[string]string{"/tmp/tri.vpg": triangleText + "n9 x y z\n"})
	m := NewDetailModel(w)
	m.SetSize(100, 40)
	m.SetObject("tri")

	m.Update(m.Init()())
	out := m.View()
	for _, want := range []string{"/tmp/tri.vpg", "n1 0 0 0", "e1 1 2 3", "line 5"} {
		if !contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}

	_, cmd := m.Update(keyMsg("esc"))
	if cmd == nil || cmd() != (SwitchToMonitorMsg{}) {
		t.Error("esc should return to the monitor")
	}
}

func TestDetail_UnknownObject(t *testing.T) {
	w := newWatcher(t, nil)
	m := NewDetailModel(w)
	m.SetObject("ghost")

	m.Update(m.Init()())
	if !contains(m.View(), "object has no VPG file") {
		t.Errorf("view = %q", m.View())
	}
}

func TestHelp_Closes(t *testing.T) {
	m := NewHelpModel()
	if !contains(m.View(), "Undo text edit") {
		t.Error("help should list history keys")
	}
	_, cmd := m.Update(keyMsg("?"))
	if cmd == nil || cmd() != (SwitchToMonitorMsg{}) {
		t.Error("? should close help")
	}
}

func TestPaginator(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(10)

	for i := 0; i < 4; i++ {
		p.CursorDown()
	}
	if start, end := p.VisibleRange(); p.Cursor() != 4 || start != 2 || end != 5 {
		t.Errorf("cursor %d, range %d-%d", p.Cursor(), start, end)
	}

	p.SetTotal(2)
	if p.Cursor() != 1 {
		t.Errorf("cursor after shrinking = %d, want 1", p.Cursor())
	}
	if start, end := p.VisibleRange(); start != 1 || end != 2 {
		t.Errorf("range after shrinking = %d-%d", start, end)
	}

	p.SetTotal(0)
	if p.CursorDown() || p.CursorUp() || p.Cursor() != 0 {
		t.Error("an empty paginator should not move")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestImport_PromptImportsFile(t *testing.T) {
	w := newWatcher(t, nil)
	m := NewImportModel(w)
	m.Reset()

	for _, r := range "/tmp/ghost.vpg" {
		m.Update(keyMsg(string(r)))
	}
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter should start the import")
	}
	if !contains(m.View(), "importing") {
		t.Errorf("view while running = %q", m.View())
	}

	m.Update(m.importPath("/tmp/ghost.vpg")())
	if !m.MessageErr {
		t.Errorf("importing a missing file should show an error, got %q", m.Message)
	}

	_, cmd = m.Update(keyMsg("esc"))
	if cmd == nil || cmd() != (SwitchToMonitorMsg{}) {
		t.Error("esc should return to the monitor")
	}
}

func TestImport_Success(t *testing.T) {
	w := newWatcher(t, map[string]string{"/tmp/tri.vpg": triangleText})
	m := NewImportModel(w)
	m.Reset()

	_, cmd := m.Update(m.importPath("/tmp/tri.vpg")())
	if cmd == nil {
		t.Fatal("a finished import should report back")
	}
	done, ok := cmd().(ImportedMsg)
	if !ok || !contains(done.Message, "tri") {
		t.Errorf("message = %#v", done)
	}
}
