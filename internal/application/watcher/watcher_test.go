package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"vpgsync/internal/adapters/memory"
	"vpgsync/internal/application/documents"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

const triangleText = "n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3\n"

type fixture struct {
	watcher *Watcher
	scene   *memory.Scene
	buffers *memory.Buffers
	files   *memory.Files
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture builds a watcher; wrap, when set, replaces the host the watcher
// sees while the engine keeps the plain scene
func newFixture(t *testing.T, files map[string]string, opts Options, wrap func(*memory.Scene) ports.GeometryHost) *fixture {
	t.Helper()
	scene := memory.NewScene()
	buffers := memory.NewBuffers()
	fs := memory.NewFiles(files)

	docs, err := documents.NewStore(buffers, fs, nil, quietLogger())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	eng := engine.New(scene, docs, quietLogger())

	var host ports.GeometryHost = scene
	if wrap != nil {
		host = wrap(scene)
	}
	w, err := New(eng, host, opts, quietLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	scene.OnChange = w.ObjectChanged
	return &fixture{watcher: w, scene: scene, buffers: buffers, files: fs}
}

func (f *fixture) mustImport(t *testing.T, path string) string {
	t.Helper()
	var name string
	err := f.watcher.Do(func(e *engine.Engine) error {
		res, err := e.Import(path)
		if err != nil {
			return err
		}
		name = res.Object
		return nil
	})
	if err != nil {
		t.Fatalf("Import(%s) error: %v", path, err)
	}
	return name
}

func TestTick_GeometryEvent(t *testing.T) {
	f := newFixture(t, map[string]string{"/tmp/tri.vpg": triangleText}, Options{}, nil)
	name := f.mustImport(t, "/tmp/tri.vpg")
	f.scene.SetActive("")

	_ = f.scene.Edit(name, func(g *domain.Geometry) { g.Vertices[2].Position.Z = 4 })
	if f.watcher.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", f.watcher.Pending())
	}

	stats := f.watcher.Tick()
	if stats.EventsDrained != 1 || stats.GeometryApplied != 1 || stats.Failures != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if got, _ := f.buffers.Get("tri.vpg"); !strings.Contains(got, "n3 0 1 4") {
		t.Errorf("buffer = %q", got)
	}

	// nothing left to do
	if stats := f.watcher.Tick(); stats.GeometryApplied != 0 || stats.TextApplied != 0 {
		t.Errorf("idle tick stats = %+v", stats)
	}
}

func TestTick_PolledFallbackChecksActiveObject(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/tmp/a.vpg": triangleText,
		"/tmp/b.vpg": triangleText,
	}, Options{}, nil)
	a := f.mustImport(t, "/tmp/a.vpg")
	b := f.mustImport(t, "/tmp/b.vpg")

	// Write does not notify, as a host mid-edit
	moved := &domain.Geometry{
		Vertices: []domain.Vertex{
			{ID: "n1", Position: domain.Vec3{X: 2}},
			{ID: "n2", Position: domain.Vec3{X: 1}},
			{ID: "n3", Position: domain.Vec3{Y: 1}},
		},
		Faces: []domain.Face{{Sequence: 1, Indices: []int{0, 1, 2}}},
	}
	_ = f.scene.Write(a, moved)
	_ = f.scene.Write(b, moved)
	f.scene.SetActive(a)

	stats := f.watcher.Tick()
	if stats.GeometryApplied != 1 {
		t.Errorf("GeometryApplied = %d, want only the active object", stats.GeometryApplied)
	}
	if got, _ := f.buffers.Get("a.vpg"); !strings.Contains(got, "n1 2 0 0") {
		t.Errorf("active buffer = %q", got)
	}
	if got, _ := f.buffers.Get("b.vpg"); got != triangleText {
		t.Errorf("inactive buffer changed to %q", got)
	}
}

func TestTick_TextEditRecordsHistory(t *testing.T) {
	f := newFixture(t, map[string]string{"/tmp/tri.vpg": triangleText}, Options{}, nil)
	name := f.mustImport(t, "/tmp/tri.vpg")

	edited := "n1 0 0 0\nn2 2 0 0\nn3 0 2 0\ne1 1 2 3\n"
	_ = f.buffers.Put("tri.vpg", edited)

	stats := f.watcher.Tick()
	if stats.TextApplied != 1 {
		t.Fatalf("TextApplied = %d", stats.TextApplied)
	}
	if g, _ := f.scene.Read(name); g.Vertices[1].Position.X != 2 {
		t.Errorf("vertex 1 = %+v", g.Vertices[1].Position)
	}
	if n, cursor := f.watcher.History(); n != 1 || cursor != 0 {
		t.Errorf("History() = %d, %d", n, cursor)
	}

	// geometry rebuilt from text is not written back
	if stats := f.watcher.Tick(); stats.GeometryApplied != 0 || stats.TextApplied != 0 {
		t.Errorf("second tick stats = %+v", stats)
	}
	if got, _ := f.buffers.Get("tri.vpg"); got != edited {
		t.Errorf("buffer = %q", got)
	}
}

func TestTick_GeometryBeatsTextInOneTick(t *testing.T) {
	f := newFixture(t, map[string]string{"/tmp/tri.vpg": triangleText}, Options{}, nil)
	name := f.mustImport(t, "/tmp/tri.vpg")

	_ = f.scene.Edit(name, func(g *domain.Geometry) { g.Vertices[0].Position.X = -1 })
	_ = f.buffers.Put("tri.vpg", "n1 9 9 9\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3\n")

	stats := f.watcher.Tick()
	if stats.GeometryApplied != 1 || stats.TextApplied != 0 {
		t.Errorf("stats = %+v", stats)
	}
	got, _ := f.buffers.Get("tri.vpg")
	if !strings.Contains(got, "n1 -1 0 0") {
		t.Errorf("buffer = %q", got)
	}

	f.watcher.Tick()
	if g, _ := f.scene.Read(name); g.Vertices[0].Position.X != -1 {
		t.Errorf("stale text came back: %+v", g.Vertices[0].Position)
	}
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, map[string]string{"/tmp/tri.vpg": triangleText}, Options{}, nil)
	name := f.mustImport(t, "/tmp/tri.vpg")

	first := "n1 0 0 0\nn2 2 0 0\nn3 0 1 0\ne1 1 2 3\n"
	second := "n1 0 0 0\nn2 3 0 0\nn3 0 1 0\ne1 1 2 3\n"
	_ = f.buffers.Put("tri.vpg", first)
	f.watcher.Tick()
	_ = f.buffers.Put("tri.vpg", second)
	f.watcher.Tick()

	res, err := f.watcher.Undo()
	if err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if !res.Applied || res.Cursor != 0 || res.Path != "/tmp/tri.vpg" {
		t.Errorf("Undo() = %+v", res)
	}
	if got, _ := f.buffers.Get("tri.vpg"); got != first {
		t.Errorf("buffer after undo = %q", got)
	}
	if g, _ := f.scene.Read(name); g.Vertices[1].Position.X != 2 {
		t.Errorf("geometry after undo: %+v", g.Vertices[1].Position)
	}

	// restoring does not record
	f.watcher.Tick()
	if n, _ := f.watcher.History(); n != 2 {
		t.Errorf("history length = %d after undo, want 2", n)
	}

	if res, err := f.watcher.Redo(); err != nil || res.Cursor != 1 {
		t.Fatalf("Redo() = %+v, %v", res, err)
	}
	if g, _ := f.scene.Read(name); g.Vertices[1].Position.X != 3 {
		t.Errorf("geometry after redo: %+v", g.Vertices[1].Position)
	}
}

func TestUndo_EmptyHistory(t *testing.T) {
	f := newFixture(t, nil, Options{}, nil)

	res, err := f.watcher.Undo()
	if err != nil || res.Applied {
		t.Errorf("Undo() = %+v, %v", res, err)
	}
}

func TestTick_OrphanCleanup(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/tmp/a.vpg": triangleText,
		"/tmp/b.vpg": triangleText,
	}, Options{}, nil)
	a := f.mustImport(t, "/tmp/a.vpg")
	f.mustImport(t, "/tmp/b.vpg")

	_ = f.buffers.Put("a.vpg", "n1 5 5 5\nn2 1 0 0\nn3 0 1 0\n")
	f.watcher.Tick()
	if n, _ := f.watcher.History(); n != 1 {
		t.Fatalf("history length = %d", n)
	}

	f.scene.Delete(a)
	stats := f.watcher.Tick()
	if stats.OrphansRemoved != 1 {
		t.Errorf("OrphansRemoved = %d, want 1", stats.OrphansRemoved)
	}
	if _, ok := f.buffers.Get("a.vpg"); ok {
		t.Error("orphaned buffer still present")
	}
	if _, ok := f.buffers.Get("b.vpg"); !ok {
		t.Error("live buffer removed")
	}
	if n, _ := f.watcher.History(); n != 0 {
		t.Errorf("history length = %d, want entries for a.vpg dropped", n)
	}

	if stats := f.watcher.Tick(); stats.OrphansRemoved != 0 || stats.Linked != 0 {
		t.Errorf("second tick stats = %+v", stats)
	}
	if _, ok := f.buffers.Get("a.vpg"); ok {
		t.Error("orphaned buffer reappeared")
	}
}

func TestTick_AutoLinksNewObjects(t *testing.T) {
	f := newFixture(t, nil, Options{}, nil)
	_, _ = f.scene.Create("Plane", &domain.Geometry{
		Vertices: []domain.Vertex{
			{Position: domain.Vec3{}},
			{Position: domain.Vec3{X: 1}},
			{Position: domain.Vec3{X: 1, Y: 1}},
			{Position: domain.Vec3{Y: 1}},
		},
		Faces: []domain.Face{{Sequence: 1, Indices: []int{0, 1, 2, 3}}},
	})

	stats := f.watcher.Tick()
	if stats.Linked != 1 {
		t.Fatalf("Linked = %d", stats.Linked)
	}
	got, _ := f.buffers.Get("Plane.vpg")
	want := "n1 0 0 0\nn2 1 0 0\nn3 1 1 0\nn4 0 1 0\ne1 1 2 3\ne2 1 3 4"
	if got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
}

func TestTick_TextChangedEvent(t *testing.T) {
	f := newFixture(t, map[string]string{"/tmp/tri.vpg": triangleText}, Options{}, nil)
	name := f.mustImport(t, "/tmp/tri.vpg")

	f.files.WriteFile("/tmp/tri.vpg", "n1 0 0 0\nn2 8 0 0\nn3 0 1 0\ne1 1 2 3\n")
	f.watcher.FileChanged("/tmp/tri.vpg")
	f.watcher.FileChanged("/tmp/unrelated.vpg")

	stats := f.watcher.Tick()
	if stats.EventsDrained != 2 || stats.TextApplied != 1 || stats.Failures != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if g, _ := f.scene.Read(name); g.Vertices[1].Position.X != 8 {
		t.Errorf("vertex 1 = %+v", g.Vertices[1].Position)
	}
}

// reentrantHost ticks the watcher from inside a tick, as a host that
// delivers notifications synchronously might
type reentrantHost struct {
	*memory.Scene
	w      *Watcher
	calls  int
	nested []domain.TickStats
}

func (h *reentrantHost) ActiveObject() (string, bool) {
	h.calls++
	if h.calls == 1 {
		h.nested = append(h.nested, h.w.Tick())
	}
	return h.Scene.ActiveObject()
}

func TestTick_ReentrantCallIsDeferred(t *testing.T) {
	var host *reentrantHost
	f := newFixture(t, nil, Options{}, func(s *memory.Scene) ports.GeometryHost {
		host = &reentrantHost{Scene: s}
		return host
	})
	host.w = f.watcher

	stats := f.watcher.Tick()
	if stats.Deferred {
		t.Error("outer tick should not be deferred")
	}
	if len(host.nested) != 1 || !host.nested[0].Deferred {
		t.Fatalf("nested ticks = %+v", host.nested)
	}
	if host.calls != 2 {
		t.Errorf("tick body ran %d times, want the deferred run folded in", host.calls)
	}
	if _, n := f.watcher.LastStats(); n != 1 {
		t.Errorf("tick count = %d", n)
	}
}

type panickyHost struct {
	*memory.Scene
	panics int
}

func (h *panickyHost) Objects() ([]string, error) {
	if h.panics > 0 {
		h.panics--
		panic("host exploded")
	}
	return h.Scene.Objects()
}

func TestTick_RecoversFromPanic(t *testing.T) {
	f := newFixture(t, nil, Options{}, func(s *memory.Scene) ports.GeometryHost {
		return &panickyHost{Scene: s, panics: 1}
	})

	if stats := f.watcher.Tick(); stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
	if stats := f.watcher.Tick(); stats.Failures != 0 || stats.Deferred {
		t.Errorf("tick after panic = %+v", stats)
	}
}

type memHistoryStore struct {
	entries []domain.HistoryEntry
	cursor  int
	saves   int
	err     error
}

func (m *memHistoryStore) LoadHistory() ([]domain.HistoryEntry, int, error) {
	return m.entries, m.cursor, m.err
}

func (m *memHistoryStore) SaveHistory(entries []domain.HistoryEntry, cursor int) error {
	m.entries, m.cursor = entries, cursor
	m.saves++
	return nil
}

func TestHistoryPersistence(t *testing.T) {
	store := &memHistoryStore{
		entries: []domain.HistoryEntry{{ShortName: "tri.vpg", Text: triangleText}},
		cursor:  0,
	}
	f := newFixture(t, map[string]string{"/tmp/tri.vpg": triangleText}, Options{HistoryStore: store}, nil)
	f.mustImport(t, "/tmp/tri.vpg")

	if n, cursor := f.watcher.History(); n != 1 || cursor != 0 {
		t.Fatalf("loaded history = %d, %d", n, cursor)
	}

	_ = f.buffers.Put("tri.vpg", "n1 1 1 1\nn2 1 0 0\nn3 0 1 0\n")
	f.watcher.Tick()
	if store.saves == 0 || len(store.entries) != 2 || store.cursor != 1 {
		t.Errorf("store = %d entries, cursor %d, %d saves", len(store.entries), store.cursor, store.saves)
	}

	bad := &memHistoryStore{err: errors.New("disk gone")}
	docs, _ := documents.NewStore(memory.NewBuffers(), memory.NewFiles(nil), nil, nil)
	if _, err := New(engine.New(memory.NewScene(), docs, nil), memory.NewScene(), Options{HistoryStore: bad}, nil); err == nil {
		t.Error("New() should fail when history cannot be loaded")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ticked := make(chan domain.TickStats, 16)
	f := newFixture(t, nil, Options{
		Interval: time.Hour,
		OnTick: func(s domain.TickStats) {
			select {
			case ticked <- s:
			default:
			}
		},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.watcher.Run(ctx) }()

	f.watcher.Notify(Event{Kind: ForceCheck, Object: "nothing"})
	select {
	case <-ticked:
	case <-time.After(5 * time.Second):
		t.Fatal("event did not trigger a tick")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestEventKind_String(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{GeometryChanged, "geometry-changed"},
		{ForceCheck, "force-check"},
		{TextChanged, "text-changed"},
		{EventKind(9), "EventKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
