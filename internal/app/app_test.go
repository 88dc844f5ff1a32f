package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vpgsync/internal/application/commands"
	"vpgsync/internal/config"
)

const triangleText = "n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3\n"

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "scene.db")
	return cfg
}

func openRuntime(t *testing.T, cfg config.Config) *Runtime {
	t.Helper()
	rt, err := Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return rt
}

func TestOpen_LinksSurviveRestart(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "tri.vpg")
	if err := os.WriteFile(path, []byte(triangleText), 0644); err != nil {
		t.Fatal(err)
	}

	rt := openRuntime(t, cfg)
	if _, err := commands.NewImportCommand(rt.Watcher, path).Execute(context.Background()); err != nil {
		t.Fatalf("import: %v", err)
	}
	rt.Watcher.Tick()
	if err := rt.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	rt = openRuntime(t, cfg)
	defer rt.Close()

	res, err := commands.NewShowCommand(rt.Watcher, "tri").Execute(context.Background())
	if err != nil {
		t.Fatalf("show after reopen: %v", err)
	}
	if res.Path != path || !strings.Contains(res.Text, "e1 1 2 3") {
		t.Errorf("show = %q %q", res.Path, res.Text)
	}
}

func TestWatchDisk_FollowsDocuments(t *testing.T) {
	rt := openRuntime(t, testConfig(t))
	defer rt.Close()

	if err := rt.WatchDisk(0); err != nil {
		t.Fatalf("WatchDisk() error: %v", err)
	}
	if got := rt.Watched(); len(got) != 0 {
		t.Fatalf("Watched() = %v, want none", got)
	}

	path := filepath.Join(t.TempDir(), "tri.vpg")
	if err := os.WriteFile(path, []byte(triangleText), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := commands.NewImportCommand(rt.Watcher, path).Execute(context.Background()); err != nil {
		t.Fatalf("import: %v", err)
	}
	rt.Watcher.Tick()

	if got := rt.Watched(); len(got) != 1 || got[0] != path {
		t.Errorf("Watched() = %v, want [%s]", got, path)
	}
}

func TestOpen_BadDatabase(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.DBPath = dir // a directory cannot be opened as a database

	if _, err := Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("Open() on a directory should fail")
	}
}
