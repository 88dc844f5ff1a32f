package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFiles_ReadWrite(t *testing.T) {
	dir := t.TempDir()
	fs := NewFiles()
	path := filepath.Join(dir, "sub", "tri.vpg")

	if _, ok := fs.ReadFile(path); ok {
		t.Error("ReadFile on a missing file should fail")
	}
	if !fs.WriteFile(path, "n1 0 0 0\n") {
		t.Fatal("WriteFile failed")
	}
	if got, ok := fs.ReadFile(path); !ok || got != "n1 0 0 0\n" {
		t.Errorf("ReadFile() = %q, %v", got, ok)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestFiles_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// a regular file where a directory is needed
	if NewFiles().WriteFile(filepath.Join(blocker, "tri.vpg"), "n1 0 0 0") {
		t.Error("WriteFile should fail when the parent is a file")
	}
}

func TestFindVPG(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		"a.vpg",
		"nested/b.VPG",
		"nested/notes.txt",
		".hidden/c.vpg",
	} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("n1 0 0 0"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	found, err := FindVPG(dir)
	if err != nil {
		t.Fatalf("FindVPG() error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.vpg"), filepath.Join(dir, "nested", "b.VPG")}
	if len(found) != len(want) {
		t.Fatalf("FindVPG() = %v, want %v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("found[%d] = %q, want %q", i, found[i], want[i])
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x.vpg"); got != filepath.Join(home, "x.vpg") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/x.vpg"); got != "/abs/x.vpg" {
		t.Errorf("ExpandHome() changed an absolute path: %q", got)
	}
}

func TestDiskWatcher_ReportsTrackedWrites(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "tri.vpg")
	other := filepath.Join(dir, "other.vpg")
	fs := NewFiles()
	fs.WriteFile(tracked, "n1 0 0 0")
	fs.WriteFile(other, "n1 0 0 0")

	changed := make(chan string, 8)
	dw, err := NewDiskWatcher(func(p string) { changed <- p }, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewDiskWatcher() error: %v", err)
	}
	defer dw.Close()

	if err := dw.Track(tracked); err != nil {
		t.Fatalf("Track() error: %v", err)
	}
	if err := dw.Track("relative.vpg"); err != nil {
		t.Fatalf("Track(relative) error: %v", err)
	}
	if got := dw.Tracked(); len(got) != 1 || got[0] != tracked {
		t.Errorf("Tracked() = %v", got)
	}

	fs.WriteFile(other, "n1 1 1 1")
	fs.WriteFile(tracked, "n1 2 2 2")

	select {
	case p := <-changed:
		if p != tracked {
			t.Errorf("changed %q, want %q", p, tracked)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestDiskWatcher_Sync(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.vpg")
	b := filepath.Join(dir, "b.vpg")

	dw, err := NewDiskWatcher(func(string) {}, 0, nil)
	if err != nil {
		t.Fatalf("NewDiskWatcher() error: %v", err)
	}

	if err := dw.Sync([]string{a, b, "pseudo.vpg"}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if got := dw.Tracked(); len(got) != 2 {
		t.Errorf("Tracked() = %v", got)
	}
	if err := dw.Sync([]string{b}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if got := dw.Tracked(); len(got) != 1 || got[0] != b {
		t.Errorf("Tracked() = %v", got)
	}

	if err := dw.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := dw.Track(a); err != ErrWatcherClosed {
		t.Errorf("Track after Close = %v", err)
	}
}
