package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vpgsync/internal/domain"
)

func TestParseVec3(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    domain.Vec3
		wantErr bool
	}{
		{"integers", []string{"1", "2", "3"}, domain.Vec3{X: 1, Y: 2, Z: 3}, false},
		{"floats", []string{"0.5", "-1.25", "1e2"}, domain.Vec3{X: 0.5, Y: -1.25, Z: 100}, false},
		{"not a number", []string{"1", "y", "3"}, domain.Vec3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVec3(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVec3() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseVec3() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.vpg", "sub/b.vpg", "notes.txt", ".hidden/c.vpg"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := expandPaths([]string{dir, filepath.Join(dir, "missing.vpg")})
	if err != nil {
		t.Fatalf("expandPaths() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.vpg"),
		filepath.Join(dir, "sub", "b.vpg"),
		filepath.Join(dir, "missing.vpg"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("expandPaths() = %v, want %v", got, want)
	}
}

func TestFormatStats(t *testing.T) {
	if got := formatStats(domain.TickStats{EventsDrained: 3}); got != "" {
		t.Errorf("idle tick should print nothing, got %q", got)
	}
	got := formatStats(domain.TickStats{TextApplied: 1, Linked: 2})
	if !contains(got, "txt→geo 1") || !contains(got, "linked 2") {
		t.Errorf("formatStats() = %q", got)
	}
}

func TestRootCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"import"}, {"export"}, {"show"}, {"status"}, {"check"},
		{"edit"}, {"put"}, {"reload"}, {"save"}, {"undo"}, {"redo"}, {"watch"},
		{"mesh", "move"}, {"mesh", "add"}, {"mesh", "delete-vertex"}, {"mesh", "delete-object"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not registered", path)
		}
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestImportThenMoveVertex(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scene.db")
	vpgPath := filepath.Join(dir, "tri.vpg")
	if err := os.WriteFile(vpgPath, []byte("n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) {
		t.Helper()
		base := []string{"--db", db, "--config", filepath.Join(dir, "none.toml"), "--log-level", "error"}
		rootCmd.SetArgs(append(base, args...))
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	run("import", vpgPath)
	run("mesh", "move", "tri", "2", "0", "3", "0")
	run("save", "tri")

	data, err := os.ReadFile(vpgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(string(data), "n3 0 3 0") {
		t.Errorf("saved file = %q", data)
	}
}
