// Package filesystem adapts the operating system's file system: plain file
// I/O for VPG files, discovery of VPG files under a directory and change
// notification for tracked files.
package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// Files implements ports.FileSystem on the local disk
type Files struct{}

var _ ports.FileSystem = Files{}

// NewFiles creates an OS file system adapter
func NewFiles() Files {
	return Files{}
}

// ReadFile returns a file's content; any error reads as a miss
func (Files) ReadFile(path string) (string, bool) {
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// WriteFile writes content through a temporary file and a rename, so
// readers never see a half-written file
func (Files) WriteFile(path, content string) bool {
	path = ExpandHome(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return false
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return false
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return false
	}
	return true
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// AbsPath expands ~ and makes path absolute
func AbsPath(path string) (string, error) {
	return filepath.Abs(ExpandHome(path))
}

// FindVPG returns every .vpg file under root, sorted. Hidden directories
// are skipped.
func FindVPG(root string) ([]string, error) {
	root = ExpandHome(root)
	var found []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), domain.Extension) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}
