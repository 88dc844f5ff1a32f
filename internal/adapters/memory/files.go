package memory

import (
	"sync"

	"vpgsync/internal/ports"
)

// Files implements ports.FileSystem over a map. Paths listed in Fail make
// both calls fail.
type Files struct {
	mu    sync.Mutex
	files map[string]string
	Fail  map[string]bool
}

var _ ports.FileSystem = (*Files)(nil)

// NewFiles creates a file system seeded with files
func NewFiles(files map[string]string) *Files {
	f := &Files{files: make(map[string]string), Fail: make(map[string]bool)}
	for k, v := range files {
		f.files[k] = v
	}
	return f
}

// ReadFile returns a file's content
func (f *Files) ReadFile(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail[path] {
		return "", false
	}
	content, ok := f.files[path]
	return content, ok
}

// WriteFile stores a file's content
func (f *Files) WriteFile(path, content string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail[path] {
		return false
	}
	f.files[path] = content
	return true
}
