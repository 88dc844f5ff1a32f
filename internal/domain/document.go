package domain

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Extension is the file extension of VPG files
const Extension = ".vpg"

// TextDocument is a named text buffer tracked for a VPG file
type TextDocument struct {
	ShortName string // buffer name, derived from FullPath
	FullPath  string
	Content   string
}

// ShortName derives the buffer name for a file path.
// Two paths with the same base name collide; the document store rejects that.
func ShortName(path string) string {
	return filepath.Base(path)
}

// DisplayName derives an object name from a file path ("/a/cube.vpg" -> "cube")
func DisplayName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "VPG_Mesh"
	}
	return name
}

// CleanName replaces characters that are awkward in file names
func CleanName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "object"
	}
	return sb.String()
}

// PseudoPath returns the buffer path used for geometry that was never
// imported from disk
func PseudoPath(objectName string) string {
	return CleanName(objectName) + Extension
}

// Metadata is the per-object data persisted on the geometry host
type Metadata struct {
	Path        string // associated VPG path; empty when unlinked
	CachedText  string // last synced text
	VertexCount int
	FaceCount   int
}

// Linked reports whether the object has a VPG path
func (m Metadata) Linked() bool {
	return m.Path != ""
}
