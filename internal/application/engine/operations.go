package engine

import (
	"fmt"

	"vpgsync/internal/application"
	"vpgsync/internal/domain"
	"vpgsync/internal/vpg"
)

// ImportResult contains the result of importing a VPG file
type ImportResult struct {
	Object   string
	Path     string
	Vertices int
	Faces    int
	Reused   bool   // an object already linked to Path was rebuilt
	Warning  string // non-fatal condition worth showing the user
}

// Import parses a VPG file from disk, builds its geometry object and links
// the two. Importing a path that is already linked rebuilds the linked
// object instead of creating a second one.
func (e *Engine) Import(path string) (*ImportResult, error) {
	if err := application.ValidateRequired("path", path); err != nil {
		return nil, err
	}

	text, err := e.docs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := vpg.Parse(text)
	if doc.VertexCount() == 0 {
		return nil, &application.SyncError{Op: "import", Path: path, Err: application.ErrParseEmpty}
	}
	if err := e.docs.CanTrack(path); err != nil {
		return nil, err
	}

	result := &ImportResult{
		Path:     path,
		Vertices: doc.VertexCount(),
		Faces:    doc.FaceCount(),
	}
	if doc.FaceCount() == 0 {
		result.Warning = "no faces found; importing vertices only"
	}

	var name string
	if existing := e.ObjectsForPath(path); len(existing) > 0 {
		name = existing[0]
		if err := e.host.Write(name, &doc.Geometry); err != nil {
			return nil, &application.SyncError{Op: "import", Object: name, Path: path, Err: err}
		}
		result.Reused = true
	} else {
		name, err = e.host.Create(domain.DisplayName(path), &doc.Geometry)
		if err != nil {
			return nil, &application.SyncError{Op: "import", Path: path, Err: err}
		}
	}
	result.Object = name

	if err := e.docs.Write(path, text); err != nil {
		return nil, err
	}

	g, err := e.host.Read(name)
	if err != nil {
		g = doc.Geometry.Clone()
	}
	e.link(name, path, text, g)

	e.logger.Info("imported", "object", name, "path", path,
		"vertices", result.Vertices, "faces", result.Faces)
	return result, nil
}

// AutoLink links a geometry object that has no VPG file yet. Objects with
// persisted metadata are relinked to their recorded path; others get a
// pseudo path derived from their name. It reports whether a link was made.
func (e *Engine) AutoLink(name string) (bool, error) {
	if e.Linked(name) || e.skipped[name] {
		return false, nil
	}

	if e.meta != nil {
		if md, ok := e.meta.Metadata(name); ok && md.Linked() {
			if err := e.adopt(name, md); err != nil {
				e.skipped[name] = true
				return false, &application.SyncError{Op: "auto-link", Object: name, Path: md.Path, Err: err}
			}
			return true, nil
		}
	}

	g, err := e.host.Read(name)
	if err != nil {
		return false, &application.SyncError{Op: "auto-link", Object: name, Err: err}
	}
	if g.VertexCount() == 0 {
		return false, nil
	}

	text, stamped, renumbered := vpg.Serialize(g)
	path := e.pseudoPath(name)

	if err := e.docs.Write(path, text); err != nil {
		e.skipped[name] = true
		return false, &application.SyncError{Op: "auto-link", Object: name, Path: path, Err: err}
	}
	if renumbered {
		if err := e.host.Write(name, stamped); err != nil {
			e.logger.Warn("failed to stamp vertex ids", "object", name, "err", err)
		}
	}

	e.link(name, path, text, stamped)
	e.logger.Info("auto-linked object", "object", name, "path", path, "vertices", stamped.VertexCount())
	return true, nil
}

// pseudoPath picks a buffer path for an object that was never imported.
// Cleaned names can clash ("a b" and "a_b"), so taken paths get a numeric
// suffix the way the host suffixes object names.
func (e *Engine) pseudoPath(name string) string {
	path := domain.PseudoPath(name)
	for i := 1; e.docs.Tracked(path) || e.docs.CanTrack(path) != nil; i++ {
		path = fmt.Sprintf("%s.%03d%s", domain.CleanName(name), i, domain.Extension)
	}
	return path
}

// ExportResult contains the result of exporting an object
type ExportResult struct {
	Object   string
	Path     string
	Bytes    int
	Relinked bool
}

// Export writes an object's VPG text to disk.
//
// The live buffer is preferred so hand-written headers survive; the cached
// metadata text is the fallback. With an empty dest the object's linked
// path is used. A dest different from the linked path relinks the object
// to dest.
func (e *Engine) Export(name, dest string) (*ExportResult, error) {
	if err := application.ValidateRequired("objectName", name); err != nil {
		return nil, err
	}

	st, linked := e.states[name]

	text, found := "", false
	if linked {
		text, found = e.docs.Read(st.path)
	}
	if !found && e.meta != nil {
		if md, ok := e.meta.Metadata(name); ok && md.CachedText != "" {
			text, found = md.CachedText, true
		}
	}
	if !found {
		return nil, &application.SyncError{Op: "export", Object: name, Err: application.ErrNoText}
	}

	target := dest
	if target == "" {
		if !linked {
			return nil, &application.ValidationError{
				Field:   "destPath",
				Message: "no export path specified and no mapped path available",
			}
		}
		target = st.path
	}

	if err := e.docs.WriteFile(target, text); err != nil {
		return nil, err
	}

	result := &ExportResult{Object: name, Path: target, Bytes: len(text)}

	if !linked || target != st.path {
		if err := e.docs.Write(target, text); err != nil {
			return result, fmt.Errorf("exported but could not relink: %w", err)
		}
		g, err := e.host.Read(name)
		if err != nil {
			return result, &application.SyncError{Op: "export", Object: name, Path: target, Err: err}
		}
		e.link(name, target, text, g)
		result.Relinked = true
	}

	e.logger.Info("exported", "object", name, "path", target, "bytes", result.Bytes)
	return result, nil
}

// Reload copies a tracked file from disk into its buffer. The next text-side
// check sees the new content as an external edit.
func (e *Engine) Reload(path string) error {
	if !e.docs.Tracked(path) {
		return &application.SyncError{Op: "reload", Path: path, Err: application.ErrNotFound}
	}
	_, err := e.docs.LoadFromDisk(path)
	return err
}

// Save writes a tracked buffer to its own path on disk
func (e *Engine) Save(path string) error {
	return e.docs.SaveToDisk(path)
}

// RemoveDocument deletes a tracked document and unlinks its objects
func (e *Engine) RemoveDocument(path string) error {
	e.ForgetPath(path)
	return e.docs.Remove(path)
}
