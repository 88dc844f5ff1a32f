// Package engine keeps geometry objects and their VPG text buffers in
// agreement.
//
// Every linked object has a sync state holding the text it was last
// reconciled against and the serialized geometry at that moment. A step in
// either direction either applies completely and updates that state, or
// fails and leaves it untouched.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"vpgsync/internal/application"
	"vpgsync/internal/application/documents"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
	"vpgsync/internal/vpg"
)

// syncState is the engine's record for one linked object
type syncState struct {
	object    string
	path      string
	lastKnown *string // text last reconciled against
	baseline  string  // serialized geometry at the last reconciliation
	phase     domain.Phase

	// rejected holds buffer text that already failed to apply, so the same
	// failure is reported once rather than on every tick
	rejected    string
	hasRejected bool
	lastErr     string
}

// Engine is the sync engine
type Engine struct {
	host   ports.GeometryHost
	meta   ports.MetadataAccessor // nil when the host has no metadata capability
	docs   *documents.Store
	logger *slog.Logger

	states  map[string]*syncState
	skipped map[string]bool // objects auto-link gave up on
}

// New creates a sync engine
func New(host ports.GeometryHost, docs *documents.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		host:    host,
		docs:    docs,
		logger:  logger.With("component", "engine"),
		states:  make(map[string]*syncState),
		skipped: make(map[string]bool),
	}
	if meta, ok := host.(ports.MetadataAccessor); ok {
		e.meta = meta
	}
	return e
}

// Documents returns the engine's document store
func (e *Engine) Documents() *documents.Store {
	return e.docs
}

// Linked reports whether an object has a VPG path
func (e *Engine) Linked(name string) bool {
	_, ok := e.states[name]
	return ok
}

// Path returns the VPG path an object is linked to
func (e *Engine) Path(name string) (string, bool) {
	st, ok := e.states[name]
	if !ok {
		return "", false
	}
	return st.path, true
}

// Phase returns an object's reconciliation phase
func (e *Engine) Phase(name string) domain.Phase {
	st, ok := e.states[name]
	if !ok {
		return domain.PhaseUnlinked
	}
	return st.phase
}

// Text returns the live buffer text of a linked object
func (e *Engine) Text(name string) (string, bool) {
	st, ok := e.states[name]
	if !ok {
		return "", false
	}
	return e.docs.Read(st.path)
}

// ObjectsForPath returns the linked objects using path, sorted
func (e *Engine) ObjectsForPath(path string) []string {
	var out []string
	for name, st := range e.states {
		if st.path == path {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// LinkedObjects returns every linked object, sorted
func (e *Engine) LinkedObjects() []string {
	out := make([]string, 0, len(e.states))
	for name := range e.states {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Restore relinks every host object that carries persisted metadata
func (e *Engine) Restore() (int, error) {
	if e.meta == nil {
		return 0, nil
	}
	names, err := e.host.Objects()
	if err != nil {
		return 0, fmt.Errorf("failed to list objects: %w", err)
	}

	restored := 0
	for _, name := range names {
		if e.Linked(name) {
			continue
		}
		md, ok := e.meta.Metadata(name)
		if !ok || !md.Linked() {
			continue
		}
		if err := e.adopt(name, md); err != nil {
			e.logger.Warn("failed to restore link", "object", name, "path", md.Path, "err", err)
			continue
		}
		restored++
	}
	return restored, nil
}

// adopt links an object from its metadata, recreating the buffer from the
// cached text when it is missing
func (e *Engine) adopt(name string, md domain.Metadata) error {
	if _, ok := e.docs.Read(md.Path); !ok {
		if err := e.docs.Write(md.Path, md.CachedText); err != nil {
			return err
		}
	}
	g, err := e.host.Read(name)
	if err != nil {
		return err
	}
	cached := md.CachedText
	text, _, _ := vpg.Serialize(g)
	e.states[name] = &syncState{
		object:    name,
		path:      md.Path,
		lastKnown: &cached,
		baseline:  text,
		phase:     domain.PhaseLinked,
	}
	e.logger.Debug("restored link", "object", name, "path", md.Path)
	return nil
}

// SyncGeometry writes geometry-side changes into the object's text.
//
// The current geometry is serialized and compared with the serialization
// recorded at the last reconciliation; when it differs, the new geometry
// lines replace the geometry block of the last known text.
func (e *Engine) SyncGeometry(name string) (domain.Outcome, error) {
	st, ok := e.states[name]
	if !ok {
		return domain.OutcomeUnchanged, &application.SyncError{Op: "sync-geometry", Object: name, Err: application.ErrNotLinked}
	}

	g, err := e.host.Read(name)
	if err != nil {
		return e.fail(st, "sync-geometry", fmt.Errorf("%w: %v", application.ErrReconciliation, err))
	}

	block, stamped, renumbered := vpg.Serialize(g)
	if block == st.baseline {
		return domain.OutcomeUnchanged, nil
	}
	st.phase = domain.PhaseGeometryAhead

	base := ""
	if st.lastKnown != nil {
		base = *st.lastKnown
	} else if live, ok := e.docs.Read(st.path); ok {
		base = live
	}

	merged, mergeErr := vpg.MergeOrReplace(base, vpg.Lines(stamped))
	if mergeErr != nil {
		e.logger.Warn("merge failed, replacing whole text", "object", name, "path", st.path, "err", mergeErr)
	}

	if err := e.docs.Write(st.path, merged); err != nil {
		return e.fail(st, "sync-geometry", err)
	}

	if renumbered {
		if err := e.host.Write(name, stamped); err != nil {
			e.logger.Warn("failed to stamp vertex ids", "object", name, "err", err)
		}
	}

	st.lastKnown = &merged
	st.baseline = block
	st.phase = domain.PhaseLinked
	st.hasRejected = false
	st.lastErr = ""
	e.saveMetadata(name, st.path, merged, stamped)

	e.logger.Debug("geometry -> text", "object", name, "path", st.path,
		"vertices", stamped.VertexCount(), "renumbered", renumbered)
	return domain.OutcomeGeometryToText, nil
}

// SyncText rebuilds the object's geometry when its buffer changed since the
// last reconciliation
func (e *Engine) SyncText(name string) (domain.Outcome, error) {
	st, ok := e.states[name]
	if !ok {
		return domain.OutcomeUnchanged, &application.SyncError{Op: "sync-text", Object: name, Err: application.ErrNotLinked}
	}

	text, ok := e.docs.Read(st.path)
	if !ok {
		return domain.OutcomeUnchanged, nil
	}
	if st.lastKnown != nil && text == *st.lastKnown {
		return domain.OutcomeUnchanged, nil
	}
	if st.hasRejected && text == st.rejected {
		return domain.OutcomeUnchanged, nil
	}
	st.phase = domain.PhaseTextAhead

	doc := vpg.Parse(text)
	if doc.VertexCount() == 0 {
		e.reject(st, text)
		return e.fail(st, "sync-text", application.ErrParseEmpty)
	}

	if err := e.host.Write(name, &doc.Geometry); err != nil {
		e.reject(st, text)
		return e.fail(st, "sync-text", fmt.Errorf("%w: %v", application.ErrReconciliation, err))
	}

	rebuilt, err := e.host.Read(name)
	if err != nil {
		rebuilt = doc.Geometry.Clone()
	}
	block, _, _ := vpg.Serialize(rebuilt)

	st.lastKnown = &text
	st.baseline = block
	st.phase = domain.PhaseLinked
	st.hasRejected = false
	st.lastErr = ""
	e.saveMetadata(name, st.path, text, rebuilt)

	e.logger.Debug("text -> geometry", "object", name, "path", st.path,
		"vertices", doc.VertexCount(), "faces", doc.FaceCount())
	return domain.OutcomeTextToGeometry, nil
}

// Reconcile runs the geometry side first, then the text side. Once the
// geometry side has written the buffer it equals the last known text, so
// the text side cannot bring back what was just replaced.
func (e *Engine) Reconcile(name string) (domain.Outcome, error) {
	out, err := e.SyncGeometry(name)
	if err != nil || out != domain.OutcomeUnchanged {
		return out, err
	}
	return e.SyncText(name)
}

// Forget drops an object's sync state
func (e *Engine) Forget(name string) {
	delete(e.states, name)
	delete(e.skipped, name)
}

// ForgetPath drops the sync state of every object linked to path
func (e *Engine) ForgetPath(path string) {
	for name, st := range e.states {
		if st.path == path {
			delete(e.states, name)
		}
	}
}

// Prune drops sync state for objects that no longer exist on the host and
// returns the VPG paths still referenced by live objects
func (e *Engine) Prune() (map[string]bool, error) {
	names, err := e.host.Objects()
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	live := make(map[string]bool, len(names))
	paths := make(map[string]bool)
	for _, name := range names {
		live[name] = true
		if st, ok := e.states[name]; ok {
			paths[st.path] = true
			continue
		}
		if e.meta != nil {
			if md, ok := e.meta.Metadata(name); ok && md.Linked() {
				paths[md.Path] = true
			}
		}
	}

	for name := range e.states {
		if !live[name] {
			e.logger.Debug("object gone, dropping sync state", "object", name)
			e.Forget(name)
		}
	}
	for name := range e.skipped {
		if !live[name] {
			delete(e.skipped, name)
		}
	}
	return paths, nil
}

// Status returns a view of every linked object, sorted by name
func (e *Engine) Status() []domain.ObjectStatus {
	var out []domain.ObjectStatus
	for _, name := range e.LinkedObjects() {
		st := e.states[name]
		s := domain.ObjectStatus{
			Object:    name,
			Path:      st.path,
			Phase:     st.phase,
			LastError: st.lastErr,
		}
		if ids, ok := e.host.(ports.ObjectIdentifier); ok {
			s.ObjectID, _ = ids.ObjectID(name)
		}
		if g, err := e.host.Read(name); err == nil {
			s.VertexCount = g.VertexCount()
			s.FaceCount = g.FaceCount()
		}
		out = append(out, s)
	}
	return out
}

func (e *Engine) link(name, path, text string, g *domain.Geometry) {
	block, _, _ := vpg.Serialize(g)
	e.states[name] = &syncState{
		object:    name,
		path:      path,
		lastKnown: &text,
		baseline:  block,
		phase:     domain.PhaseLinked,
	}
	delete(e.skipped, name)
	e.saveMetadata(name, path, text, g)
}

func (e *Engine) reject(st *syncState, text string) {
	st.rejected = text
	st.hasRejected = true
}

// fail records err on st, restores the linked phase and wraps err
func (e *Engine) fail(st *syncState, op string, err error) (domain.Outcome, error) {
	st.phase = domain.PhaseLinked
	st.lastErr = err.Error()

	var syncErr *application.SyncError
	if errors.As(err, &syncErr) {
		return domain.OutcomeUnchanged, err
	}
	return domain.OutcomeUnchanged, &application.SyncError{Op: op, Object: st.object, Path: st.path, Err: err}
}

func (e *Engine) saveMetadata(name, path, text string, g *domain.Geometry) {
	if e.meta == nil {
		return
	}
	md := domain.Metadata{
		Path:        path,
		CachedText:  text,
		VertexCount: g.VertexCount(),
		FaceCount:   g.FaceCount(),
	}
	if err := e.meta.SetMetadata(name, md); err != nil {
		e.logger.Warn("failed to save metadata", "object", name, "err", err)
	}
}
