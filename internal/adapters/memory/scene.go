// Package memory provides in-process implementations of the geometry host
// and text buffer ports.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"vpgsync/internal/application"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

type object struct {
	id       string
	geometry *domain.Geometry
	meta     domain.Metadata
	hasMeta  bool
}

// Scene implements ports.GeometryHost in memory
type Scene struct {
	mu      sync.RWMutex
	objects map[string]*object
	active  string

	// OnChange is called after an object's geometry changes, outside the lock.
	// It plays the part of the host's dependency-graph notification.
	OnChange func(name string)
}

// Ensure Scene implements the host ports
var (
	_ ports.GeometryHost     = (*Scene)(nil)
	_ ports.MetadataAccessor = (*Scene)(nil)
	_ ports.ObjectIdentifier = (*Scene)(nil)
	_ ports.SceneEditor      = (*Scene)(nil)
)

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{objects: make(map[string]*object)}
}

// Objects returns the names of all objects, sorted
func (s *Scene) Objects() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns a copy of an object's geometry
func (s *Scene) Read(name string) (*domain.Geometry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}
	return obj.geometry.Clone(), nil
}

// Write replaces an object's geometry
func (s *Scene) Write(name string, g *domain.Geometry) error {
	s.mu.Lock()
	obj, ok := s.objects[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}
	obj.geometry.Rebuild(g)
	s.mu.Unlock()
	return nil
}

// Create adds an object, suffixing the name (".001", ".002", ...) when taken
func (s *Scene) Create(name string, g *domain.Geometry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unique := name
	for i := 1; ; i++ {
		if _, taken := s.objects[unique]; !taken {
			break
		}
		unique = fmt.Sprintf("%s.%03d", name, i)
	}
	s.objects[unique] = &object{
		id:       uuid.NewString(),
		geometry: g.Clone(),
	}
	s.active = unique
	return unique, nil
}

// Delete removes an object
func (s *Scene) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}
	delete(s.objects, name)
	if s.active == name {
		s.active = ""
	}
	return nil
}

// ActiveObject returns the object being edited
func (s *Scene) ActiveObject() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

// SetActive marks an object as being edited; an empty name clears it
func (s *Scene) SetActive(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = name
	return nil
}

// Edit applies fn to an object's geometry in place, then fires OnChange
func (s *Scene) Edit(name string, fn func(g *domain.Geometry)) error {
	s.mu.Lock()
	obj, ok := s.objects[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}
	fn(obj.geometry)
	notify := s.OnChange
	s.mu.Unlock()

	if notify != nil {
		notify(name)
	}
	return nil
}

// Metadata returns an object's VPG metadata
func (s *Scene) Metadata(name string) (domain.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	if !ok || !obj.hasMeta {
		return domain.Metadata{}, false
	}
	return obj.meta, true
}

// SetMetadata stores an object's VPG metadata
func (s *Scene) SetMetadata(name string, md domain.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[name]
	if !ok {
		return fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}
	obj.meta = md
	obj.hasMeta = true
	return nil
}

// ObjectID returns an object's stable ID
func (s *Scene) ObjectID(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	if !ok {
		return "", false
	}
	return obj.id, true
}
