package ports

import "vpgsync/internal/domain"

// GeometryHost is the host's native mesh storage.
// Index order of a Read is stable until the next Write.
type GeometryHost interface {
	// Objects returns the names of all live geometry objects
	Objects() ([]string, error)

	// Read returns a copy of an object's geometry
	Read(name string) (*domain.Geometry, error)

	// Write replaces an object's geometry wholesale
	Write(name string, g *domain.Geometry) error

	// Create adds a new object and returns the name it was stored under,
	// which may differ from name when that is already taken
	Create(name string, g *domain.Geometry) (string, error)

	// ActiveObject returns the object currently being edited, if any
	ActiveObject() (string, bool)
}

// MetadataAccessor is an optional GeometryHost capability for persisting
// per-object VPG metadata. Hosts without it still sync, but links do not
// survive a restart.
type MetadataAccessor interface {
	Metadata(name string) (domain.Metadata, bool)
	SetMetadata(name string, md domain.Metadata) error
}

// ObjectIdentifier is an optional GeometryHost capability exposing a stable
// object ID that survives renames
type ObjectIdentifier interface {
	ObjectID(name string) (string, bool)
}

// SceneEditor is an optional GeometryHost capability for removing and
// selecting objects
type SceneEditor interface {
	Delete(name string) error
	SetActive(name string) error
}
