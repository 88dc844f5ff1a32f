package sqlite

import (
	"fmt"

	"github.com/google/uuid"

	"vpgsync/internal/application"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// Scene implements the geometry host ports on top of a Store
type Scene struct {
	store *Store
}

// Ensure Scene implements the host ports
var (
	_ ports.GeometryHost     = (*Scene)(nil)
	_ ports.MetadataAccessor = (*Scene)(nil)
	_ ports.ObjectIdentifier = (*Scene)(nil)
	_ ports.SceneEditor      = (*Scene)(nil)
)

// Scene returns the store's geometry host
func (s *Store) Scene() *Scene {
	return &Scene{store: s}
}

// Objects returns the names of all objects, sorted
func (sc *Scene) Objects() ([]string, error) {
	rows, err := sc.store.db.Query(`SELECT name FROM objects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (sc *Scene) exists(name string) (bool, error) {
	var n int
	err := sc.store.db.QueryRow(`SELECT COUNT(*) FROM objects WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// Read loads an object's geometry
func (sc *Scene) Read(name string) (*domain.Geometry, error) {
	ok, err := sc.exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}

	g := &domain.Geometry{}

	rows, err := sc.store.db.Query(`
		SELECT vid, x, y, z FROM vertices WHERE object = ? ORDER BY idx
	`, name)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var v domain.Vertex
		if err := rows.Scan(&v.ID, &v.Position.X, &v.Position.Y, &v.Position.Z); err != nil {
			rows.Close()
			return nil, err
		}
		g.Vertices = append(g.Vertices, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = sc.store.db.Query(`SELECT seq, indices FROM faces WHERE object = ? ORDER BY seq`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f domain.Face
		var encoded string
		if err := rows.Scan(&f.Sequence, &encoded); err != nil {
			return nil, err
		}
		if f.Indices, err = decodeIndices(encoded); err != nil {
			return nil, fmt.Errorf("object %s face %d: %w", name, f.Sequence, err)
		}
		g.Faces = append(g.Faces, f)
	}
	return g, rows.Err()
}

// Write replaces an object's geometry in one transaction
func (sc *Scene) Write(name string, g *domain.Geometry) error {
	ok, err := sc.exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}

	tx, err := sc.store.beginTx()
	if err != nil {
		return err
	}
	if err := tx.clearGeometry(name); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.insertGeometry(name, g); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Create adds an object, suffixing the name (".001", ".002", ...) when
// taken, and makes it the active object
func (sc *Scene) Create(name string, g *domain.Geometry) (string, error) {
	unique := name
	for i := 1; ; i++ {
		taken, err := sc.exists(unique)
		if err != nil {
			return "", err
		}
		if !taken {
			break
		}
		unique = fmt.Sprintf("%s.%03d", name, i)
	}

	tx, err := sc.store.beginTx()
	if err != nil {
		return "", err
	}
	if err := tx.insertObject(unique, uuid.NewString()); err != nil {
		tx.Rollback()
		return "", err
	}
	if err := tx.insertGeometry(unique, g); err != nil {
		tx.Rollback()
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	if err := sc.SetActive(unique); err != nil {
		return unique, err
	}
	return unique, nil
}

// Delete removes an object with its geometry and metadata
func (sc *Scene) Delete(name string) error {
	res, err := sc.store.db.Exec(`DELETE FROM objects WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("object %s: %w", name, application.ErrNotFound)
	}
	if active, ok := sc.ActiveObject(); ok && active == name {
		return sc.store.deleteMeta("active_object")
	}
	return nil
}

// Rename changes an object's name, keeping its ID
func (sc *Scene) Rename(oldName, newName string) error {
	taken, err := sc.exists(newName)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("object %s already exists", newName)
	}
	res, err := sc.store.db.Exec(`UPDATE objects SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("object %s: %w", oldName, application.ErrNotFound)
	}
	if active, ok := sc.ActiveObject(); ok && active == oldName {
		return sc.SetActive(newName)
	}
	return nil
}

// ActiveObject returns the object last created or selected
func (sc *Scene) ActiveObject() (string, bool) {
	name, ok := sc.store.meta("active_object")
	return name, ok && name != ""
}

// SetActive selects an object; an empty name clears the selection
func (sc *Scene) SetActive(name string) error {
	if name == "" {
		return sc.store.deleteMeta("active_object")
	}
	return sc.store.setMeta("active_object", name)
}

// Metadata returns an object's VPG metadata
func (sc *Scene) Metadata(name string) (domain.Metadata, bool) {
	var md domain.Metadata
	err := sc.store.db.QueryRow(`
		SELECT path, cached_text, vertex_count, face_count
		FROM metadata WHERE object = ?
	`, name).Scan(&md.Path, &md.CachedText, &md.VertexCount, &md.FaceCount)
	if err != nil {
		return domain.Metadata{}, false
	}
	return md, true
}

// SetMetadata stores an object's VPG metadata
func (sc *Scene) SetMetadata(name string, md domain.Metadata) error {
	_, err := sc.store.db.Exec(`
		INSERT OR REPLACE INTO metadata (object, path, cached_text, vertex_count, face_count)
		VALUES (?, ?, ?, ?, ?)
	`, name, md.Path, md.CachedText, md.VertexCount, md.FaceCount)
	return err
}

// ObjectID returns an object's stable ID
func (sc *Scene) ObjectID(name string) (string, bool) {
	var id string
	err := sc.store.db.QueryRow(`SELECT id FROM objects WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return "", false
	}
	return id, true
}
