package sqlite

import (
	"database/sql"
	"strconv"
	"strings"

	"vpgsync/internal/domain"
)

// sceneTx groups the writes of one geometry replacement
type sceneTx struct {
	tx *sql.Tx
}

func (s *Store) beginTx() (*sceneTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &sceneTx{tx: tx}, nil
}

// insertObject adds an object row
func (t *sceneTx) insertObject(name, id string) error {
	_, err := t.tx.Exec(`INSERT INTO objects (name, id) VALUES (?, ?)`, name, id)
	return err
}

// clearGeometry removes every vertex and face of an object
func (t *sceneTx) clearGeometry(object string) error {
	if _, err := t.tx.Exec(`DELETE FROM vertices WHERE object = ?`, object); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM faces WHERE object = ?`, object)
	return err
}

// insertGeometry writes g's vertices and faces in order
func (t *sceneTx) insertGeometry(object string, g *domain.Geometry) error {
	vstmt, err := t.tx.Prepare(`
		INSERT INTO vertices (object, idx, vid, x, y, z)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer vstmt.Close()

	for i, v := range g.Vertices {
		if _, err := vstmt.Exec(object, i, v.ID, v.Position.X, v.Position.Y, v.Position.Z); err != nil {
			return err
		}
	}

	fstmt, err := t.tx.Prepare(`INSERT INTO faces (object, seq, indices) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer fstmt.Close()

	for i, f := range g.Faces {
		if _, err := fstmt.Exec(object, i+1, encodeIndices(f.Indices)); err != nil {
			return err
		}
	}
	return nil
}

// Commit commits the transaction
func (t *sceneTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *sceneTx) Rollback() error {
	return t.tx.Rollback()
}

// encodeIndices stores face indices as space-separated integers
func encodeIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, " ")
}

func decodeIndices(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
