package domain

import "fmt"

// MoveVertex sets the position of vertex i, keeping its identity
func (g *Geometry) MoveVertex(i int, to Vec3) error {
	if i < 0 || i >= len(g.Vertices) {
		return fmt.Errorf("vertex index %d out of range (0..%d)", i, len(g.Vertices)-1)
	}
	g.Vertices[i].Position = to
	return nil
}

// AddVertex appends an untagged vertex and returns its index.
// The identity policy tags it on the next geometry sync.
func (g *Geometry) AddVertex(at Vec3) int {
	g.Vertices = append(g.Vertices, Vertex{Position: at})
	return len(g.Vertices) - 1
}

// RemoveVertex deletes vertex i together with every face that uses it.
// Faces after it are renumbered so indices stay dense.
func (g *Geometry) RemoveVertex(i int) error {
	if i < 0 || i >= len(g.Vertices) {
		return fmt.Errorf("vertex index %d out of range (0..%d)", i, len(g.Vertices)-1)
	}
	g.Vertices = append(g.Vertices[:i], g.Vertices[i+1:]...)

	faces := g.Faces[:0]
	for _, f := range g.Faces {
		keep := true
		for j, idx := range f.Indices {
			switch {
			case idx == i:
				keep = false
			case idx > i:
				f.Indices[j] = idx - 1
			}
		}
		if keep {
			faces = append(faces, f)
		}
	}
	for n := range faces {
		faces[n].Sequence = n + 1
	}
	g.Faces = faces
	return nil
}

// AddFace appends a face over existing vertices
func (g *Geometry) AddFace(indices ...int) error {
	f := Face{Sequence: len(g.Faces) + 1, Indices: indices}
	if !g.ValidFace(f) {
		return fmt.Errorf("invalid face %v for %d vertices", indices, len(g.Vertices))
	}
	g.Faces = append(g.Faces, f)
	return nil
}
