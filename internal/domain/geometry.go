package domain

// Vec3 is a position in object space
type Vec3 struct {
	X, Y, Z float64
}

// Vertex is a single geometry vertex with its stamped identity tag
type Vertex struct {
	ID       string // e.g., "n12"; empty when the host created the vertex
	Position Vec3
}

// Face is a polygon over zero-based vertex indices.
// Faces parsed from VPG text are always triangles; host faces may be n-gons.
type Face struct {
	Sequence int // 1-based declaration order ("e<Sequence>")
	Indices  []int
}

// Geometry is the structural representation of a mesh: ordered vertices
// and ordered faces. Every sync rebuilds it wholesale.
type Geometry struct {
	Vertices []Vertex
	Faces    []Face
}

// VertexCount returns the number of vertices
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Vertices)
}

// FaceCount returns the number of faces
func (g *Geometry) FaceCount() int {
	if g == nil {
		return 0
	}
	return len(g.Faces)
}

// VertexAt returns the vertex at index i
func (g *Geometry) VertexAt(i int) Vertex {
	return g.Vertices[i]
}

// FaceAt returns the face at index i
func (g *Geometry) FaceAt(i int) Face {
	return g.Faces[i]
}

// Rebuild clears g and repopulates it from src
func (g *Geometry) Rebuild(src *Geometry) {
	c := src.Clone()
	g.Vertices = c.Vertices
	g.Faces = c.Faces
}

// Clone returns a deep copy
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return &Geometry{}
	}
	out := &Geometry{
		Vertices: make([]Vertex, len(g.Vertices)),
		Faces:    make([]Face, len(g.Faces)),
	}
	copy(out.Vertices, g.Vertices)
	for i, f := range g.Faces {
		out.Faces[i] = Face{
			Sequence: f.Sequence,
			Indices:  append([]int(nil), f.Indices...),
		}
	}
	return out
}

// ValidFace reports whether every index of f addresses a vertex of g
func (g *Geometry) ValidFace(f Face) bool {
	if len(f.Indices) < 3 {
		return false
	}
	for _, idx := range f.Indices {
		if idx < 0 || idx >= len(g.Vertices) {
			return false
		}
	}
	return true
}

// GeometryDocument is geometry parsed from, or destined for, a VPG file
type GeometryDocument struct {
	Path string
	Geometry
}
