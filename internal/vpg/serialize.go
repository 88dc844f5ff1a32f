package vpg

import (
	"fmt"
	"strconv"
	"strings"

	"vpgsync/internal/domain"
)

// Lines renders geometry as VPG lines without touching vertex ids.
// Vertices without an id fall back to their positional id. N-gons are
// emitted as a triangle fan anchored at their first vertex; faces are
// re-tagged e1, e2, ... in traversal order.
func Lines(g *domain.Geometry) []string {
	lines := make([]string, 0, g.VertexCount()+g.FaceCount())

	for i, v := range g.Vertices {
		id := v.ID
		if id == "" {
			id = VertexID(i)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			id,
			formatFloat(v.Position.X),
			formatFloat(v.Position.Y),
			formatFloat(v.Position.Z),
		))
	}

	tri := 1
	for _, f := range g.Faces {
		if !g.ValidFace(f) {
			continue
		}
		a := f.Indices[0]
		for j := 1; j < len(f.Indices)-1; j++ {
			b, c := f.Indices[j], f.Indices[j+1]
			lines = append(lines, fmt.Sprintf("e%d %d %d %d", tri, a+1, b+1, c+1))
			tri++
		}
	}

	return lines
}

// Serialize applies the identity policy to a copy of g and renders it.
// The returned geometry carries the assigned ids; renumbered reports whether
// they differ from the ids stamped on g.
func Serialize(g *domain.Geometry) (text string, stamped *domain.Geometry, renumbered bool) {
	stamped = g.Clone()
	renumbered = AssignIdentities(stamped.Vertices)
	return strings.Join(Lines(stamped), "\n"), stamped, renumbered
}

// Triangulate returns the triangle fan decomposition of every face of g
func Triangulate(g *domain.Geometry) []domain.Face {
	var out []domain.Face
	for _, f := range g.Faces {
		if !g.ValidFace(f) {
			continue
		}
		for j := 1; j < len(f.Indices)-1; j++ {
			out = append(out, domain.Face{
				Sequence: len(out) + 1,
				Indices:  []int{f.Indices[0], f.Indices[j], f.Indices[j+1]},
			})
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
