package vpg

import (
	"strings"
	"testing"

	"vpgsync/internal/domain"
)

const triangleText = "n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3\n"

func TestParse_Triangle(t *testing.T) {
	doc := Parse(triangleText)

	if doc.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", doc.VertexCount())
	}
	if doc.FaceCount() != 1 {
		t.Fatalf("expected 1 face, got %d", doc.FaceCount())
	}

	face := doc.FaceAt(0)
	want := []int{0, 1, 2}
	for i := range want {
		if face.Indices[i] != want[i] {
			t.Errorf("face index %d: expected %d, got %d", i, want[i], face.Indices[i])
		}
	}
	if face.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", face.Sequence)
	}

	text, _, renumbered := Serialize(&doc.Geometry)
	if renumbered {
		t.Error("dense sequential ids should not be renumbered")
	}
	expected := "n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1 2 3"
	if text != expected {
		t.Errorf("expected %q, got %q", expected, text)
	}
}

func TestParse_LineLocalRecovery(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		vertices  int
		faces     int
		numIssues int
	}{
		{
			name:      "bad coordinate",
			text:      "n1 0 0 0\nn2 x 0 0\nn3 1 1 1\n",
			vertices:  2,
			numIssues: 1,
		},
		{
			name:      "too few tokens",
			text:      "n1 0 0\nn2 1 2 3\n",
			vertices:  1,
			numIssues: 1,
		},
		{
			name:     "comments blanks and opaque lines",
			text:     "# header\n\nVERSION 2\n  # indented comment\nn1 0 0 0\n",
			vertices: 1,
		},
		{
			name:     "upper case tokens",
			text:     "N1 0 0 0\nN2 1 0 0\nN3 0 1 0\nE1 1 2 3\n",
			vertices: 3,
			faces:    1,
		},
		{
			name:     "crlf line endings",
			text:     "n1 0 0 0\r\nn2 1 0 0\r\nn3 0 1 0\r\ne1 1 2 3\r\n",
			vertices: 3,
			faces:    1,
		},
		{
			name:     "extra face indices are ignored",
			text:     "n1 0 0 0\nn2 1 0 0\nn3 0 1 0\nn4 1 1 0\ne1 1 2 3 4\n",
			vertices: 4,
			faces:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, issues := ParseWithIssues(tt.text)
			if doc.VertexCount() != tt.vertices {
				t.Errorf("expected %d vertices, got %d", tt.vertices, doc.VertexCount())
			}
			if doc.FaceCount() != tt.faces {
				t.Errorf("expected %d faces, got %d", tt.faces, doc.FaceCount())
			}
			if len(issues) != tt.numIssues {
				t.Errorf("expected %d issues, got %d: %v", tt.numIssues, len(issues), issues)
			}
		})
	}
}

func TestParse_FaceIndexBounds(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"zero index", "e1 0 1 2"},
		{"index past vertex count", "e1 1 2 4"},
		{"negative index", "e1 -1 2 3"},
		{"not an integer", "e1 1 2 x"},
		{"float index", "e1 1 2 3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse("n1 0 0 0\nn2 1 0 0\nn3 0 1 0\n" + tt.face + "\n")
			if doc.FaceCount() != 0 {
				t.Errorf("expected face to be dropped, got %v", doc.Faces)
			}
		})
	}
}

func TestParse_FaceTokensWithCommas(t *testing.T) {
	doc := Parse("n1 0 0 0\nn2 1 0 0\nn3 0 1 0\ne1 1, 2, 3\n")
	if doc.FaceCount() != 1 {
		t.Fatalf("expected 1 face, got %d", doc.FaceCount())
	}
	if got := doc.FaceAt(0).Indices; got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("unexpected indices %v", got)
	}
}

func TestParse_FaceBeforeVertices(t *testing.T) {
	doc := Parse("e1 1 2 3\nn1 0 0 0\nn2 1 0 0\nn3 0 1 0\n")
	if doc.FaceCount() != 0 {
		t.Errorf("face referencing vertices not yet declared should be dropped")
	}
}

func TestParse_DuplicateID(t *testing.T) {
	doc := Parse("n1 0 0 0\nn2 1 0 0\nn3 0 1 0\nn3 9 9 9\nN3 8 8 8\n")

	if doc.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", doc.VertexCount())
	}
	v := doc.VertexAt(2)
	if v.ID != "n3" {
		t.Errorf("expected id n3, got %s", v.ID)
	}
	if v.Position != (domain.Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("first occurrence should win, got %+v", v.Position)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		triangleText,
		"# cube slice\nn1 -1.5 0.25 3\nn2 1e-7 2 2\nn3 0.1 0.2 0.3\nn4 4 5 6\ne1 1 2 3\ne2 1 3 4\n",
		"n1 0 0 0\nn2 1 0 0\n",
	}

	for _, in := range inputs {
		first := Parse(in)
		text, _, _ := Serialize(&first.Geometry)
		second := Parse(text)

		if first.VertexCount() != second.VertexCount() {
			t.Fatalf("vertex count changed: %d -> %d", first.VertexCount(), second.VertexCount())
		}
		for i := range first.Vertices {
			if first.Vertices[i] != second.Vertices[i] {
				t.Errorf("vertex %d changed: %+v -> %+v", i, first.Vertices[i], second.Vertices[i])
			}
		}
		if first.FaceCount() != second.FaceCount() {
			t.Fatalf("face count changed: %d -> %d", first.FaceCount(), second.FaceCount())
		}
		for i := range first.Faces {
			a, b := first.Faces[i].Indices, second.Faces[i].Indices
			for j := range a {
				if a[j] != b[j] {
					t.Errorf("face %d changed: %v -> %v", i, a, b)
				}
			}
		}
	}
}

func TestLines_NgonFan(t *testing.T) {
	g := &domain.Geometry{
		Vertices: []domain.Vertex{
			{ID: "n1"}, {ID: "n2"}, {ID: "n3"}, {ID: "n4"},
		},
		Faces: []domain.Face{{Indices: []int{0, 1, 2, 3}}},
	}

	lines := Lines(g)
	faces := lines[4:]
	expected := []string{"e1 1 2 3", "e2 1 3 4"}
	if len(faces) != len(expected) {
		t.Fatalf("expected %d face lines, got %v", len(expected), faces)
	}
	for i := range expected {
		if faces[i] != expected[i] {
			t.Errorf("face line %d: expected %q, got %q", i, expected[i], faces[i])
		}
	}

	tris := Triangulate(g)
	if len(tris) != 2 || tris[1].Indices[1] != 2 || tris[1].Indices[2] != 3 {
		t.Errorf("unexpected triangulation %v", tris)
	}
}

func TestLines_SkipsDegenerateFaces(t *testing.T) {
	g := &domain.Geometry{
		Vertices: []domain.Vertex{{ID: "n1"}, {ID: "n2"}, {ID: "n3"}},
		Faces: []domain.Face{
			{Indices: []int{0, 1}},
			{Indices: []int{0, 1, 7}},
			{Indices: []int{2, 1, 0}},
		},
	}
	lines := Lines(g)
	if got := lines[len(lines)-1]; got != "e1 3 2 1" {
		t.Errorf("expected only the valid face renumbered e1, got %v", lines)
	}
}

func TestAssignIdentities(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		want        []string
		wantChanged bool
	}{
		{
			name: "dense sequence kept",
			ids:  []string{"n1", "n2", "n3"},
			want: []string{"n1", "n2", "n3"},
		},
		{
			name:        "case and leading zeros normalized",
			ids:         []string{"N1", "n02", "n3"},
			want:        []string{"n1", "n2", "n3"},
			wantChanged: true,
		},
		{
			name:        "missing ids renumber the document",
			ids:         []string{"n1", "", "n7"},
			want:        []string{"n1", "n2", "n3"},
			wantChanged: true,
		},
		{
			name:        "out of order ids renumbered",
			ids:         []string{"n2", "n1", "n3"},
			want:        []string{"n1", "n2", "n3"},
			wantChanged: true,
		},
		{
			name:        "duplicates renumbered",
			ids:         []string{"n1", "n1", "n3"},
			want:        []string{"n1", "n2", "n3"},
			wantChanged: true,
		},
		{
			name:        "sparse ids kept when one tag is not numeric",
			ids:         []string{"n10", "corner", "n30"},
			want:        []string{"n10", "n2", "n30"},
			wantChanged: true,
		},
		{
			name:        "fresh id skips a taken number",
			ids:         []string{"n2", "apex", ""},
			want:        []string{"n2", "n4", "n3"},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := make([]domain.Vertex, len(tt.ids))
			for i, id := range tt.ids {
				vs[i].ID = id
			}
			changed := AssignIdentities(vs)
			if changed != tt.wantChanged {
				t.Errorf("expected changed=%v, got %v", tt.wantChanged, changed)
			}
			for i := range tt.want {
				if vs[i].ID != tt.want[i] {
					t.Errorf("vertex %d: expected %s, got %s", i, tt.want[i], vs[i].ID)
				}
			}
		})
	}
}

func TestIdentityStability_PositionEdit(t *testing.T) {
	doc := Parse(triangleText)
	g := doc.Geometry.Clone()
	for i := range g.Vertices {
		g.Vertices[i].Position.X += 10
		g.Vertices[i].Position.Z = -2.5
	}

	_, stamped, renumbered := Serialize(g)
	if renumbered {
		t.Fatal("pure position edit must not renumber")
	}
	for i, v := range stamped.Vertices {
		if v.ID != doc.Vertices[i].ID {
			t.Errorf("vertex %d id changed: %s -> %s", i, doc.Vertices[i].ID, v.ID)
		}
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		lines []string
		want  string
	}{
		{
			name:  "header preserved",
			base:  "# header\nn1 0 0 0\ne1 1 1 1\n",
			lines: []string{"n1 1 1 1"},
			want:  "# header\n\nn1 1 1 1",
		},
		{
			name:  "blank separator not duplicated",
			base:  "# header\n\nn1 0 0 0\n\n# footer",
			lines: []string{"n1 1 1 1"},
			want:  "# header\n\nn1 1 1 1\n\n# footer",
		},
		{
			name:  "footer separated from geometry",
			base:  "n1 0 0 0\nVERSION 1",
			lines: []string{"n1 2 2 2"},
			want:  "n1 2 2 2\n\nVERSION 1",
		},
		{
			name:  "no geometry appends",
			base:  "# only a header",
			lines: []string{"n1 0 0 0"},
			want:  "# only a header\n\nn1 0 0 0",
		},
		{
			name:  "interleaved comments replaced with block",
			base:  "n1 0 0 0\n# inside\ne1 1 1 1",
			lines: []string{"n1 5 5 5"},
			want:  "n1 5 5 5",
		},
		{
			name:  "no lines keeps base",
			base:  "# header\nn1 0 0 0",
			lines: nil,
			want:  "# header\nn1 0 0 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(tt.base, tt.lines)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMerge_HeaderIsFirstLine(t *testing.T) {
	merged, err := Merge("# header\nn1 0 0 0\ne1 1 1 1\n", []string{"n1 1 1 1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := SplitLines(merged)
	if lines[0] != "# header" {
		t.Errorf("expected header first, got %q", lines[0])
	}
	if lines[len(lines)-1] != "n1 1 1 1" {
		t.Errorf("expected geometry block to equal new lines, got %q", merged)
	}
}

func TestMergeOrReplace_InvalidUTF8(t *testing.T) {
	got, err := MergeOrReplace("# bad \xff\nn1 0 0 0", []string{"n1 1 1 1"})
	if err != ErrMergeFailure {
		t.Fatalf("expected ErrMergeFailure, got %v", err)
	}
	if got != "n1 1 1 1" {
		t.Errorf("expected full replacement, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]LineKind{
		"":             LineBlank,
		"   ":          LineBlank,
		"# c":          LineComment,
		"  #c":         LineComment,
		"n1 0 0 0":     LineVertex,
		"N1 0 0 0":     LineVertex,
		"e1 1 2 3":     LineFace,
		"VERSION 1":    LineOpaque,
		"  E2 1 2 3  ": LineFace,
	}
	for line, want := range tests {
		if got := Classify(line); got != want {
			t.Errorf("Classify(%q) = %d, want %d", line, got, want)
		}
	}
}

func TestIssueString(t *testing.T) {
	_, issues := ParseWithIssues("n1 a b c\n")
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].String(), "line 1") {
		t.Errorf("unexpected issue text %q", issues[0].String())
	}
}
