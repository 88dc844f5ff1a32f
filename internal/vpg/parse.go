// Package vpg implements the VPG text format: a line-oriented encoding of
// vertices ("n" lines) and triangular faces ("e" lines).
//
// Parsing is best effort. A malformed line is dropped and recorded as a
// LineIssue; it never aborts the document.
package vpg

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"vpgsync/internal/domain"
)

// maxLineSize bounds a single scanned line
const maxLineSize = 1024 * 1024

// LineKind classifies a VPG line
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineVertex
	LineFace
	LineOpaque
)

// LineIssue describes a line the parser dropped
type LineIssue struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (i LineIssue) String() string {
	return fmt.Sprintf("line %d: %s: %q", i.Line, i.Reason, i.Text)
}

// Classify returns the kind of a raw line
func Classify(raw string) LineKind {
	line := strings.TrimSpace(raw)
	switch {
	case line == "":
		return LineBlank
	case strings.HasPrefix(line, "#"):
		return LineComment
	}
	switch line[0] {
	case 'n', 'N':
		return LineVertex
	case 'e', 'E':
		return LineFace
	default:
		return LineOpaque
	}
}

// Parse parses VPG text into a geometry document
func Parse(text string) *domain.GeometryDocument {
	doc, _ := ParseWithIssues(text)
	return doc
}

// ParseWithIssues parses VPG text and reports every dropped line
func ParseWithIssues(text string) (*domain.GeometryDocument, []LineIssue) {
	doc := &domain.GeometryDocument{}
	var issues []LineIssue
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		skip := func(reason string) {
			issues = append(issues, LineIssue{Line: lineNo, Text: raw, Reason: reason})
		}

		switch Classify(raw) {
		case LineVertex:
			parts := strings.Fields(raw)
			if len(parts) < 4 {
				skip("vertex line needs an id and three coordinates")
				continue
			}
			pos, err := parsePosition(parts[1:4])
			if err != nil {
				skip(err.Error())
				continue
			}
			id := strings.ToLower(parts[0])
			if seen[id] {
				skip("duplicate vertex id " + id)
				continue
			}
			seen[id] = true
			doc.Vertices = append(doc.Vertices, domain.Vertex{ID: id, Position: pos})

		case LineFace:
			parts := strings.Fields(raw)
			if len(parts) < 4 {
				skip("face line needs three vertex indices")
				continue
			}
			indices, err := parseIndices(parts[1:4], len(doc.Vertices))
			if err != nil {
				skip(err.Error())
				continue
			}
			doc.Faces = append(doc.Faces, domain.Face{
				Sequence: len(doc.Faces) + 1,
				Indices:  indices,
			})
		}
	}

	// A line longer than maxLineSize stops the scanner; what was read stays.
	if err := scanner.Err(); err != nil {
		issues = append(issues, LineIssue{Line: lineNo + 1, Reason: err.Error()})
	}

	return doc, issues
}

func parsePosition(tokens []string) (domain.Vec3, error) {
	var xyz [3]float64
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return domain.Vec3{}, fmt.Errorf("invalid coordinate %q", tok)
		}
		xyz[i] = f
	}
	return domain.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// parseIndices converts 1-based index tokens to 0-based indices.
// Out-of-range indices reject the whole face instead of being clamped.
func parseIndices(tokens []string, vertexCount int) ([]int, error) {
	indices := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(normalizeToken(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q", tok)
		}
		idx := n - 1
		if idx < 0 || idx >= vertexCount {
			return nil, fmt.Errorf("vertex index %d out of range (have %d vertices)", n, vertexCount)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func normalizeToken(tok string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(tok), ","))
}
