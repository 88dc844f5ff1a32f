package vpg

import (
	"regexp"
	"strconv"
	"strings"

	"vpgsync/internal/domain"
)

// idPattern matches a well-formed identity tag
var idPattern = regexp.MustCompile(`^[nN]([0-9]+)$`)

// VertexID returns the canonical id for the vertex at position i
func VertexID(i int) string {
	return "n" + strconv.Itoa(i+1)
}

// ValidID reports whether id is an "n<number>" tag (case-insensitive)
func ValidID(id string) bool {
	return idPattern.MatchString(strings.TrimSpace(id))
}

// NormalizeID lower-cases a valid tag and drops leading zeros ("N007" -> "n7").
// Invalid tags are returned trimmed but otherwise untouched.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return id
	}
	digits := strings.TrimLeft(m[1], "0")
	if digits == "" {
		digits = "0"
	}
	return "n" + digits
}

// AssignIdentities applies the identity policy to vertices in their current
// order and stamps the resulting ids back onto them. It reports whether any
// id changed.
//
// When every stamped id is an "n<number>" tag the ids are kept if they are
// already the dense sequence n1..nN, and the whole document is renumbered
// otherwise. A single tag that is not "n<number>" disables renumbering: only
// missing or invalid tags get fresh ids and the rest keep theirs.
func AssignIdentities(vertices []domain.Vertex) bool {
	ids := make([]string, len(vertices))
	fresh := make([]bool, len(vertices))
	allNumeric := true

	for i, v := range vertices {
		raw := strings.TrimSpace(v.ID)
		switch {
		case raw == "":
			fresh[i] = true
		case !idPattern.MatchString(raw):
			fresh[i] = true
			allNumeric = false
		default:
			ids[i] = NormalizeID(raw)
		}
	}

	if allNumeric {
		renumber := false
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			if fresh[i] || seen[id] || id != VertexID(i) {
				renumber = true
				break
			}
			seen[id] = true
		}
		if renumber {
			for i := range ids {
				ids[i] = VertexID(i)
			}
		}
	} else {
		assignFresh(ids, fresh)
	}

	changed := false
	for i := range vertices {
		if vertices[i].ID != ids[i] {
			vertices[i].ID = ids[i]
			changed = true
		}
	}
	return changed
}

// assignFresh gives every fresh slot the positional id, or the next unused
// number when another vertex already holds it
func assignFresh(ids []string, fresh []bool) {
	taken := make(map[string]bool, len(ids))
	for i, id := range ids {
		if !fresh[i] {
			taken[id] = true
		}
	}
	next := len(ids)
	for i := range ids {
		if !fresh[i] {
			continue
		}
		id := VertexID(i)
		for taken[id] {
			id = VertexID(next)
			next++
		}
		ids[i] = id
		taken[id] = true
	}
}
