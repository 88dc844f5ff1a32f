package vpg

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrMergeFailure is returned when generated lines cannot be merged into
// existing text. Callers fall back to the generated text alone.
var ErrMergeFailure = errors.New("merge failure")

// Merge replaces the geometry block of base with lines.
//
// The geometry block runs from the first to the last vertex or face line of
// base. Everything before and after it is kept verbatim; a blank line is
// inserted only where non-blank content would otherwise touch geometry
// lines. When base has no geometry lines, lines are appended at the end.
func Merge(base string, lines []string) (string, error) {
	if !utf8.ValidString(base) {
		return "", ErrMergeFailure
	}
	if len(lines) == 0 {
		return base, nil
	}

	baseLines := SplitLines(base)

	first, last := -1, -1
	for i, l := range baseLines {
		switch Classify(l) {
		case LineVertex, LineFace:
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	var out []string
	if first < 0 {
		out = append(out, baseLines...)
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, lines...)
		return strings.Join(out, "\n"), nil
	}

	prefix := baseLines[:first]
	suffix := baseLines[last+1:]

	out = append(out, prefix...)
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
		out = append(out, "")
	}
	out = append(out, lines...)
	if len(suffix) > 0 {
		if strings.TrimSpace(suffix[0]) != "" && strings.TrimSpace(lines[len(lines)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, suffix...)
	}

	return strings.Join(out, "\n"), nil
}

// MergeOrReplace merges lines into base, falling back to the bare lines
// when the merge fails or base is empty
func MergeOrReplace(base string, lines []string) (string, error) {
	if base == "" {
		return strings.Join(lines, "\n"), nil
	}
	merged, err := Merge(base, lines)
	if err != nil {
		return strings.Join(lines, "\n"), err
	}
	return merged, nil
}

// SplitLines splits text on line boundaries. A trailing newline does not
// produce an empty final line and "\r\n" endings are stripped.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
