package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility characters (nbsp, ligatures, full-width forms)
// and collapses whitespace runs to single spaces.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation cleans a location string, strips a "Location:" label and
// drops a comma part that exactly repeats the one before it,
// e.g. "Austin, TX, TX" -> "Austin, TX".
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	loc = strings.TrimSpace(strings.TrimPrefix(loc, "Location:"))
	if loc == "" {
		return ""
	}

	var out []string
	for _, p := range strings.Split(loc, ",") {
		p = CleanText(p)
		if p == "" || (len(out) > 0 && out[len(out)-1] == p) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// CleanMultiline keeps paragraph breaks of a long text block while cleaning each line.
func CleanMultiline(s string) string {
	s = norm.NFKC.String(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = CleanText(l)
		if l == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
