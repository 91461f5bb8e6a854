package routing

import "strings"

// overlaps reports whether two templates could both match the same concrete
// path. It is only meaningful for templates whose segment classes match;
// pairs of differing shape are never ambiguous by construction.
//
// Two templates overlap iff every segment position has the same number of
// parts and every literal-literal part pair at the same index is equal
// case-insensitively. Parameter parts never block the test: a parameter is
// interchangeable with any literal or parameter at the same position,
// regardless of constraints or optional markers.
func overlaps(a, b RouteTemplate) bool {
	if len(a.Segments) != len(b.Segments) {
		return false
	}
	for i := range a.Segments {
		as, bs := a.Segments[i], b.Segments[i]
		if len(as.Parts) != len(bs.Parts) {
			return false
		}
		for j := range as.Parts {
			ap, bp := as.Parts[j], bs.Parts[j]
			if ap.IsParameter() || bp.IsParameter() {
				continue
			}
			if !strings.EqualFold(ap.Literal, bp.Literal) {
				return false
			}
		}
	}
	return true
}
