package routing

// segmentClass orders segment shapes from most to least specific.
type segmentClass int

const (
	classLiteral  segmentClass = iota // literal parts only
	classMixed                        // literal prefix/suffix around a parameter
	classParam                        // a single non-catch-all parameter
	classCatchAll                     // a catch-all parameter
)

// segmentScore is the specificity of one segment. Scores compare with
// compareScores; smaller means more specific.
type segmentScore struct {
	class segmentClass

	// constraints breaks ties between parameter-bearing segments of the
	// same class: more constraints ranks as more specific.
	constraints int
}

// compareScores returns a negative value when a is more specific than b,
// zero when they tie, and a positive value otherwise.
func compareScores(a, b segmentScore) int {
	if a.class != b.class {
		return int(a.class) - int(b.class)
	}
	return b.constraints - a.constraints
}

// Precedence is a template's specificity: one score per segment, compared
// lexicographically with earlier segments dominating. It deliberately stays
// a vector rather than collapsing to a scalar, so the ordering holds for
// every combination of segment counts.
type Precedence struct {
	scores []segmentScore
}

// ComputePrecedence derives the precedence score vector for a template.
func ComputePrecedence(t RouteTemplate) Precedence {
	scores := make([]segmentScore, len(t.Segments))
	for i, seg := range t.Segments {
		scores[i] = scoreSegment(seg)
	}
	return Precedence{scores: scores}
}

func scoreSegment(seg Segment) segmentScore {
	p, ok := seg.Parameter()
	if !ok {
		return segmentScore{class: classLiteral}
	}
	if p.CatchAll {
		return segmentScore{class: classCatchAll}
	}
	class := classParam
	if len(seg.Parts) > 1 {
		class = classMixed
	}
	return segmentScore{class: class, constraints: len(p.Constraints)}
}

// Compare returns -1 when p is more specific than o, 0 when they tie at
// every segment, and 1 otherwise. A template that runs out of segments
// while the other continues is the more specific one: absent trailing
// segments compare as maximally specific, so shorter templates win when
// their common prefix ties.
func (p Precedence) Compare(o Precedence) int {
	n := len(p.scores)
	if len(o.scores) > n {
		n = len(o.scores)
	}
	for i := 0; i < n; i++ {
		if i >= len(p.scores) {
			return -1
		}
		if i >= len(o.scores) {
			return 1
		}
		if c := compareScores(p.scores[i], o.scores[i]); c < 0 {
			return -1
		} else if c > 0 {
			return 1
		}
	}
	return 0
}

// Equal reports whether both templates tie at every segment.
func (p Precedence) Equal(o Precedence) bool {
	return p.Compare(o) == 0
}

// shapeKey identifies the per-segment classes, ignoring constraint counts.
// The ambiguity pass groups by shape rather than full precedence:
// constraints order otherwise-equal templates, but they never make two
// overlapping templates distinguishable.
func (p Precedence) shapeKey() string {
	b := make([]byte, len(p.scores))
	for i, s := range p.scores {
		b[i] = byte('0' + s.class)
	}
	return string(b)
}
