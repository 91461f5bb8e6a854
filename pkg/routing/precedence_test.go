package routing

import "testing"

// mustPrecedence parses a template and computes its precedence.
func mustPrecedence(t *testing.T, raw string) Precedence {
	t.Helper()
	tmpl, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", raw, err)
	}
	return ComputePrecedence(tmpl)
}

func TestPrecedenceOrdering(t *testing.T) {
	tests := []struct {
		more string // expected more specific
		less string
	}{
		// Literal beats parameter.
		{"/Products/Edit", "/Products/{id}"},
		// Constraint count breaks ties.
		{"/Product/{id:int}", "/Product/{id}"},
		{"/Product/{id:int:alpha}", "/Product/{id:int}"},
		// Shorter wins when prefix-equal.
		{"/a/b", "/a/b/{c}"},
		{"/a", "/a/b"},
		// Mixed literal+parameter beats plain parameter.
		{"/v{n}", "/{n}"},
		// Everything beats catch-all.
		{"/{id}", "/{*rest}"},
		{"/x/{id}", "/x/{*rest}"},
		// Earlier segments dominate.
		{"/a/{x}/{y}", "/{x}/a/b"},
	}

	for _, tt := range tests {
		more := mustPrecedence(t, tt.more)
		less := mustPrecedence(t, tt.less)
		if c := more.Compare(less); c != -1 {
			t.Errorf("Compare(%q, %q) = %d, want -1", tt.more, tt.less, c)
		}
		if c := less.Compare(more); c != 1 {
			t.Errorf("Compare(%q, %q) = %d, want 1", tt.less, tt.more, c)
		}
	}
}

func TestPrecedenceTies(t *testing.T) {
	tests := []struct{ a, b string }{
		{"/{x}", "/{y}"},
		{"/literal", "/Literal"},
		{"/a/{x}", "/b/{y}"},
		{"/{x:int}/literal", "/{y:int}/edit"},
	}

	for _, tt := range tests {
		a := mustPrecedence(t, tt.a)
		b := mustPrecedence(t, tt.b)
		if !a.Equal(b) {
			t.Errorf("precedence of %q and %q should tie", tt.a, tt.b)
		}
	}
}

// TestPrecedenceTotalOrder checks antisymmetry and transitivity over all
// pairs and triples of a sample set mixing lengths, classes, and
// constraint counts.
func TestPrecedenceTotalOrder(t *testing.T) {
	raws := []string{
		"/",
		"/a",
		"/a/b",
		"/a/b/{c}",
		"/a/{b}",
		"/a/{b:int}",
		"/a/{b:int:alpha}",
		"/{a}",
		"/{a}/b",
		"/v{a}",
		"/v{a}/b",
		"/{*rest}",
		"/a/{*rest}",
	}

	scores := make([]Precedence, len(raws))
	for i, raw := range raws {
		scores[i] = mustPrecedence(t, raw)
	}

	for i := range scores {
		for j := range scores {
			cij := scores[i].Compare(scores[j])
			cji := scores[j].Compare(scores[i])
			if cij != -cji {
				t.Errorf("Compare not antisymmetric for %q vs %q: %d vs %d",
					raws[i], raws[j], cij, cji)
			}
			for k := range scores {
				if cij <= 0 && scores[j].Compare(scores[k]) <= 0 {
					if scores[i].Compare(scores[k]) > 0 {
						t.Errorf("Compare not transitive: %q <= %q <= %q but %q > %q",
							raws[i], raws[j], raws[k], raws[i], raws[k])
					}
				}
			}
		}
	}
}

func TestPrecedenceSelfEqual(t *testing.T) {
	for _, raw := range []string{"/", "/a/{b}", "/{*rest}"} {
		p := mustPrecedence(t, raw)
		if !p.Equal(p) {
			t.Errorf("precedence of %q should equal itself", raw)
		}
	}
}
