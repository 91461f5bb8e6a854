package matcher

import (
	"strings"

	"github.com/veldt-dev/veldt/pkg/routing"
)

// Match contains the result of matching a path against the route table.
type Match struct {
	// Handler is the owner of the winning template.
	Handler routing.HandlerID

	// Entry is the matched table entry.
	Entry *routing.Entry

	// Params maps parameter names to the values bound from the path,
	// including defaults filled in for absent optional parameters.
	Params map[string]string

	// Absent lists parameters supplied as unset: names declared only by
	// sibling overloads of the matched handler, plus optional parameters
	// that were not present in the path and carry no default.
	Absent []string
}

// Matcher matches concrete request paths against a built route table.
// It is read-only after construction and safe for concurrent use.
type Matcher struct {
	table    *routing.RouteTable
	resolver routing.ConstraintResolver
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithConstraintResolver sets the resolver used to evaluate parameter
// constraints. Defaults to routing.DefaultResolver().
func WithConstraintResolver(r routing.ConstraintResolver) Option {
	return func(m *Matcher) {
		m.resolver = r
	}
}

// New creates a matcher over a built route table.
func New(table *routing.RouteTable, opts ...Option) *Matcher {
	m := &Matcher{
		table:    table,
		resolver: routing.DefaultResolver(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match finds the most specific table entry accepting the given path.
func (m *Matcher) Match(path string) (*Match, bool) {
	segments := splitPath(path)

	for _, e := range m.table.Entries() {
		params := make(map[string]string)
		var absent []string
		if m.matchEntry(e, segments, params, &absent) {
			absent = append(absent, e.Unused...)
			return &Match{
				Handler: e.Handler,
				Entry:   e,
				Params:  params,
				Absent:  absent,
			}, true
		}
	}
	return nil, false
}

// matchEntry attempts to bind the path segments to one template.
func (m *Matcher) matchEntry(e *routing.Entry, path []string, params map[string]string, absent *[]string) bool {
	pi := 0
	for _, seg := range e.Template.Segments {
		param, hasParam := seg.Parameter()

		// Catch-all consumes the rest of the path, including nothing.
		if hasParam && param.CatchAll {
			value := strings.Join(path[pi:], "/")
			if !m.checkConstraints(param, value) {
				return false
			}
			params[param.Name] = value
			pi = len(path)
			continue
		}

		if pi >= len(path) {
			// Path exhausted: the remaining segments match only if each
			// is a lone skippable parameter. Mixed segments carry literal
			// text that cannot be absent from a concrete path.
			if !hasParam || len(seg.Parts) > 1 {
				return false
			}
			if param.HasDefault {
				params[param.Name] = param.Default
				continue
			}
			if param.Optional {
				*absent = append(*absent, param.Name)
				continue
			}
			return false
		}

		if !m.matchSegment(seg, path[pi], params) {
			return false
		}
		pi++
	}

	return pi == len(path)
}

// matchSegment binds one concrete path segment against one template segment.
func (m *Matcher) matchSegment(seg routing.Segment, text string, params map[string]string) bool {
	param, hasParam := seg.Parameter()
	if !hasParam {
		// Literal-only segments have a single part.
		return strings.EqualFold(seg.Parts[0].Literal, text)
	}

	var prefix, suffix strings.Builder
	before := true
	for _, part := range seg.Parts {
		if part.IsParameter() {
			before = false
			continue
		}
		if before {
			prefix.WriteString(part.Literal)
		} else {
			suffix.WriteString(part.Literal)
		}
	}

	pre, suf := prefix.String(), suffix.String()
	if len(text) < len(pre)+len(suf) {
		return false
	}
	if !strings.EqualFold(text[:len(pre)], pre) {
		return false
	}
	if !strings.EqualFold(text[len(text)-len(suf):], suf) {
		return false
	}

	value := text[len(pre) : len(text)-len(suf)]
	if value == "" {
		return false
	}
	if !m.checkConstraints(param, value) {
		return false
	}

	params[param.Name] = value
	return true
}

// checkConstraints evaluates the parameter's constraints against a bound
// value. Names the resolver cannot resolve do not block the match; strict
// name validation belongs to the build (routing.WithConstraintResolver).
func (m *Matcher) checkConstraints(param routing.Part, value string) bool {
	for _, name := range param.Constraints {
		c, ok := m.resolver.Resolve(name)
		if !ok {
			continue
		}
		if !c.Match(value) {
			return false
		}
	}
	return true
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
