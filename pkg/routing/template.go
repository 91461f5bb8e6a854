package routing

import "strings"

// Part is one unit of a segment: fixed text or a single parameter.
type Part struct {
	// Literal is the fixed text for literal parts; empty for parameters.
	// Literals compare case-insensitively.
	Literal string

	// Name is the parameter name; empty for literal parts.
	Name string

	// CatchAll marks a parameter that captures all remaining path segments.
	CatchAll bool

	// Optional marks a parameter that may be absent from a matched path.
	Optional bool

	// Constraints are the constraint names declared after the parameter
	// name, in declaration order. Evaluation is delegated to a
	// ConstraintResolver.
	Constraints []string

	// Default is the value supplied when the parameter is absent.
	Default string

	// HasDefault distinguishes an empty default from no default.
	HasDefault bool
}

// IsParameter reports whether the part is a parameter rather than a literal.
func (p Part) IsParameter() bool {
	return p.Name != ""
}

// Segment is one /-delimited unit of a template.
type Segment struct {
	Parts []Part
}

// Parameter returns the segment's parameter part, if it has one.
// A valid segment contains at most one.
func (s Segment) Parameter() (Part, bool) {
	for _, p := range s.Parts {
		if p.IsParameter() {
			return p, true
		}
	}
	return Part{}, false
}

// IsLiteral reports whether the segment consists of literal parts only.
func (s Segment) IsLiteral() bool {
	_, ok := s.Parameter()
	return !ok
}

// RouteTemplate is a parsed route template: an ordered sequence of segments.
type RouteTemplate struct {
	// Text is the original raw template, kept for diagnostics and for
	// deterministic tie-breaking in the built table.
	Text string

	Segments []Segment
}

// ParameterNames returns the template's parameter names in declaration order.
func (t RouteTemplate) ParameterNames() []string {
	var names []string
	for _, seg := range t.Segments {
		if p, ok := seg.Parameter(); ok {
			names = append(names, p.Name)
		}
	}
	return names
}

// Parse parses a raw route template.
//
// Leading and trailing slashes are trimmed before segmentation; segments
// are split on "/". Parameters are delimited by { and }; a leading * or
// ** marks a catch-all, a trailing ? marks the parameter optional, a
// constraint list follows a colon, and a default value follows =.
//
// Parse returns a *TemplateError when braces are unbalanced, a parameter
// name is empty or duplicated within the template, a catch-all parameter
// is not the final segment, a constraint name is empty, a segment contains
// more than one parameter, or consecutive separators leave a segment empty.
func Parse(raw string) (RouteTemplate, error) {
	tmpl := RouteTemplate{Text: raw}

	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		// Root template: zero segments.
		return tmpl, nil
	}

	seen := make(map[string]struct{})
	rawSegments := strings.Split(trimmed, "/")
	for i, rawSeg := range rawSegments {
		if rawSeg == "" {
			return RouteTemplate{}, syntaxError(ErrEmptySegment, raw,
				"consecutive '/' separators leave segment %d empty", i+1)
		}
		seg, err := parseSegment(raw, rawSeg)
		if err != nil {
			return RouteTemplate{}, err
		}

		if p, ok := seg.Parameter(); ok {
			lower := strings.ToLower(p.Name)
			if _, dup := seen[lower]; dup {
				return RouteTemplate{}, syntaxError(ErrDuplicateParameter, raw,
					"parameter %q appears more than once", p.Name)
			}
			seen[lower] = struct{}{}

			if p.CatchAll {
				if i != len(rawSegments)-1 {
					return RouteTemplate{}, syntaxError(ErrMisplacedCatchAll, raw,
						"catch-all parameter %q must be the final segment", p.Name)
				}
				if len(seg.Parts) > 1 {
					return RouteTemplate{}, syntaxError(ErrMisplacedCatchAll, raw,
						"catch-all parameter %q cannot share a segment with other text", p.Name)
				}
			}
		}

		tmpl.Segments = append(tmpl.Segments, seg)
	}

	return tmpl, nil
}

// parseSegment splits one raw segment into literal and parameter parts.
func parseSegment(raw, rawSeg string) (Segment, error) {
	var seg Segment
	params := 0

	rest := rawSeg
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open == -1 {
			if strings.IndexByte(rest, '}') != -1 {
				return Segment{}, syntaxError(ErrUnbalancedBraces, raw,
					"unexpected '}' in segment %q", rawSeg)
			}
			seg.Parts = append(seg.Parts, Part{Literal: rest})
			break
		}
		if strings.IndexByte(rest[:open], '}') != -1 {
			return Segment{}, syntaxError(ErrUnbalancedBraces, raw,
				"unexpected '}' in segment %q", rawSeg)
		}
		if open > 0 {
			seg.Parts = append(seg.Parts, Part{Literal: rest[:open]})
		}

		end := strings.IndexByte(rest[open:], '}')
		if end == -1 {
			return Segment{}, syntaxError(ErrUnbalancedBraces, raw,
				"missing '}' in segment %q", rawSeg)
		}
		end += open

		inner := rest[open+1 : end]
		if strings.IndexByte(inner, '{') != -1 {
			return Segment{}, syntaxError(ErrUnbalancedBraces, raw,
				"nested '{' in segment %q", rawSeg)
		}

		part, err := parseParameter(raw, inner)
		if err != nil {
			return Segment{}, err
		}
		seg.Parts = append(seg.Parts, part)
		params++

		rest = rest[end+1:]
	}

	if params > 1 {
		return Segment{}, syntaxError(ErrMultipleParameters, raw,
			"segment %q declares %d parameters, at most one is allowed", rawSeg, params)
	}

	return seg, nil
}

// parseParameter parses the text between braces into a parameter part.
func parseParameter(raw, inner string) (Part, error) {
	p := Part{}

	if strings.HasPrefix(inner, "**") {
		p.CatchAll = true
		inner = inner[2:]
	} else if strings.HasPrefix(inner, "*") {
		p.CatchAll = true
		inner = inner[1:]
	}

	if strings.HasSuffix(inner, "?") {
		p.Optional = true
		inner = strings.TrimSuffix(inner, "?")
	}

	if eq := strings.IndexByte(inner, '='); eq != -1 {
		p.Default = inner[eq+1:]
		p.HasDefault = true
		inner = inner[:eq]
	}

	pieces := strings.Split(inner, ":")
	p.Name = pieces[0]
	if p.Name == "" {
		return Part{}, syntaxError(ErrEmptyParameter, raw, "parameter has no name")
	}
	for _, c := range pieces[1:] {
		if c == "" {
			return Part{}, syntaxError(ErrEmptyConstraint, raw,
				"parameter %q declares an empty constraint", p.Name)
		}
		p.Constraints = append(p.Constraints, c)
	}

	if p.CatchAll && (p.Optional || p.HasDefault) {
		return Part{}, syntaxError(ErrInvalidCatchAll, raw,
			"catch-all parameter %q cannot be optional or carry a default", p.Name)
	}

	return p, nil
}
