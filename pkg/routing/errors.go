package routing

import (
	"fmt"
	"strings"
)

// TemplateErrorKind categorizes template parse failures.
type TemplateErrorKind string

const (
	// ErrUnbalancedBraces indicates a { without a matching } (or vice versa).
	ErrUnbalancedBraces TemplateErrorKind = "UNBALANCED_BRACES"

	// ErrEmptyParameter indicates a parameter with no name, e.g. /{}.
	ErrEmptyParameter TemplateErrorKind = "EMPTY_PARAMETER_NAME"

	// ErrEmptySegment indicates consecutive separators, e.g. /a//b.
	ErrEmptySegment TemplateErrorKind = "EMPTY_SEGMENT"

	// ErrDuplicateParameter indicates the same parameter name used twice
	// within one template (names compare case-insensitively).
	ErrDuplicateParameter TemplateErrorKind = "DUPLICATE_PARAMETER"

	// ErrMisplacedCatchAll indicates a catch-all parameter that is not the
	// final segment, or that shares its segment with other parts.
	ErrMisplacedCatchAll TemplateErrorKind = "MISPLACED_CATCH_ALL"

	// ErrEmptyConstraint indicates a constraint list with an empty name,
	// e.g. /{id:}.
	ErrEmptyConstraint TemplateErrorKind = "EMPTY_CONSTRAINT"

	// ErrMultipleParameters indicates more than one parameter in a single
	// segment, e.g. /{a}{b}.
	ErrMultipleParameters TemplateErrorKind = "MULTIPLE_PARAMETERS_IN_SEGMENT"

	// ErrInvalidCatchAll indicates a catch-all combined with an optional
	// marker or a default value.
	ErrInvalidCatchAll TemplateErrorKind = "INVALID_CATCH_ALL"

	// ErrUnknownConstraint indicates a constraint name the configured
	// resolver cannot resolve. Only reported when Build runs with
	// WithConstraintResolver.
	ErrUnknownConstraint TemplateErrorKind = "UNKNOWN_CONSTRAINT"
)

// TemplateError reports a malformed route template.
type TemplateError struct {
	// Kind is the error category.
	Kind TemplateErrorKind

	// Template is the raw template text that failed to parse.
	Template string

	// Detail contains additional error-specific information.
	Detail string
}

func (e *TemplateError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: invalid route template %q: %s", e.Kind, e.Template, e.Detail)
	}
	return fmt.Sprintf("%s: invalid route template %q", e.Kind, e.Template)
}

// syntaxError builds a TemplateError for the given template.
func syntaxError(kind TemplateErrorKind, template, format string, args ...any) *TemplateError {
	return &TemplateError{
		Kind:     kind,
		Template: template,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// Conflict is one pair of equally-precedent templates that could both
// match the same concrete path.
type Conflict struct {
	FirstTemplate  string
	FirstHandler   HandlerID
	SecondTemplate string
	SecondHandler  HandlerID
}

func (c Conflict) String() string {
	return fmt.Sprintf("%q (handler %s) overlaps %q (handler %s)",
		c.FirstTemplate, c.FirstHandler, c.SecondTemplate, c.SecondHandler)
}

// ConflictError aggregates every ambiguous template pair found during a
// build. The table is never returned alongside it.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "no route conflicts"
	}
	if len(e.Conflicts) == 1 {
		return "ambiguous routes: " + e.Conflicts[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d ambiguous route pairs:\n", len(e.Conflicts))
	for i, c := range e.Conflicts {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, c.String())
	}
	return sb.String()
}
