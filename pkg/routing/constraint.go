package routing

import (
	"regexp"
	"strconv"
	"time"
	"unicode"
)

// Constraint checks whether a concrete path value is acceptable for a
// parameter. Constraints are evaluated by the matcher, never by the
// table builder.
type Constraint interface {
	Match(value string) bool
}

// ConstraintFunc adapts a function to the Constraint interface.
type ConstraintFunc func(value string) bool

// Match implements Constraint.
func (f ConstraintFunc) Match(value string) bool { return f(value) }

// ConstraintResolver maps declared constraint names to implementations.
// Hosts plug in their own resolver to extend or replace the stock set.
type ConstraintResolver interface {
	// Resolve returns the constraint for name, or false if the name is
	// not known to this resolver.
	Resolve(name string) (Constraint, bool)
}

// MapResolver is a ConstraintResolver backed by a plain map.
type MapResolver map[string]Constraint

// Resolve implements ConstraintResolver.
func (m MapResolver) Resolve(name string) (Constraint, bool) {
	c, ok := m[name]
	return c, ok
}

// guidRegex matches canonical UUID/GUID values.
var guidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// datetimeLayouts are the formats accepted by the datetime constraint.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DefaultResolver returns a resolver with the stock constraint set:
// int, long, bool, float, double, decimal, guid, datetime, and alpha.
func DefaultResolver() ConstraintResolver {
	return MapResolver{
		"int":  ConstraintFunc(isInt),
		"long": ConstraintFunc(isInt),
		"bool": ConstraintFunc(func(v string) bool {
			_, err := strconv.ParseBool(v)
			return err == nil
		}),
		"float":   ConstraintFunc(isFloat),
		"double":  ConstraintFunc(isFloat),
		"decimal": ConstraintFunc(isFloat),
		"guid": ConstraintFunc(func(v string) bool {
			return guidRegex.MatchString(v)
		}),
		"datetime": ConstraintFunc(func(v string) bool {
			for _, layout := range datetimeLayouts {
				if _, err := time.Parse(layout, v); err == nil {
					return true
				}
			}
			return false
		}),
		"alpha": ConstraintFunc(func(v string) bool {
			if v == "" {
				return false
			}
			for _, r := range v {
				if !unicode.IsLetter(r) {
					return false
				}
			}
			return true
		}),
	}
}

func isInt(v string) bool {
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

func isFloat(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}
