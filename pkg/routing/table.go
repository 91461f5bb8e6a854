package routing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// HandlerID identifies a routable component. The builder treats it as an
// opaque, comparable value; hosts typically use the component's fully
// qualified type name.
type HandlerID string

// Declarations maps each handler to the raw templates declared on it.
// A handler with several templates has overloads: the builder gives all of
// them a consistent parameter surface (see Entry.Unused).
type Declarations map[HandlerID][]string

// DeclarationSource supplies declarations on demand. The cache calls it
// when it has no table for a key.
type DeclarationSource interface {
	Declarations() (Declarations, error)
}

// DeclarationsFunc adapts a function to DeclarationSource.
type DeclarationsFunc func() (Declarations, error)

// Declarations implements DeclarationSource.
func (f DeclarationsFunc) Declarations() (Declarations, error) { return f() }

// StaticDeclarations wraps a fixed declaration set as a DeclarationSource.
func StaticDeclarations(decls Declarations) DeclarationSource {
	return DeclarationsFunc(func() (Declarations, error) {
		return decls, nil
	})
}

// Entry is one (handler, template) pair in a built table.
type Entry struct {
	// Handler owns the template.
	Handler HandlerID

	// Template is the parsed template. Template.Text keeps the raw form
	// for diagnostics.
	Template RouteTemplate

	// Precedence is the template's computed specificity.
	Precedence Precedence

	// Unused are parameter names declared by sibling overloads of the same
	// handler but absent from this template. They must be supplied as
	// unset at match time so every overload presents the same parameter
	// surface. Sorted case-insensitively, deduplicated.
	Unused []string
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s -> %s", e.Template.Text, e.Handler)
}

// RouteTable is the immutable, specificity-ordered set of route entries.
// Once built it is never mutated and is safe for concurrent readers.
type RouteTable struct {
	entries []*Entry
}

// Entries returns the table's entries, most specific first. The slice is
// a copy; the entries themselves are shared and must be treated read-only.
func (t *RouteTable) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries in the table.
func (t *RouteTable) Len() int { return len(t.entries) }

// BuildOption configures a build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	resolver ConstraintResolver
	logger   *slog.Logger
}

// WithConstraintResolver makes the build verify that every declared
// constraint name resolves. Unknown names fail the build with a
// *TemplateError of kind ErrUnknownConstraint. Without this option,
// constraint names are recorded but not checked.
func WithConstraintResolver(r ConstraintResolver) BuildOption {
	return func(c *buildConfig) {
		c.resolver = r
	}
}

// WithLogger sets the logger for build diagnostics. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// Build parses every declared template, computes precedence, proves the
// set unambiguous, and returns the sorted table.
//
// The build is pure: identical declaration sets always yield identical,
// stably-ordered tables regardless of map iteration order. Entries sort
// most specific first; entries of equal precedence that are not ambiguous
// order by case-insensitive template text.
//
// Errors are deterministic functions of the input and recur identically on
// retry: a *TemplateError for the first malformed template, or a
// *ConflictError listing every ambiguous pair. No partial table is ever
// returned.
func Build(decls Declarations, opts ...BuildOption) (*RouteTable, error) {
	cfg := buildConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	table, err := build(decls, &cfg)
	if err != nil {
		recordBuild("error", time.Since(start).Seconds(), 0)
		return nil, err
	}
	recordBuild("success", time.Since(start).Seconds(), table.Len())

	cfg.logger.Debug("route table built",
		"handlers", len(decls),
		"entries", table.Len(),
		"duration", time.Since(start))
	return table, nil
}

func build(decls Declarations, cfg *buildConfig) (*RouteTable, error) {
	// Map iteration order is random; sort handlers for determinism.
	ids := make([]HandlerID, 0, len(decls))
	for id := range decls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var entries []*Entry
	for _, id := range ids {
		parsed := make([]RouteTemplate, 0, len(decls[id]))
		for _, raw := range decls[id] {
			t, err := Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("handler %s: %w", id, err)
			}
			parsed = append(parsed, t)
		}

		if cfg.resolver != nil {
			for _, t := range parsed {
				if err := checkConstraints(t, cfg.resolver); err != nil {
					return nil, fmt.Errorf("handler %s: %w", id, err)
				}
			}
		}

		// Union of parameter names across the handler's overloads,
		// case-insensitive with first-seen casing kept.
		union := make(map[string]string)
		for _, t := range parsed {
			for _, name := range t.ParameterNames() {
				lower := strings.ToLower(name)
				if _, ok := union[lower]; !ok {
					union[lower] = name
				}
			}
		}

		for _, t := range parsed {
			entries = append(entries, &Entry{
				Handler:    id,
				Template:   t,
				Precedence: ComputePrecedence(t),
				Unused:     unusedNames(t, union),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Precedence.Compare(entries[j].Precedence); c != 0 {
			return c < 0
		}
		a := strings.ToLower(entries[i].Template.Text)
		b := strings.ToLower(entries[j].Template.Text)
		if a != b {
			return a < b
		}
		// Identical text under different handlers is ambiguous anyway;
		// order by handler so the report is stable.
		return entries[i].Handler < entries[j].Handler
	})

	if err := detectConflicts(entries); err != nil {
		return nil, err
	}

	return &RouteTable{entries: entries}, nil
}

// unusedNames returns the handler's parameter-name union minus the names
// the template declares itself.
func unusedNames(t RouteTemplate, union map[string]string) []string {
	own := make(map[string]struct{})
	for _, name := range t.ParameterNames() {
		own[strings.ToLower(name)] = struct{}{}
	}

	var unused []string
	for lower, name := range union {
		if _, ok := own[lower]; !ok {
			unused = append(unused, name)
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		return strings.ToLower(unused[i]) < strings.ToLower(unused[j])
	})
	return unused
}

// checkConstraints verifies every constraint name resolves.
func checkConstraints(t RouteTemplate, r ConstraintResolver) error {
	for _, seg := range t.Segments {
		p, ok := seg.Parameter()
		if !ok {
			continue
		}
		for _, name := range p.Constraints {
			if _, ok := r.Resolve(name); !ok {
				return syntaxError(ErrUnknownConstraint, t.Text,
					"parameter %q uses unknown constraint %q", p.Name, name)
			}
		}
	}
	return nil
}

// detectConflicts checks every pair of entries whose segment classes match
// for overlap. Grouping ignores constraint counts: /product/{id:int} and
// /product/{id} sort apart but still collide, because constraints do not
// participate in the overlap test. All conflicting pairs are collected so
// the caller sees the full report in one pass, not just the first offender.
func detectConflicts(entries []*Entry) error {
	groups := make(map[string][]*Entry)
	var order []string
	for _, e := range entries {
		key := e.Precedence.shapeKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	var conflicts []Conflict
	for _, key := range order {
		group := groups[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if overlaps(group[i].Template, group[j].Template) {
					conflicts = append(conflicts, Conflict{
						FirstTemplate:  group[i].Template.Text,
						FirstHandler:   group[i].Handler,
						SecondTemplate: group[j].Template.Text,
						SecondHandler:  group[j].Handler,
					})
				}
			}
		}
	}

	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}
