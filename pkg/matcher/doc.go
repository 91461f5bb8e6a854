// Package matcher resolves concrete request paths against a built route
// table.
//
// The matcher walks the table's entries most specific first and returns
// the first template that accepts the path, so precedence decisions made
// at build time directly determine which handler wins:
//
//	table, _ := routing.Build(decls)
//	m := matcher.New(table)
//
//	match, ok := m.Match("/projects/42")
//	if ok {
//	    // match.Handler, match.Params["id"] == "42"
//	}
//
// Literals compare case-insensitively. Parameter constraints are evaluated
// through the configured routing.ConstraintResolver; optional parameters
// and defaults are filled in, and parameters declared only by sibling
// overloads of the matched handler are reported in Match.Absent so every
// overload presents the same parameter surface.
package matcher
