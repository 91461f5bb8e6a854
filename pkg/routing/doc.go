// Package routing builds the route table that maps URL path templates
// declared on Veldt components to their handlers.
//
// The package provides:
//   - Template parsing ({name}, {name?}, {*rest}, {name:int}, {name=default})
//   - A total specificity order over templates of any shape
//   - Build-time detection of ambiguous template pairs
//   - An immutable, specificity-sorted route table
//   - A process-wide cache keyed by the declaring handler set
//
// # Templates
//
// Templates are /-delimited path patterns. Each segment is literal text,
// a single parameter, or literal text wrapped around one parameter:
//
//	/projects                → literal
//	/projects/{id}           → parameter
//	/projects/{id:int}       → constrained parameter
//	/projects/{id?}          → optional parameter
//	/files/{*path}           → catch-all (must be the final segment)
//	/report-{year}.html      → mixed literal and parameter
//
// Constraints name rules evaluated by a pluggable ConstraintResolver;
// the builder records them but never evaluates them itself.
//
// # Precedence
//
// Templates are ordered most specific first: literal segments beat mixed
// segments, mixed segments beat plain parameters, constrained parameters
// beat unconstrained ones, and catch-alls rank last. A shorter template
// beats a longer one when their common segments tie.
//
// # Ambiguity
//
// Two templates of equal precedence that could match the same concrete
// path are a configuration error. Build reports every conflicting pair,
// naming both templates and their owning handlers, and never returns a
// partially built table.
//
// # Usage
//
//	decls := routing.Declarations{
//	    "pages.Index":   {"/"},
//	    "pages.Project": {"/projects/{id:int}", "/projects/{id:int}/{tab?}"},
//	}
//
//	table, err := routing.Build(decls)
//	if err != nil {
//	    // *routing.TemplateError or *routing.ConflictError
//	}
//
//	for _, e := range table.Entries() {
//	    // entries are ordered most specific first
//	}
//
// Hosts that rebuild per navigation should go through the cache instead:
//
//	key := routing.NewRouteKey("app", nil)
//	table, err := routing.GetOrBuild(ctx, key, source)
package routing
