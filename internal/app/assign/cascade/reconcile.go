// Package cascade keeps dependent selections valid after a parent
// selection changes.
//
// The dependency graph is Subject → Course → Chapter → Section on the
// content side and Class → Student on the audience side. Each edge says
// what an empty parent selection means: on content edges it removes the
// filter (the child option list is computed as if that level were not
// there), on the audience edge it means nothing is reachable.
package cascade

import (
	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
)

// EmptyParent is an edge's reading of an empty parent selection.
type EmptyParent int

const (
	// Permissive: no filter, every child option stays reachable.
	Permissive EmptyParent = iota
	// Restrictive: no child option is reachable.
	Restrictive
)

// Edge is one parent → child dependency.
type Edge struct {
	Parent selection.Level
	Child  selection.Level
	Empty  EmptyParent
}

// Graph is the full reconciliation graph.
var Graph = []Edge{
	{Parent: selection.Subject, Child: selection.Course, Empty: Permissive},
	{Parent: selection.Course, Child: selection.Chapter, Empty: Permissive},
	{Parent: selection.Chapter, Child: selection.Section, Empty: Permissive},
	{Parent: selection.Class, Child: selection.Student, Empty: Restrictive},
}

// Roots are the levels nothing depends on.
var Roots = []selection.Level{selection.Subject, selection.Class}

// Children returns the edges leaving l.
func Children(l selection.Level) []Edge {
	var out []Edge
	for _, e := range Graph {
		if e.Parent == l {
			out = append(out, e)
		}
	}
	return out
}

// Reconcile returns childSelection restricted to the IDs present in
// childOptions, keeping selection order.
//
// childOptions must have been computed for parentSelection; for a
// permissive edge with an empty parent that is the unfiltered list, so no
// previously valid child is dropped. A restrictive edge with an empty
// parent yields an empty selection.
func Reconcile(parentSelection []string, childOptions []hierarchy.Option, childSelection []string, empty EmptyParent) []string {
	if len(parentSelection) == 0 && empty == Restrictive {
		return []string{}
	}
	valid := make(map[string]bool, len(childOptions))
	for _, o := range childOptions {
		valid[o.ID] = true
	}
	out := make([]string, 0, len(childSelection))
	for _, id := range childSelection {
		if valid[id] {
			out = append(out, id)
		}
	}
	return out
}
