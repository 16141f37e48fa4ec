// Package reachability answers transitive questions over a call graph:
// which functions can be reached from a root, and which of those call a
// given target directly.
package reachability

import (
	"slices"

	"github.com/coral-mesh/callgraph/internal/callgraph"
)

// Set is a set of function names.
type Set map[string]struct{}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Reachable returns every function reachable from root by following at least
// one call edge. root itself is only included when a cycle leads back to it.
//
// The walk uses an explicit stack and checks membership before pushing, so it
// terminates on recursive and mutually recursive graphs of any depth.
func Reachable(g callgraph.Querier, root string) Set {
	result := make(Set)
	stack := []string{root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, callee := range g.CalleesOf(name) {
			if result.Has(callee) {
				continue
			}
			result[callee] = struct{}{}
			stack = append(stack, callee)
		}
	}
	return result
}

// CallersWithin returns the direct callers of target that are members of
// within, sorted ascending.
func CallersWithin(g callgraph.Querier, target string, within Set) []string {
	out := []string{}
	for _, caller := range g.CallersOf(target) {
		if within.Has(caller) {
			out = append(out, caller)
		}
	}
	return out
}
