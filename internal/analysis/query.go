package analysis

import (
	"github.com/coral-mesh/callgraph/internal/reachability"
)

// CallersReport answers "which functions reachable from Root call Target directly?".
type CallersReport struct {
	Root      string   `json:"root"`
	Target    string   `json:"target"`
	Reachable int      `json:"reachable"`
	Callers   []string `json:"callers"`
}

// CallersFrom computes the callers of target within the set reachable from root.
func (r *Result) CallersFrom(root, target string) CallersReport {
	reach := reachability.Reachable(r.Graph, root)
	return CallersReport{
		Root:      root,
		Target:    target,
		Reachable: len(reach),
		Callers:   reachability.CallersWithin(r.Graph, target, reach),
	}
}

// CalleesOf returns the direct callees of name, or with transitive set every
// function reachable from it.
func (r *Result) CalleesOf(name string, transitive bool) []string {
	if transitive {
		return reachability.Reachable(r.Graph, name).Sorted()
	}
	return r.Graph.CalleesOf(name)
}
