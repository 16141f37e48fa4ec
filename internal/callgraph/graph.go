// Package callgraph holds a directed graph of caller -> callee function names.
package callgraph

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"
)

// Querier is the read side of a call graph.
type Querier interface {
	// CalleesOf returns the distinct direct callees of name, sorted ascending.
	CalleesOf(name string) []string
	// CallersOf returns the distinct direct callers of name, sorted ascending.
	CallersOf(name string) []string
}

// Edge is a single caller -> callee relation.
type Edge struct {
	Caller string `json:"caller" header:"Caller"`
	Callee string `json:"callee" header:"Callee"`
}

// adjacency maps a name to the set of names on the other end of its edges.
type adjacency map[string]map[string]struct{}

func (a adjacency) link(from, to string) bool {
	set, ok := a[from]
	if !ok {
		set = make(map[string]struct{})
		a[from] = set
	}
	if _, ok := set[to]; ok {
		return false
	}
	set[to] = struct{}{}
	return true
}

func (a adjacency) sorted(name string) []string {
	set := a[name]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Graph is a set of caller -> callee edges indexed in both directions.
// Every edge is stored at most once no matter how many call sites produce it.
type Graph struct {
	callees adjacency // caller -> callees
	callers adjacency // callee -> callers
	edges   int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		callees: make(adjacency),
		callers: make(adjacency),
	}
}

// Add records the edge caller -> callee. It reports whether the edge was new.
// Self edges from recursive functions are stored like any other.
func (g *Graph) Add(caller, callee string) bool {
	if !g.callees.link(caller, callee) {
		return false
	}
	g.callers.link(callee, caller)
	g.edges++
	return true
}

// CalleesOf returns the functions name calls directly, sorted ascending.
func (g *Graph) CalleesOf(name string) []string {
	return g.callees.sorted(name)
}

// CallersOf returns the functions that call name directly, sorted ascending.
func (g *Graph) CallersOf(name string) []string {
	return g.callers.sorted(name)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Names returns every function that appears on either end of an edge, sorted.
func (g *Graph) Names() []string {
	seen := make(map[string]struct{}, len(g.callees)+len(g.callers))
	for n := range g.callees {
		seen[n] = struct{}{}
	}
	for n := range g.callers {
		seen[n] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Edges returns all edges ordered by caller, then callee.
func (g *Graph) Edges() []Edge {
	callers := make([]string, 0, len(g.callees))
	for n := range g.callees {
		callers = append(callers, n)
	}
	slices.Sort(callers)

	out := make([]Edge, 0, g.edges)
	for _, caller := range callers {
		for _, callee := range g.callees.sorted(caller) {
			out = append(out, Edge{Caller: caller, Callee: callee})
		}
	}
	return out
}

// Fingerprint returns a digest of the edge set. Two graphs with the same
// edges have the same fingerprint regardless of insertion order.
func (g *Graph) Fingerprint() uint64 {
	h := xxh3.New()
	var lenBuf [8]byte
	write := func(s string) {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
		_, _ = h.Write(lenBuf[:])
		_, _ = h.WriteString(s)
	}
	for _, e := range g.Edges() {
		write(e.Caller)
		write(e.Callee)
	}
	return h.Sum64()
}
