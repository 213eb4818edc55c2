package engine

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/stores"
)

// ReferenceGraph is the directed graph of committed references. An edge
// runs from the referencing profile to the profile it depends on; the
// graph is kept acyclic by rejecting commits that would close a cycle.
type ReferenceGraph struct {
	// nodes maps profile IDs to their family
	nodes map[string]profiles.FamilyName

	// adjacencyList maps profile IDs to the profiles that reference them
	adjacencyList map[string][]string

	// reverseAdjacencyList maps profile IDs to the edges they own
	reverseAdjacencyList map[string][]stores.Edge
}

// NewReferenceGraph creates an empty graph.
func NewReferenceGraph() *ReferenceGraph {
	return &ReferenceGraph{
		nodes:                make(map[string]profiles.FamilyName),
		adjacencyList:        make(map[string][]string),
		reverseAdjacencyList: make(map[string][]stores.Edge),
	}
}

// BuildReferenceGraph builds the graph of stored records and edges and
// verifies it is acyclic.
func BuildReferenceGraph(records []*stores.Record, edges []stores.Edge) (*ReferenceGraph, error) {
	g := NewReferenceGraph()
	for _, rec := range records {
		g.nodes[rec.ID] = profiles.FamilyName(rec.Family)
	}

	bySource := make(map[string][]stores.Edge)
	for _, e := range edges {
		if _, ok := g.nodes[e.TargetID]; !ok {
			return nil, NewInternalError(
				fmt.Sprintf("reference %s.%s points at unknown profile %s", e.SourceID, e.Role, e.TargetID), nil,
			).WithResource(e.SourceID)
		}
		bySource[e.SourceID] = append(bySource[e.SourceID], e)
	}
	for source, out := range bySource {
		g.SetEdges(source, g.nodes[source], out)
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, NewReferentialError(
			fmt.Sprintf("circular reference detected: %s", formatCycle(cycle)), nil,
		).WithCode(ErrCodeReferenceCycle)
	}
	return g, nil
}

// Has reports whether id is a node of the graph.
func (g *ReferenceGraph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of profiles in the graph.
func (g *ReferenceGraph) Len() int {
	return len(g.nodes)
}

// SetEdges records id with its family and replaces its outgoing edges.
func (g *ReferenceGraph) SetEdges(id string, family profiles.FamilyName, edges []stores.Edge) {
	for _, old := range g.reverseAdjacencyList[id] {
		g.adjacencyList[old.TargetID] = slices.DeleteFunc(g.adjacencyList[old.TargetID], func(s string) bool { return s == id })
	}

	g.nodes[id] = family
	out := make([]stores.Edge, 0, len(edges))
	for _, e := range edges {
		e.SourceID = id
		out = append(out, e)
		if !slices.Contains(g.adjacencyList[e.TargetID], id) {
			g.adjacencyList[e.TargetID] = append(g.adjacencyList[e.TargetID], id)
		}
	}
	if len(out) == 0 {
		delete(g.reverseAdjacencyList, id)
	} else {
		g.reverseAdjacencyList[id] = out
	}
}

// Remove drops id and its outgoing edges. Callers must make sure nothing
// references id.
func (g *ReferenceGraph) Remove(id string) {
	g.SetEdges(id, "", nil)
	delete(g.nodes, id)
	delete(g.adjacencyList, id)
}

// Edges returns the outgoing edges of id.
func (g *ReferenceGraph) Edges(id string) []stores.Edge {
	return append([]stores.Edge(nil), g.reverseAdjacencyList[id]...)
}

// Referrers returns the IDs of the profiles that reference id directly.
func (g *ReferenceGraph) Referrers(id string) []string {
	out := append([]string(nil), g.adjacencyList[id]...)
	sort.Strings(out)
	return out
}

// Dependents returns every profile whose outline depends on id, directly
// or transitively, nearest first.
func (g *ReferenceGraph) Dependents(id string) []string {
	seen := map[string]bool{id: true}
	out := []string{}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		next := g.Referrers(current)
		for _, dep := range next {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}
	return out
}

// CyclePath returns the cycle that giving source an edge to target would
// close, as source -> target -> ... -> source, or nil if there is none.
// Source's current edges are ignored since a commit replaces them.
func (g *ReferenceGraph) CyclePath(source, target string) []string {
	if source == target {
		return []string{source, target}
	}

	visited := make(map[string]bool)
	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		visited[id] = true
		path = append(path, id)
		for _, e := range g.reverseAdjacencyList[id] {
			if e.TargetID == source {
				return append(path, source)
			}
			if !visited[e.TargetID] {
				if cycle := walk(e.TargetID, path); cycle != nil {
					return cycle
				}
			}
		}
		return nil
	}

	if cycle := walk(target, []string{source}); cycle != nil {
		return cycle
	}
	return nil
}

// findCycle uses depth-first search to detect circular references.
func (g *ReferenceGraph) findCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var visit func(id string, path []string) []string
	visit = func(id string, path []string) []string {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, e := range g.reverseAdjacencyList[id] {
			if !visited[e.TargetID] {
				if cycle := visit(e.TargetID, path); cycle != nil {
					return cycle
				}
			} else if recStack[e.TargetID] {
				for i, p := range path {
					if p == e.TargetID {
						return append(append([]string(nil), path[i:]...), e.TargetID)
					}
				}
			}
		}

		recStack[id] = false
		return nil
	}

	for _, id := range g.sortedNodes() {
		if !visited[id] {
			if cycle := visit(id, nil); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Levels groups profiles so that every profile sits one level above the
// deepest profile it references. Level 0 holds profiles with no references.
func (g *ReferenceGraph) Levels() [][]string {
	// Kahn's algorithm with level tracking
	inDegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		inDegree[id] = len(g.targets(id))
	}

	current := make([]string, 0)
	for _, id := range g.sortedNodes() {
		if inDegree[id] == 0 {
			current = append(current, id)
		}
	}

	levels := make([][]string, 0)
	for len(current) > 0 {
		levels = append(levels, current)
		next := make([]string, 0)
		for _, id := range current {
			for _, dep := range g.Referrers(id) {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Strings(next)
		current = next
	}
	return levels
}

// targets returns the distinct profiles id references.
func (g *ReferenceGraph) targets(id string) []string {
	out := []string{}
	for _, e := range g.reverseAdjacencyList[id] {
		if !slices.Contains(out, e.TargetID) {
			out = append(out, e.TargetID)
		}
	}
	return out
}

// ToDOT generates a DOT format representation of the graph for
// visualization. Arrows point from a referenced profile to its referrer.
func (g *ReferenceGraph) ToDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph ReferenceGraph {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n\n")

	// Group nodes by level for better visualization
	for level, ids := range g.Levels() {
		sb.WriteString(fmt.Sprintf("  subgraph cluster_level_%d {\n", level))
		sb.WriteString(fmt.Sprintf("    label=\"Level %d\";\n", level))
		sb.WriteString("    style=dashed;\n")

		for _, id := range ids {
			family := g.nodes[id]
			sb.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\\n%s\", fillcolor=\"%s\", style=\"filled,rounded\"];\n",
				id, id, family, getKindColor(family)))
		}

		sb.WriteString("  }\n\n")
	}

	for _, id := range g.sortedNodes() {
		for _, e := range g.reverseAdjacencyList[id] {
			sb.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\"];\n", e.TargetID, id, e.Role))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func (g *ReferenceGraph) sortedNodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// formatCycle formats a cycle path for error messages.
func formatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(cycle, " -> ")
}

// getKindColor returns a color for visualizing family kinds.
func getKindColor(family profiles.FamilyName) string {
	spec, ok := profiles.Lookup(family)
	if !ok {
		return "white"
	}
	switch spec.Kind {
	case profiles.KindParametric:
		return "lightblue"
	case profiles.KindArbitrary:
		return "lightgreen"
	case profiles.KindReferencing:
		return "lightyellow"
	default:
		return "white"
	}
}
