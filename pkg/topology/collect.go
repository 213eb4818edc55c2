package topology

import "github.com/steelshape/steelshape/pkg/geometry"

// disjointSet is a union-find over primitive indices.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(i int) int {
	for ds.parent[i] != i {
		ds.parent[i] = ds.parent[ds.parent[i]]
		i = ds.parent[i]
	}
	return i
}

func (ds *disjointSet) union(a, b int) {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return
	}
	switch {
	case ds.rank[ra] < ds.rank[rb]:
		ds.parent[ra] = rb
	case ds.rank[ra] > ds.rank[rb]:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
}

// groupCurves partitions loose curves into connected components by endpoint
// coincidence. Components keep the input order of their first member.
func groupCurves(curves []Primitive, tol float64) [][]Primitive {
	ds := newDisjointSet(len(curves))
	for i := range curves {
		for j := i + 1; j < len(curves); j++ {
			if touches(curves[i], curves[j], tol) {
				ds.union(i, j)
			}
		}
	}

	index := make(map[int]int)
	var groups [][]Primitive
	for i, c := range curves {
		root := ds.find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], c)
	}
	return groups
}

func touches(a, b Primitive, tol float64) bool {
	for _, p := range []geometry.Point{a.Start(), a.End()} {
		if p.Coincident(b.Start(), tol) || p.Coincident(b.End(), tol) {
			return true
		}
	}
	return false
}

// chain orders a connected group head to tail, reversing primitives where
// needed. It returns false if some primitive cannot be reached by walking
// from the first one, which happens when the group branches.
func chain(group []Primitive, tol float64) ([]Primitive, bool) {
	if len(group) == 0 {
		return nil, true
	}
	used := make([]bool, len(group))
	out := []Primitive{group[0]}
	used[0] = true
	end := group[0].End()

	for len(out) < len(group) {
		next := -1
		for i, p := range group {
			if used[i] {
				continue
			}
			if p.Start().Coincident(end, tol) {
				next = i
				break
			}
			if p.End().Coincident(end, tol) {
				group[i] = p.Reversed()
				next = i
				break
			}
		}
		if next < 0 {
			// The walk may have started mid-chain; try extending backwards.
			head := out[0].Start()
			for i, p := range group {
				if used[i] {
					continue
				}
				if p.End().Coincident(head, tol) {
					next = i
					break
				}
				if p.Start().Coincident(head, tol) {
					group[i] = p.Reversed()
					next = i
					break
				}
			}
			if next < 0 {
				return out, false
			}
			used[next] = true
			out = append([]Primitive{group[next]}, out...)
			continue
		}
		used[next] = true
		out = append(out, group[next])
		end = group[next].End()
	}
	return out, true
}

// isClosedChain reports whether consecutive primitives meet and the last
// one returns to the start of the first.
func isClosedChain(prims []Primitive, tol float64) (bool, string) {
	if len(prims) == 0 {
		return false, "loop has no curves"
	}
	for i := 0; i+1 < len(prims); i++ {
		if !prims[i].End().Coincident(prims[i+1].Start(), tol) {
			return false, "gap between consecutive curves"
		}
	}
	if !prims[len(prims)-1].End().Coincident(prims[0].Start(), tol) {
		return false, "last curve does not return to the start"
	}
	return true, ""
}

// collected is one candidate loop after stage 1.
type collected struct {
	boundary   Boundary
	primitives []Primitive
}

// collectLoops performs stage 1. Tagged loops come first in input order,
// followed by loops chained from loose curves.
func collectLoops(n CurveNetwork, tol float64) ([]collected, error) {
	var loops []collected
	for _, l := range n.Loops {
		if len(l.Primitives) == 0 {
			continue
		}
		loops = append(loops, collected{boundary: l.Boundary, primitives: l.Primitives})
	}
	for _, g := range groupCurves(n.Curves, tol) {
		ordered, ok := chain(append([]Primitive(nil), g...), tol)
		if !ok {
			return nil, newError(ReasonNotClosed, len(loops), "curves do not form a single chain")
		}
		loops = append(loops, collected{boundary: BoundaryNone, primitives: ordered})
	}

	for i, l := range loops {
		if ok, why := isClosedChain(l.primitives, tol); !ok {
			return nil, newError(ReasonNotClosed, i, "%s", why)
		}
	}
	return loops, nil
}
