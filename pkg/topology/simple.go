package topology

import (
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// checkSimple rejects loops that pinch or cross themselves and loops that
// touch each other. Either way the network encloses more than one region.
func checkSimple(loops []LoopInfo, tol float64) *TopologyError {
	rings := make([][]geometry.Point, len(loops))
	for i, l := range loops {
		rings[i] = ring(l.flat, tol)
		if err := selfContact(rings[i], tol); err != nil {
			err.Loop = i
			return err
		}
	}
	for i := range rings {
		for j := i + 1; j < len(rings); j++ {
			if !rangesMeet(loops[i].Range, loops[j].Range, tol) {
				continue
			}
			if ringsMeet(rings[i], rings[j], tol) {
				return newError(ReasonMultipleRegions, j, "loops %d and %d touch or cross", i, j)
			}
		}
	}
	return nil
}

// ring returns the flattened vertices of a closed loop without repeated
// neighbours and without the closing vertex.
func ring(flat []geometry.Point, tol float64) []geometry.Point {
	out := make([]geometry.Point, 0, len(flat))
	for _, p := range flat {
		if len(out) > 0 && p.Coincident(out[len(out)-1], tol) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Coincident(out[0], tol) {
		out = out[:len(out)-1]
	}
	return out
}

func selfContact(r []geometry.Point, tol float64) *TopologyError {
	n := len(r)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r[i].Coincident(r[j], tol) {
				return newError(ReasonMultipleRegions, -1, "loop passes through (%g, %g) twice", r[i].X, r[i].Y)
			}
		}
	}
	if n < 4 {
		return nil
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsMeet(r[i], r[(i+1)%n], r[j], r[(j+1)%n], tol) {
				return newError(ReasonMultipleRegions, -1, "edges %d and %d of the loop cross", i, j)
			}
		}
	}
	return nil
}

func ringsMeet(a, b []geometry.Point, tol float64) bool {
	for i := range a {
		for j := range b {
			if segmentsMeet(a[i], a[(i+1)%len(a)], b[j], b[(j+1)%len(b)], tol) {
				return true
			}
		}
	}
	return false
}

func rangesMeet(a, b geometry.Range, tol float64) bool {
	return a.Low.X <= b.High.X+tol && b.Low.X <= a.High.X+tol &&
		a.Low.Y <= b.High.Y+tol && b.Low.Y <= a.High.Y+tol
}

// segmentsMeet reports whether segments ab and cd cross, or come within tol
// of each other at an endpoint.
func segmentsMeet(a, b, c, d geometry.Point, tol float64) bool {
	d1, d2 := orient(a, b, c), orient(a, b, d)
	d3, d4 := orient(c, d, a), orient(c, d, b)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return segmentDistance(c, a, b) <= tol || segmentDistance(d, a, b) <= tol ||
		segmentDistance(a, c, d) <= tol || segmentDistance(b, c, d) <= tol
}

// orient is the z component of (b-a)×(c-a).
func orient(a, b, c geometry.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// segmentDistance is the xy distance from p to segment ab.
func segmentDistance(p, a, b geometry.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = math.Max(0, math.Min(1, ((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2))
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
