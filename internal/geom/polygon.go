/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Ring is a closed loop of points. The closing edge from the last point back
// to the first is implicit; rings never store a duplicated endpoint.
type Ring []Pt

// Area returns the signed shoelace area (positive = counter-clockwise).
func (r Ring) Area() float64 {
	var area float64
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

// AbsArea returns the unsigned enclosed area.
func (r Ring) AbsArea() float64 { return math.Abs(r.Area()) }

// Bounds returns the ring's bounding box.
func (r Ring) Bounds() Rect { return Polyline(r).Bounds() }

// Centroid returns the area centroid of the ring, falling back to the mean
// of the points for degenerate rings.
func (r Ring) Centroid() Pt {
	var cx, cy, area float64
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		f := a.X*b.Y - b.X*a.Y
		cx += (a.X + b.X) * f
		cy += (a.Y + b.Y) * f
		area += f
	}
	if math.Abs(area) < Eps {
		var m Pt
		for _, p := range r {
			m = m.Add(p)
		}
		return m.Mul(1 / float64(max(n, 1)))
	}
	area /= 2
	return Pt{cx / (6 * area), cy / (6 * area)}
}

// Contains reports whether p lies inside the ring (even-odd ray cast).
// Points on the boundary may report either side.
func (r Ring) Contains(p Pt) bool {
	inside := false
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// ContainsRing reports whether every probe vertex of s lies inside r.
// Intended for nesting classification of non-crossing rings, where testing
// a single interior vertex is sufficient.
func (r Ring) ContainsRing(s Ring) bool {
	for _, p := range s {
		// Skip vertices shared with r; boundary points are ambiguous.
		shared := false
		for _, q := range r {
			if p.Near(q) {
				shared = true
				break
			}
		}
		if !shared {
			return r.Contains(p)
		}
	}
	return false
}

// Reverse returns the ring with opposite orientation.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Closed returns the ring as a polyline with the closing point appended,
// ready for drawing.
func (r Ring) Closed() Polyline {
	if len(r) == 0 {
		return nil
	}
	out := make(Polyline, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

// Simplify reduces ring vertices with Douglas-Peucker at the given tolerance.
// If simplification would degenerate the ring below 3 vertices the original
// is returned.
func (r Ring) Simplify(tol float64) Ring {
	if tol <= 0 || len(r) < 4 {
		return r
	}
	closed := r.Closed()
	simplified := closed.Simplify(tol)
	if len(simplified) < 4 { // 3 vertices + closing point
		return r
	}
	return Ring(simplified[:len(simplified)-1])
}

// Polygon is a simple polygon with zero or more holes. Holes lie strictly
// inside the outer ring and never touch its edge.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Area returns the enclosed area minus the hole areas.
func (p Polygon) Area() float64 {
	area := p.Outer.AbsArea()
	for _, h := range p.Holes {
		area -= h.AbsArea()
	}
	return area
}

// Bounds returns the bounding box of the outer ring.
func (p Polygon) Bounds() Rect { return p.Outer.Bounds() }

// Centroid returns the centroid of the outer ring. Good enough as a stable
// rotation pivot for hatch alignment; hole mass is ignored.
func (p Polygon) Centroid() Pt { return p.Outer.Centroid() }

// Contains reports whether pt is inside the polygon (outer minus holes).
func (p Polygon) Contains(pt Pt) bool {
	if !p.Outer.Contains(pt) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// Rings returns the outer ring followed by all holes.
func (p Polygon) Rings() []Ring {
	out := make([]Ring, 0, 1+len(p.Holes))
	out = append(out, p.Outer)
	out = append(out, p.Holes...)
	return out
}

// Transform returns the polygon with m applied to every point.
func (p Polygon) Transform(m Affine) Polygon {
	out := Polygon{Outer: Ring(Polyline(p.Outer).Transform(m))}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, Ring(Polyline(h).Transform(m)))
	}
	return out
}

// Simplify reduces all rings at the given tolerance.
func (p Polygon) Simplify(tol float64) Polygon {
	out := Polygon{Outer: p.Outer.Simplify(tol)}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, h.Simplify(tol))
	}
	return out
}
