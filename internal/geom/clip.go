/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"sort"

	polyclip "github.com/ctessum/polyclip-go"
)

// PolySet is a collection of disjoint polygons-with-holes representing a
// planar region. The zero value is the empty region.
type PolySet []Polygon

// minRingArea drops clipper slivers below this area (mm²).
const minRingArea = 1e-9

// Empty reports whether the set encloses no area.
func (ps PolySet) Empty() bool {
	for _, p := range ps {
		if p.Area() > minRingArea {
			return false
		}
	}
	return true
}

// Area returns the total enclosed area.
func (ps PolySet) Area() float64 {
	var a float64
	for _, p := range ps {
		a += p.Area()
	}
	return a
}

// Bounds returns the bounding box of the whole set.
func (ps PolySet) Bounds() Rect {
	if len(ps) == 0 {
		return Rect{}
	}
	r := ps[0].Bounds()
	for _, p := range ps[1:] {
		r = r.Union(p.Bounds())
	}
	return r
}

// Centroid returns the area-weighted centroid of the set. Holes subtract
// their share through the signed polygon areas.
func (ps PolySet) Centroid() Pt {
	var cx, cy, total float64
	for _, p := range ps {
		a := p.Area()
		c := p.Centroid()
		cx += c.X * a
		cy += c.Y * a
		total += a
	}
	if total < Eps {
		b := ps.Bounds()
		return Pt{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
	}
	return Pt{X: cx / total, Y: cy / total}
}

// Contains reports whether pt is inside any polygon of the set.
func (ps PolySet) Contains(pt Pt) bool {
	for _, p := range ps {
		if p.Contains(pt) {
			return true
		}
	}
	return false
}

// Transform applies m to every polygon.
func (ps PolySet) Transform(m Affine) PolySet {
	out := make(PolySet, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Transform(m))
	}
	return out
}

func toClip(ps PolySet) polyclip.Polygon {
	var out polyclip.Polygon
	for _, p := range ps {
		for _, r := range p.Rings() {
			c := make(polyclip.Contour, 0, len(r))
			for _, pt := range r {
				c = append(c, polyclip.Point{X: pt.X, Y: pt.Y})
			}
			out = append(out, c)
		}
	}
	return out
}

func fromClip(cp polyclip.Polygon) PolySet {
	rings := make([]Ring, 0, len(cp))
	for _, c := range cp {
		if len(c) < 3 {
			continue
		}
		r := make(Ring, 0, len(c))
		for _, pt := range c {
			r = append(r, Pt{pt.X, pt.Y})
		}
		if r.AbsArea() > minRingArea {
			rings = append(rings, r)
		}
	}
	return AssembleRings(rings)
}

// AssembleRings groups loose closed rings into polygons with holes using
// even-odd containment parity: rings are sorted by descending area, and a
// ring contained in an even number of previously placed rings starts a new
// shell while odd-depth rings become holes of their innermost shell.
func AssembleRings(rings []Ring) PolySet {
	if len(rings) == 0 {
		return nil
	}
	sorted := make([]Ring, len(rings))
	copy(sorted, rings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AbsArea() > sorted[j].AbsArea()
	})

	type placed struct {
		ring  Ring
		shell int // index into out, -1 for holes
	}
	var out PolySet
	var seen []placed
	for _, r := range sorted {
		depth := 0
		innermost := -1 // shell index of the smallest containing shell
		innermostArea := 0.0
		for _, pr := range seen {
			if pr.ring.ContainsRing(r) {
				depth++
				if pr.shell >= 0 {
					a := pr.ring.AbsArea()
					if innermost < 0 || a < innermostArea {
						innermost, innermostArea = pr.shell, a
					}
				}
			}
		}
		if depth%2 == 0 {
			out = append(out, Polygon{Outer: r})
			seen = append(seen, placed{ring: r, shell: len(out) - 1})
		} else {
			if innermost >= 0 {
				out[innermost].Holes = append(out[innermost].Holes, r)
			}
			seen = append(seen, placed{ring: r, shell: -1})
		}
	}
	return out
}

func construct(op polyclip.Op, a, b PolySet) PolySet {
	if len(a) == 0 {
		if op == polyclip.UNION {
			return b
		}
		return nil
	}
	if len(b) == 0 {
		if op == polyclip.INTERSECTION {
			return nil
		}
		return a
	}
	return fromClip(toClip(a).Construct(op, toClip(b)))
}

// Union returns the region covered by a or b.
func Union(a, b PolySet) PolySet { return construct(polyclip.UNION, a, b) }

// Difference returns the region covered by a but not b.
func Difference(a, b PolySet) PolySet { return construct(polyclip.DIFFERENCE, a, b) }

// Intersection returns the region covered by both a and b.
func Intersection(a, b PolySet) PolySet { return construct(polyclip.INTERSECTION, a, b) }

// UnionAll merges many sets with a balanced pairwise reduction, which keeps
// intermediate contour counts low compared to a linear fold.
func UnionAll(sets []PolySet) PolySet {
	switch len(sets) {
	case 0:
		return nil
	case 1:
		return sets[0]
	}
	mid := len(sets) / 2
	return Union(UnionAll(sets[:mid]), UnionAll(sets[mid:]))
}
