/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

import (
	"math"

	"plotslicer/internal/geom"
)

// PerimeterResult carries the boundary passes for one region. Centerline is
// set when the region was too narrow for nested loops and a single skeleton
// trace was emitted instead.
type PerimeterResult struct {
	Paths      []ToolPath
	Centerline bool
}

// PlanPerimeters produces count nested loops inset from every boundary of
// area by thickness × {0.5, 1.5, 2.5, …}. Loops that belong to the same
// boundary are glided together: consecutive loops connect at their nearest
// vertices with a short pen-down move instead of a pen lift. A region whose
// minimum local width is below one pen thickness gets a single centerline
// trace.
func PlanPerimeters(area geom.PolySet, thicknessMM float64, count int) PerimeterResult {
	if area.Empty() || thicknessMM <= 0 || count < 1 {
		return PerimeterResult{}
	}
	first := geom.Erode(area, thicknessMM/2)
	if first.Empty() {
		return PerimeterResult{Paths: centerlineTrace(area, thicknessMM), Centerline: true}
	}

	depths := [][]geom.Ring{ringsOf(first)}
	for i := 1; i < count; i++ {
		inset := geom.Erode(area, thicknessMM*(float64(i)+0.5))
		if inset.Empty() {
			break
		}
		depths = append(depths, ringsOf(inset))
	}

	type chain struct {
		tp    ToolPath
		tail  geom.Ring
		depth int
		at    geom.Pt // pen position after the tail loop closed
	}
	var chains []*chain
	for _, r := range depths[0] {
		c := &chain{tail: r}
		c.at = r[0]
		c.tp.appendDraw(loopFrom(r, 0))
		chains = append(chains, c)
	}
	for depth := 1; depth < len(depths); depth++ {
		for _, r := range depths[depth] {
			var best *chain
			bestDist := math.Inf(1)
			for _, c := range chains {
				if c.depth != depth-1 {
					continue
				}
				if d := ringDist(c.tail, r); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if best == nil {
				// isolated deeper loop, give it its own pass
				c := &chain{tail: r, depth: depth, at: r[0]}
				c.tp.appendDraw(loopFrom(r, 0))
				chains = append(chains, c)
				continue
			}
			// glide: pen stays down across the hop to the next loop
			entry := nearestVertex(r, best.at)
			best.tp.appendDrawTo(r[entry])
			best.tp.appendDraw(loopFrom(r, entry))
			best.tail = r
			best.depth = depth
			best.at = r[entry]
		}
	}

	var res PerimeterResult
	for _, c := range chains {
		if !c.tp.Empty() {
			res.Paths = append(res.Paths, c.tp)
		}
	}
	return res
}

// InfillArea returns the region remaining for hatching after the perimeter
// passes: the input inset by count × thickness.
func InfillArea(area geom.PolySet, thicknessMM float64, count int) geom.PolySet {
	return geom.Erode(area, thicknessMM*float64(count))
}

// centerlineTrace approximates the skeleton of a narrow region by the
// deepest erosion that still leaves material, found by bisection below half
// the pen thickness.
func centerlineTrace(area geom.PolySet, thicknessMM float64) []ToolPath {
	lo, hi := 0.0, thicknessMM/2
	best := area
	for i := 0; i < 10; i++ {
		mid := (lo + hi) / 2
		if mid <= geom.Eps {
			break
		}
		if in := geom.Erode(area, mid); !in.Empty() {
			best = in
			lo = mid
		} else {
			hi = mid
		}
	}
	var paths []ToolPath
	for _, r := range ringsOf(best) {
		tp := FromPolyline(loopFrom(r, 0))
		if !tp.Empty() {
			paths = append(paths, tp)
		}
	}
	return paths
}

func ringsOf(ps geom.PolySet) []geom.Ring {
	var rings []geom.Ring
	for _, p := range ps {
		rings = append(rings, p.Rings()...)
	}
	return rings
}

// loopFrom returns the closed traversal of r starting and ending at index k.
func loopFrom(r geom.Ring, k int) geom.Polyline {
	n := len(r)
	out := make(geom.Polyline, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, r[(k+i)%n])
	}
	return out
}

func nearestVertex(r geom.Ring, p geom.Pt) int {
	best, bestDist := 0, math.Inf(1)
	for i, v := range r {
		if d := v.Dist(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func ringDist(a, b geom.Ring) float64 {
	best := math.Inf(1)
	for _, p := range a {
		for _, q := range b {
			if d := p.Dist(q); d < best {
				best = d
			}
		}
	}
	return best
}
