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

// Spacing converts a density into a hatch line spacing. Density clamps to
// [minDensity, maxDensity] first, so the spacing stays within
// [base/max, base/min]; denser means tighter lines.
func Spacing(baseMM, density, minDensity, maxDensity float64) float64 {
	d := math.Max(minDensity, math.Min(maxDensity, density))
	return baseMM / d
}

// PlanInfill hatches area with parallel lines at every configured angle and
// chains the resulting segments into one toolpath with greedy
// nearest-endpoint travel. Segments from all angles share one pool, so the
// chain crosses orientations whenever that is the shorter hop. The input
// area is the post-perimeter region (already inset); holes are respected by
// even-odd scan pairing.
func PlanInfill(area geom.PolySet, spacingMM float64, anglesDeg []float64) ToolPath {
	if area.Empty() || spacingMM <= 0 || len(anglesDeg) == 0 {
		return ToolPath{}
	}
	pivot := area.Centroid()
	var segs []hatchSeg
	for _, deg := range anglesDeg {
		rad := deg * math.Pi / 180
		// rotate region so the hatch direction is horizontal
		aligned := area.Transform(geom.RotateAround(-rad, pivot))
		back := geom.RotateAround(rad, pivot)
		b := aligned.Bounds()
		for y := b.MinY + spacingMM/2; y < b.MaxY; y += spacingMM {
			xs := geom.ScanlineCrossings(aligned, y)
			for i := 0; i+1 < len(xs); i += 2 {
				if xs[i+1]-xs[i] < geom.Eps {
					continue
				}
				segs = append(segs, hatchSeg{
					a: back.Apply(geom.Pt{X: xs[i], Y: y}),
					b: back.Apply(geom.Pt{X: xs[i+1], Y: y}),
				})
			}
		}
	}
	return chainSegments(segs, spacingMM)
}

type hatchSeg struct {
	a, b geom.Pt
	used bool
}

// endpointGrid is a uniform spatial hash over segment endpoints. Cells map
// to segment indices; each segment registers both endpoints.
type endpointGrid struct {
	cell float64
	m    map[[2]int][]int
}

func newEndpointGrid(segs []hatchSeg, cell float64) *endpointGrid {
	g := &endpointGrid{cell: cell, m: make(map[[2]int][]int, len(segs)*2)}
	for i, s := range segs {
		g.add(s.a, i)
		g.add(s.b, i)
	}
	return g
}

func (g *endpointGrid) key(p geom.Pt) [2]int {
	return [2]int{int(math.Floor(p.X / g.cell)), int(math.Floor(p.Y / g.cell))}
}

func (g *endpointGrid) add(p geom.Pt, idx int) {
	k := g.key(p)
	g.m[k] = append(g.m[k], idx)
}

// nearest finds the unused segment with an endpoint closest to p, expanding
// the cell search ring until a hit is confirmed closer than the next ring
// could offer. Equal distances keep the lower insertion index.
func (g *endpointGrid) nearest(p geom.Pt, segs []hatchSeg) (best int, fromB bool) {
	base := g.key(p)
	best = -1
	bestDist := math.Inf(1)
	consider := func(idx int) {
		s := &segs[idx]
		if s.used {
			return
		}
		if d := s.a.Dist(p); d < bestDist || (d == bestDist && idx < best) {
			best, bestDist, fromB = idx, d, false
		}
		if d := s.b.Dist(p); d < bestDist || (d == bestDist && idx < best) {
			best, bestDist, fromB = idx, d, true
		}
	}
	maxRing := 1
	for k := range g.m {
		dr := max(abs(k[0]-base[0]), abs(k[1]-base[1]))
		if dr > maxRing {
			maxRing = dr
		}
	}
	for ring := 0; ring <= maxRing; ring++ {
		for dx := -ring; dx <= ring; dx++ {
			for dy := -ring; dy <= ring; dy++ {
				if max(abs(dx), abs(dy)) != ring {
					continue
				}
				for _, idx := range g.m[[2]int{base[0] + dx, base[1] + dy}] {
					consider(idx)
				}
			}
		}
		// anything in a farther ring is at least (ring) cells away
		if best >= 0 && bestDist <= float64(ring)*g.cell {
			break
		}
	}
	return best, fromB
}

// chainSegments orders hatch segments by repeatedly hopping to the nearest
// remaining endpoint. Hops between coincident endpoints produce no travel
// segment at all.
func chainSegments(segs []hatchSeg, cellMM float64) ToolPath {
	var tp ToolPath
	if len(segs) == 0 {
		return tp
	}
	if cellMM <= 0 {
		cellMM = 1
	}
	grid := newEndpointGrid(segs, cellMM)

	segs[0].used = true
	tp.appendDraw(geom.Polyline{segs[0].a, segs[0].b})
	for done := 1; done < len(segs); done++ {
		idx, fromB := grid.nearest(tp.End(), segs)
		if idx < 0 {
			break
		}
		s := &segs[idx]
		s.used = true
		start, end := s.a, s.b
		if fromB {
			start, end = s.b, s.a
		}
		tp.appendTravelTo(start)
		tp.appendDrawTo(end)
	}
	return tp
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
