/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"sort"
)

// ConvexHull returns the convex hull of pts in counter-clockwise order
// (Andrew's monotone chain). Collinear points are dropped.
func ConvexHull(pts []Pt) []Pt {
	if len(pts) < 3 {
		out := make([]Pt, len(pts))
		copy(out, pts)
		return out
	}
	sorted := make([]Pt, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var hull []Pt
	// lower chain, then upper chain
	for _, p := range sorted {
		for len(hull) >= 2 && cross3(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross3(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func cross3(o, a, b Pt) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// MinMaxRotatedDims returns the smallest and largest side observed over all
// minimum-area bounding rectangles aligned to hull edges (rotating calipers).
// The min dimension is the region's narrowest feature width when the region
// is convex-ish; the max dimension is its longest extent.
func MinMaxRotatedDims(pts []Pt) (minDim, maxDim float64) {
	hull := ConvexHull(pts)
	if len(hull) == 0 {
		return 0, 0
	}
	if len(hull) == 1 {
		return 0, 0
	}
	if len(hull) == 2 {
		return 0, hull[0].Dist(hull[1])
	}

	minDim = math.Inf(1)
	maxDim = 0
	n := len(hull)
	for i := 0; i < n; i++ {
		edge := hull[(i+1)%n].Sub(hull[i])
		ln := edge.Norm()
		if ln < Eps {
			continue
		}
		u := edge.Mul(1 / ln) // edge direction
		v := u.Perp()         // edge normal
		loU, hiU := math.Inf(1), math.Inf(-1)
		loV, hiV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			du := p.Dot(u)
			dv := p.Dot(v)
			loU = math.Min(loU, du)
			hiU = math.Max(hiU, du)
			loV = math.Min(loV, dv)
			hiV = math.Max(hiV, dv)
		}
		w, h := hiU-loU, hiV-loV
		side := math.Min(w, h)
		long := math.Max(w, h)
		if side < minDim {
			minDim = side
		}
		if long > maxDim {
			maxDim = long
		}
	}
	if math.IsInf(minDim, 1) {
		minDim = 0
	}
	return minDim, maxDim
}
