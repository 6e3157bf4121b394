/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "sort"

// ScanlineCrossings collects the sorted x coordinates where the horizontal
// line at y crosses the boundary of ps. The half-open vertex rule (a.Y > y
// differing from b.Y > y) counts each vertex crossing once, so consecutive
// pairs bound interior spans under the even-odd rule.
func ScanlineCrossings(ps PolySet, y float64) []float64 {
	var xs []float64
	cross := func(r Ring) {
		n := len(r)
		for i := 0; i < n; i++ {
			a, b := r[i], r[(i+1)%n]
			if (a.Y > y) != (b.Y > y) {
				t := (y - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
	}
	for _, poly := range ps {
		cross(poly.Outer)
		for _, h := range poly.Holes {
			cross(h)
		}
	}
	sort.Float64s(xs)
	return xs
}
