/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "plotslicer/internal/geom"

// Classification is the stroke-handling decision.
type Classification uint8

const (
	// ConvertToRegion inflates the centerline into a filled band that gets
	// perimeters and infill like any other region.
	ConvertToRegion Classification = iota
	// TraceDirectly keeps the centerline as a single drawn path.
	TraceDirectly
)

// ClassifyStroke applies the width threshold. A width exactly at the
// threshold converts; only strictly thinner strokes are traced.
func ClassifyStroke(widthMM, thresholdMM float64) Classification {
	if widthMM >= thresholdMM {
		return ConvertToRegion
	}
	return TraceDirectly
}

// InflateStroke buffers each centerline by half the stroke width into the
// filled band a thick stroke occupies on paper.
func InflateStroke(lines []geom.Polyline, widthMM float64) geom.PolySet {
	var parts []geom.PolySet
	for _, ln := range lines {
		if b := geom.BufferPolyline(ln, widthMM/2, geom.CapRound); !b.Empty() {
			parts = append(parts, b)
		}
	}
	return geom.UnionAll(parts)
}

// PassesMinFill reports whether an area is wide enough to fill. Mode "min"
// requires the minimum local width to reach minWidth (erosion by half the
// width must leave something); mode "max" requires only the longest extent
// of the minimum rotated bounding box to reach it.
func PassesMinFill(ps geom.PolySet, minWidthMM float64, mode string) bool {
	if ps.Empty() {
		return false
	}
	if minWidthMM <= 0 {
		return true
	}
	if mode == "max" {
		var pts []geom.Pt
		for _, p := range ps {
			pts = append(pts, p.Outer...)
		}
		_, maxDim := geom.MinMaxRotatedDims(pts)
		return maxDim >= minWidthMM
	}
	return !geom.Erode(ps, minWidthMM/2).Empty()
}
