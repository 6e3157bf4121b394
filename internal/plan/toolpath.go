/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

import "plotslicer/internal/geom"

// Segment is one continuous motion between two points, pen down (draw) or
// pen up (travel).
type Segment struct {
	A, B   geom.Pt
	Travel bool
}

// Length returns the segment's Euclidean length.
func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// ToolPath is the ordered motion for one region or stroke. Segments connect:
// each segment starts where the previous one ended.
type ToolPath struct {
	Segs []Segment
}

// Empty reports whether the path holds no segments.
func (tp *ToolPath) Empty() bool { return tp == nil || len(tp.Segs) == 0 }

// Start returns the first point of the path.
func (tp *ToolPath) Start() geom.Pt {
	if tp.Empty() {
		return geom.Pt{}
	}
	return tp.Segs[0].A
}

// End returns the last point of the path.
func (tp *ToolPath) End() geom.Pt {
	if tp.Empty() {
		return geom.Pt{}
	}
	return tp.Segs[len(tp.Segs)-1].B
}

// DrawLength sums pen-down motion.
func (tp *ToolPath) DrawLength() float64 {
	var sum float64
	for _, s := range tp.Segs {
		if !s.Travel {
			sum += s.Length()
		}
	}
	return sum
}

// TravelLength sums pen-up motion inside the path.
func (tp *ToolPath) TravelLength() float64 {
	var sum float64
	for _, s := range tp.Segs {
		if s.Travel {
			sum += s.Length()
		}
	}
	return sum
}

// appendDraw extends the path with pen-down segments along pl. The caller
// guarantees pl starts at the path's current end (or the path is empty).
func (tp *ToolPath) appendDraw(pl geom.Polyline) {
	for i := 0; i+1 < len(pl); i++ {
		if pl[i].Near(pl[i+1]) {
			continue
		}
		tp.Segs = append(tp.Segs, Segment{A: pl[i], B: pl[i+1]})
	}
}

// appendDrawTo adds one pen-down segment from the current end.
func (tp *ToolPath) appendDrawTo(p geom.Pt) {
	end := tp.End()
	if !tp.Empty() && end.Near(p) {
		return
	}
	tp.Segs = append(tp.Segs, Segment{A: end, B: p})
}

// appendTravelTo adds a pen-up move from the current end, skipping
// zero-length hops.
func (tp *ToolPath) appendTravelTo(p geom.Pt) {
	end := tp.End()
	if tp.Empty() || end.Near(p) {
		return
	}
	tp.Segs = append(tp.Segs, Segment{A: end, B: p, Travel: true})
}

// FromPolyline builds a pure pen-down path tracing pl.
func FromPolyline(pl geom.Polyline) ToolPath {
	var tp ToolPath
	tp.appendDraw(pl)
	return tp
}

// TracePaths converts direct stroke centerlines, one path per polyline.
func TracePaths(lines []geom.Polyline) []ToolPath {
	var out []ToolPath
	for _, ln := range lines {
		tp := FromPolyline(ln)
		if !tp.Empty() {
			out = append(out, tp)
		}
	}
	return out
}
