/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "plotslicer/internal/geom"

// SourceKind tags how a planar region came to exist.
type SourceKind uint8

const (
	KindFill SourceKind = iota
	KindFilledStroke
	KindGlyph
)

func (k SourceKind) String() string {
	switch k {
	case KindFill:
		return "fill"
	case KindFilledStroke:
		return "filled-stroke"
	case KindGlyph:
		return "text-glyph"
	default:
		return "unknown"
	}
}

// Region is the uniform planar representation every fillable primitive
// resolves to: the occlusion-surviving area of one primitive, its fill
// colour, and its position in the document. Immutable after resolution.
type Region struct {
	Area  geom.PolySet
	Color Color
	Kind  SourceKind
	Z     int
	Seq   int // document index of the originating primitive
}

// Stroke is a thin stroked path kept as a direct centerline trace. It skips
// perimeter and infill planning entirely.
type Stroke struct {
	Lines   []geom.Polyline
	WidthMM float64
	Color   Color
	Z       int
	Seq     int
}
