/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "plotslicer/internal/geom"

// Primitive is one input artwork element, already placed in machine
// coordinates. Z is the painter's-order index (higher masks lower); equal Z
// resolves in document order.
type Primitive interface {
	ZIndex() int
	Fill() Color
}

// FilledPath is a closed vector outline filled with a single colour. Subpaths
// nest into holes by containment parity.
type FilledPath struct {
	Path  geom.Path
	Color Color
	Z     int
}

func (f FilledPath) ZIndex() int { return f.Z }
func (f FilledPath) Fill() Color { return f.Color }

// StrokedPath is an open or closed path drawn with a constant-width pen
// stroke along its centerline.
type StrokedPath struct {
	Path    geom.Path
	WidthMM float64
	Color   Color
	Z       int
}

func (s StrokedPath) ZIndex() int { return s.Z }
func (s StrokedPath) Fill() Color { return s.Color }

// TextSpan is a run of text rendered as filled glyph outlines. Origin is the
// baseline start; SizeMM is the em size in machine units. Font names a
// family loaded into the font library; empty picks the library default.
type TextSpan struct {
	Text   string
	Font   string
	Origin geom.Pt
	SizeMM float64
	Color  Color
	Z      int
}

func (t TextSpan) ZIndex() int { return t.Z }
func (t TextSpan) Fill() Color { return t.Color }

// Outliner converts a text span into filled glyph outline paths. Implemented
// by the font library; resolvers treat a nil Outliner as "text unsupported".
type Outliner interface {
	Outline(span TextSpan) (geom.Path, error)
}
