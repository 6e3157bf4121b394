/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package text

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"plotslicer/internal/geom"
	"plotslicer/internal/shape"
)

func loadedLibrary(t *testing.T) *Library {
	t.Helper()
	lib := NewLibrary()
	if err := lib.Register("go", goregular.TTF); err != nil {
		t.Fatalf("register: %v", err)
	}
	return lib
}

func TestOutlineProducesFilledGlyphs(t *testing.T) {
	lib := loadedLibrary(t)
	path, err := lib.Outline(shape.TextSpan{Text: "Av", SizeMM: 10, Origin: geom.Pt{X: 5, Y: 5}})
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	rings := path.FlattenRings(geom.FlattenOpts{Tolerance: 0.2})
	if len(rings) < 2 {
		t.Fatalf("got %d contours, want at least one per glyph", len(rings))
	}
	area := geom.AssembleRings(rings)
	if area.Empty() || area.Area() <= 0 {
		t.Fatalf("glyph area = %v, want positive", area.Area())
	}
	b := area.Bounds()
	if b.MinX < 4.9 {
		t.Fatalf("outline starts at x=%v, want near origin 5", b.MinX)
	}
	if b.W() <= 5 {
		t.Fatalf("two glyphs at 10mm span only %vmm, advance missing", b.W())
	}
	// baseline at y=5: ascenders go up in a y-up frame
	if b.MaxY <= 5 {
		t.Fatalf("glyphs extend to y=%v, want above the baseline", b.MaxY)
	}
}

func TestOutlineDefaultAndUnknownFamily(t *testing.T) {
	lib := loadedLibrary(t)
	if _, err := lib.Outline(shape.TextSpan{Text: "x", SizeMM: 5}); err != nil {
		t.Fatalf("default family: %v", err)
	}
	if _, err := lib.Outline(shape.TextSpan{Text: "x", Font: "nope", SizeMM: 5}); err == nil {
		t.Fatalf("expected error for unknown family")
	}
	if _, err := NewLibrary().Outline(shape.TextSpan{Text: "x", SizeMM: 5}); err == nil {
		t.Fatalf("expected error with no fonts loaded")
	}
}

func TestOutlineRejectsUnsupportedGlyph(t *testing.T) {
	lib := loadedLibrary(t)
	if _, err := lib.Outline(shape.TextSpan{Text: "a\U0001F600b", SizeMM: 5}); err == nil {
		t.Fatalf("expected error for glyph outside font coverage")
	}
}

func TestOutlineRejectsBadSize(t *testing.T) {
	lib := loadedLibrary(t)
	if _, err := lib.Outline(shape.TextSpan{Text: "x", SizeMM: 0}); err == nil {
		t.Fatalf("expected error for zero size")
	}
}
