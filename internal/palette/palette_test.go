/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package palette

import (
	"math"
	"testing"

	"plotslicer/internal/config"
	"plotslicer/internal/shape"
)

func colorSettings(colors ...string) config.Settings {
	cfg := config.Defaults()
	cfg.Palette.ColorMode = true
	cfg.Palette.Colors = colors
	return cfg
}

func TestNewResolverRejectsEmptyPalette(t *testing.T) {
	cfg := config.Defaults()
	cfg.Palette.ColorMode = true
	if _, err := NewResolver(cfg); err == nil {
		t.Fatalf("expected error for empty palette in color mode")
	}
}

func TestDensityMapping(t *testing.T) {
	r, err := NewResolver(config.Defaults())
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	// defaults: min 0.1, max 0.9
	if d := r.Density(shape.Color{R: 0, G: 0, B: 0}); math.Abs(d-0.9) > 1e-9 {
		t.Fatalf("black density = %v, want 0.9", d)
	}
	if d := r.Density(shape.Color{R: 255, G: 255, B: 255}); math.Abs(d-0.1) > 1e-9 {
		t.Fatalf("white density = %v, want 0.1", d)
	}
	gray := r.Density(shape.Color{R: 128, G: 128, B: 128})
	if gray <= 0.1 || gray >= 0.9 {
		t.Fatalf("mid gray density = %v, want strictly inside [0.1, 0.9]", gray)
	}
}

func TestNearestEuclidean(t *testing.T) {
	r, err := NewResolver(colorSettings("#000000", "#ff0000"))
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	idx, c := r.Nearest(shape.Color{R: 0x11, G: 0, B: 0})
	if idx != 0 || c != (shape.Color{R: 0, G: 0, B: 0}) {
		t.Fatalf("#110000 resolved to index %d (%v), want #000000", idx, c.Hex())
	}
	idx, _ = r.Nearest(shape.Color{R: 0xee, G: 0, B: 0})
	if idx != 1 {
		t.Fatalf("#ee0000 resolved to index %d, want red", idx)
	}
}

func TestNearestGrayscaleSubPalette(t *testing.T) {
	// a dark red is closer to black in RGB, but a near-neutral gray must
	// match within the grayscale entries by luminance
	r, err := NewResolver(colorSettings("#202020", "#e0e0e0", "#ff0000"))
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	idx, _ := r.Nearest(shape.Color{R: 200, G: 200, B: 205})
	if idx != 1 {
		t.Fatalf("light gray resolved to index %d, want #e0e0e0", idx)
	}
	idx, _ = r.Nearest(shape.Color{R: 30, G: 30, B: 30})
	if idx != 0 {
		t.Fatalf("dark gray resolved to index %d, want #202020", idx)
	}
	// saturated input ignores the grayscale bucket
	idx, _ = r.Nearest(shape.Color{R: 250, G: 10, B: 10})
	if idx != 2 {
		t.Fatalf("red resolved to index %d, want #ff0000", idx)
	}
}

func TestNearestTieKeepsFirstEntry(t *testing.T) {
	r, err := NewResolver(colorSettings("#ff0000", "#0000ff"))
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	// equidistant between the two entries
	idx, _ := r.Nearest(shape.Color{R: 128, G: 0, B: 128})
	if idx != 0 {
		t.Fatalf("tie resolved to index %d, want first entry", idx)
	}
}
