/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package palette assigns each region either a hatch density (monochrome
// mode) or the nearest configured pen colour (colour mode).
package palette

import (
	"errors"
	"fmt"
	"math"

	"plotslicer/internal/config"
	"plotslicer/internal/shape"
)

// graySaturation is the HSV saturation below which a colour counts as
// near-neutral and matches against the grayscale sub-palette by luminance
// instead of RGB distance.
const graySaturation = 0.08

// Resolver maps region fill colours onto the run's palette and density range.
type Resolver struct {
	colors     []shape.Color
	grays      []int // indices of near-neutral palette entries
	minDensity float64
	maxDensity float64
	colorMode  bool
}

// NewResolver builds a resolver from validated settings. Colour mode with an
// empty palette is a fatal configuration defect; it is reported here so the
// job aborts before any geometry work.
func NewResolver(cfg config.Settings) (*Resolver, error) {
	r := &Resolver{
		minDensity: cfg.Infill.MinDensity,
		maxDensity: cfg.Infill.MaxDensity,
		colorMode:  cfg.Palette.ColorMode,
	}
	if !cfg.Palette.ColorMode {
		return r, nil
	}
	if len(cfg.Palette.Colors) == 0 {
		return nil, errors.New("color mode enabled but palette defines no colors")
	}
	for _, hex := range cfg.Palette.Colors {
		c, err := shape.ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		if c.Saturation() <= graySaturation {
			r.grays = append(r.grays, len(r.colors))
		}
		r.colors = append(r.colors, c)
	}
	return r, nil
}

// ColorMode reports whether the resolver assigns palette colours.
func (r *Resolver) ColorMode() bool { return r.colorMode }

// Colors returns the parsed palette in configured order.
func (r *Resolver) Colors() []shape.Color { return r.colors }

// Density maps a fill colour to a hatch density: darker fills hatch denser.
// The result always lands in [minDensity, maxDensity], so faint fills keep a
// visible minimum and black saturates at the maximum.
func (r *Resolver) Density(c shape.Color) float64 {
	d := r.minDensity + (1-c.Luminance())*(r.maxDensity-r.minDensity)
	return math.Max(r.minDensity, math.Min(r.maxDensity, d))
}

// Nearest returns the palette index and colour closest to c. Near-neutral
// input matches the grayscale sub-palette by luminance when one exists;
// everything else uses Euclidean RGB distance. Ties keep the first palette
// entry.
func (r *Resolver) Nearest(c shape.Color) (int, shape.Color) {
	if len(r.colors) == 0 {
		return -1, shape.Color{}
	}
	if c.Saturation() <= graySaturation && len(r.grays) > 0 {
		best := r.grays[0]
		bestDiff := math.Abs(c.Luminance() - r.colors[best].Luminance())
		for _, idx := range r.grays[1:] {
			if d := math.Abs(c.Luminance() - r.colors[idx].Luminance()); d < bestDiff {
				best, bestDiff = idx, d
			}
		}
		return best, r.colors[best]
	}
	best := 0
	bestDist := rgbDist(c, r.colors[0])
	for i, pc := range r.colors[1:] {
		if d := rgbDist(c, pc); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best, r.colors[best]
}

func rgbDist(a, b shape.Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}
