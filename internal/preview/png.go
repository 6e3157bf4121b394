/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview renders planned toolpaths for a human check before
// plotting: a raster PNG and a vector PDF. Travel moves draw as light gray,
// pen-down moves in the batch colour.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"plotslicer/internal/batch"
	"plotslicer/internal/geom"
)

// PNGOptions controls raster preview output. Zero values get defaults:
// 4 px/mm, travel moves shown.
type PNGOptions struct {
	PixelsPerMM float64
	HideTravel  bool
}

var travelGray = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// WritePNG renders batches over the machine bed (bedW x bedD mm, y up) and
// writes the image to outPath.
func WritePNG(batches []batch.ColourBatch, bedW, bedD float64, outPath string, opt PNGOptions) error {
	scale := opt.PixelsPerMM
	if scale <= 0 {
		scale = 4
	}
	if bedW <= 0 || bedD <= 0 {
		return fmt.Errorf("invalid bed size %gx%g", bedW, bedD)
	}
	w := int(math.Ceil(bedW * scale))
	h := int(math.Ceil(bedD * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	toPx := func(p geom.Pt) (int, int) {
		// machine y grows up, image y grows down
		return int(math.Round(p.X * scale)), h - 1 - int(math.Round(p.Y*scale))
	}
	for _, b := range batches {
		pen := color.RGBA{R: b.Color.R, G: b.Color.G, B: b.Color.B, A: 0xff}
		for _, tp := range b.Paths {
			for _, s := range tp.Segs {
				if s.Travel {
					if opt.HideTravel {
						continue
					}
					x0, y0 := toPx(s.A)
					x1, y1 := toPx(s.B)
					drawLine(img, x0, y0, x1, y1, travelGray)
					continue
				}
				x0, y0 := toPx(s.A)
				x1, y1 := toPx(s.B)
				drawLine(img, x0, y0, x1, y1, pen)
			}
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create preview %s: %w", outPath, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return f.Close()
}

// drawLine rasterizes a segment with Bresenham's algorithm, clipped to the
// image bounds.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
