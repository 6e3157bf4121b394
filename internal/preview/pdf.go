/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"plotslicer/internal/batch"
	"plotslicer/internal/geom"
)

// PDFOptions controls vector preview output. LineWidthMM defaults to the
// hairline 0.2 mm; travel moves draw dashed gray unless hidden.
type PDFOptions struct {
	LineWidthMM float64
	HideTravel  bool
}

// WritePDF renders batches onto a single page sized like the machine bed.
// The page origin is top-left, so machine coordinates are y-flipped.
func WritePDF(batches []batch.ColourBatch, bedW, bedD float64, outPath string, opt PDFOptions) error {
	if bedW <= 0 || bedD <= 0 {
		return fmt.Errorf("invalid bed size %gx%g", bedW, bedD)
	}
	lw := opt.LineWidthMM
	if lw <= 0 {
		lw = 0.2
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: bedW, Ht: bedD},
	})
	pdf.SetTitle("plotslicer toolpath preview", false)
	pdf.AddPage()
	pdf.SetLineWidth(lw)

	flipY := func(p geom.Pt) (float64, float64) { return p.X, bedD - p.Y }
	for _, b := range batches {
		for _, tp := range b.Paths {
			for _, s := range tp.Segs {
				x0, y0 := flipY(s.A)
				x1, y1 := flipY(s.B)
				if s.Travel {
					if opt.HideTravel {
						continue
					}
					pdf.SetDrawColor(0xcc, 0xcc, 0xcc)
					pdf.SetDashPattern([]float64{1, 1}, 0)
				} else {
					pdf.SetDrawColor(int(b.Color.R), int(b.Color.G), int(b.Color.B))
					pdf.SetDashPattern(nil, 0)
				}
				pdf.Line(x0, y0, x1, y1)
			}
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write preview %s: %w", outPath, err)
	}
	return nil
}
