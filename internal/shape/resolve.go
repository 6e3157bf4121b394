/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"fmt"
	"sort"

	"plotslicer/internal/config"
	"plotslicer/internal/geom"
	"plotslicer/internal/log"
)

// Diagnostic records a primitive that was skipped without aborting the job.
type Diagnostic struct {
	Seq    int
	Kind   string
	Reason string
}

// Result is the resolver output: the occlusion-resolved regions and the thin
// strokes kept as direct traces, both in document z-order, plus diagnostics
// for every skipped primitive.
type Result struct {
	Regions     []Region
	Strokes     []Stroke
	Diagnostics []Diagnostic
}

// Resolver turns heterogeneous primitives into planar regions. Thick strokes
// (width at or above StrokeThresholdMM) are inflated into regions; text runs
// through Outliner; everything fillable participates in painter's-order
// occlusion.
type Resolver struct {
	Sampling          config.Sampling
	StrokeThresholdMM float64
	Outliner          Outliner
}

type candidate struct {
	area    geom.PolySet
	color   Color
	kind    SourceKind
	z, seq  int
	visible geom.PolySet
}

// Resolve processes primitives in document order. Occlusion walks candidates
// from topmost z down, subtracting the accumulated union of everything above;
// equal z keeps document order, so a later primitive masks an earlier one at
// the same level. Fully masked regions are dropped silently. Thin strokes do
// not take part in occlusion.
func (r *Resolver) Resolve(prims []Primitive) Result {
	logger := log.WithComponent("shape")
	opts := geom.FlattenOpts{
		Tolerance:   r.Sampling.SegmentToleranceMM,
		DetailScale: r.Sampling.CurveDetailScale,
	}

	var res Result
	var cands []*candidate
	skip := func(seq int, kind, format string, args ...any) {
		reason := fmt.Sprintf(format, args...)
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Seq: seq, Kind: kind, Reason: reason})
		logger.Warn("skipping primitive", "seq", seq, "kind", kind, "reason", reason)
	}

	for seq, prim := range prims {
		switch p := prim.(type) {
		case FilledPath:
			area := r.fillArea(&p.Path)
			if area.Empty() {
				skip(seq, "fill", "degenerate geometry (zero area)")
				continue
			}
			cands = append(cands, &candidate{area: area, color: p.Color, kind: KindFill, z: p.Z, seq: seq})
		case StrokedPath:
			if p.WidthMM <= 0 {
				skip(seq, "stroke", "non-positive width %v", p.WidthMM)
				continue
			}
			lines := p.Path.Flatten(opts)
			lines = simplifyLines(lines, r.Sampling.SimplifyToleranceMM)
			if len(lines) == 0 {
				skip(seq, "stroke", "degenerate geometry (no segments)")
				continue
			}
			if ClassifyStroke(p.WidthMM, r.StrokeThresholdMM) == TraceDirectly {
				res.Strokes = append(res.Strokes, Stroke{
					Lines: lines, WidthMM: p.WidthMM, Color: p.Color, Z: p.Z, Seq: seq,
				})
				continue
			}
			area := InflateStroke(lines, p.WidthMM)
			if area.Empty() {
				skip(seq, "stroke", "degenerate geometry (zero inflated area)")
				continue
			}
			cands = append(cands, &candidate{area: area, color: p.Color, kind: KindFilledStroke, z: p.Z, seq: seq})
		case TextSpan:
			if r.Outliner == nil {
				skip(seq, "text", "no font source configured")
				continue
			}
			outline, err := r.Outliner.Outline(p)
			if err != nil {
				skip(seq, "text", "glyph outline: %v", err)
				continue
			}
			area := r.fillArea(&outline)
			if area.Empty() {
				skip(seq, "text", "degenerate geometry (zero area)")
				continue
			}
			cands = append(cands, &candidate{area: area, color: p.Color, kind: KindGlyph, z: p.Z, seq: seq})
		default:
			skip(seq, "unknown", "unsupported primitive %T", prim)
		}
	}

	// Topmost first: higher z masks lower, later document order masks
	// earlier at equal z.
	order := make([]*candidate, len(cands))
	copy(order, cands)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].z != order[j].z {
			return order[i].z > order[j].z
		}
		return order[i].seq > order[j].seq
	})
	var occluders geom.PolySet
	for _, c := range order {
		c.visible = geom.Difference(c.area, occluders)
		occluders = geom.Union(occluders, c.area)
	}

	for _, c := range cands {
		if c.visible.Empty() {
			continue
		}
		res.Regions = append(res.Regions, Region{
			Area: c.visible, Color: c.color, Kind: c.kind, Z: c.z, Seq: c.seq,
		})
	}
	// Regions back into z-order, document order within equal z.
	sort.SliceStable(res.Regions, func(i, j int) bool {
		if res.Regions[i].Z != res.Regions[j].Z {
			return res.Regions[i].Z < res.Regions[j].Z
		}
		return res.Regions[i].Seq < res.Regions[j].Seq
	})
	return res
}

func (r *Resolver) fillArea(p *geom.Path) geom.PolySet {
	opts := geom.FlattenOpts{
		Tolerance:   r.Sampling.SegmentToleranceMM,
		DetailScale: r.Sampling.CurveDetailScale,
	}
	rings := p.FlattenRings(opts)
	if tol := r.Sampling.SimplifyToleranceMM; tol > 0 {
		kept := rings[:0]
		for _, ring := range rings {
			s := ring.Simplify(tol)
			if len(s) >= 3 {
				kept = append(kept, s)
			}
		}
		rings = kept
	}
	return geom.AssembleRings(rings)
}

func simplifyLines(lines []geom.Polyline, tol float64) []geom.Polyline {
	if tol <= 0 {
		return lines
	}
	kept := lines[:0]
	for _, ln := range lines {
		s := ln.Simplify(tol)
		if len(s) >= 2 {
			kept = append(kept, s)
		}
	}
	return kept
}
