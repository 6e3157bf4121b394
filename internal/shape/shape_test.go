/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"math"
	"testing"

	"plotslicer/internal/config"
	"plotslicer/internal/geom"
)

func rectPath(x, y, w, h float64) geom.Path {
	var p geom.Path
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

func testResolver() *Resolver {
	return &Resolver{
		Sampling:          config.Defaults().Sampling,
		StrokeThresholdMM: 0.8,
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF8000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (Color{255, 128, 0}) {
		t.Fatalf("got %+v", c)
	}
	short, err := ParseHexColor("#f80")
	if err != nil {
		t.Fatalf("parse short: %v", err)
	}
	if short != (Color{255, 136, 0}) {
		t.Fatalf("short form got %+v", short)
	}
	if _, err := ParseHexColor("red"); err == nil {
		t.Fatalf("expected error for non-hex colour")
	}
	if got := c.Hex(); got != "#ff8000" {
		t.Fatalf("hex round trip = %q", got)
	}
}

func TestLuminanceAndSaturation(t *testing.T) {
	if l := (Color{255, 255, 255}).Luminance(); math.Abs(l-1) > 1e-9 {
		t.Fatalf("white luminance = %v", l)
	}
	if l := (Color{0, 0, 0}).Luminance(); l != 0 {
		t.Fatalf("black luminance = %v", l)
	}
	if s := (Color{128, 128, 128}).Saturation(); s != 0 {
		t.Fatalf("gray saturation = %v", s)
	}
	if s := (Color{255, 0, 0}).Saturation(); math.Abs(s-1) > 1e-9 {
		t.Fatalf("red saturation = %v", s)
	}
}

func TestClassifyStrokeTieGoesToFill(t *testing.T) {
	const threshold = 0.8
	if got := ClassifyStroke(threshold, threshold); got != ConvertToRegion {
		t.Fatalf("width == threshold classified %v, want convert", got)
	}
	if got := ClassifyStroke(threshold-0.001, threshold); got != TraceDirectly {
		t.Fatalf("width just below threshold classified %v, want trace", got)
	}
	if got := ClassifyStroke(threshold+0.001, threshold); got != ConvertToRegion {
		t.Fatalf("width just above threshold classified %v, want convert", got)
	}
}

func TestResolveOcclusion(t *testing.T) {
	prims := []Primitive{
		FilledPath{Path: rectPath(0, 0, 10, 10), Color: Color{255, 0, 0}, Z: 0},
		FilledPath{Path: rectPath(5, 0, 10, 10), Color: Color{0, 0, 255}, Z: 1},
	}
	res := testResolver().Resolve(prims)
	if len(res.Regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(res.Regions))
	}
	lower, upper := res.Regions[0], res.Regions[1]
	if math.Abs(lower.Area.Area()-50) > 1e-6 {
		t.Fatalf("masked lower area = %v, want 50", lower.Area.Area())
	}
	if math.Abs(upper.Area.Area()-100) > 1e-6 {
		t.Fatalf("upper area = %v, want 100", upper.Area.Area())
	}
}

func TestResolveFullyMaskedRegionIsDropped(t *testing.T) {
	prims := []Primitive{
		FilledPath{Path: rectPath(2, 2, 4, 4), Color: Color{0, 0, 0}, Z: 0},
		FilledPath{Path: rectPath(0, 0, 10, 10), Color: Color{0, 0, 0}, Z: 1},
	}
	res := testResolver().Resolve(prims)
	if len(res.Regions) != 1 {
		t.Fatalf("got %d regions, want 1 (lower fully masked)", len(res.Regions))
	}
	if res.Regions[0].Seq != 1 {
		t.Fatalf("survivor seq = %d, want 1", res.Regions[0].Seq)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("full masking should not produce diagnostics: %+v", res.Diagnostics)
	}
}

func TestResolveEqualZUsesDocumentOrder(t *testing.T) {
	prims := []Primitive{
		FilledPath{Path: rectPath(0, 0, 10, 10), Color: Color{0, 0, 0}, Z: 0},
		FilledPath{Path: rectPath(0, 0, 10, 10), Color: Color{255, 255, 255}, Z: 0},
	}
	res := testResolver().Resolve(prims)
	if len(res.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(res.Regions))
	}
	if res.Regions[0].Seq != 1 {
		t.Fatalf("later document primitive should mask the earlier one at equal z")
	}
}

func TestResolveThinStrokePassesThrough(t *testing.T) {
	var line geom.Path
	line.MoveTo(0, 0)
	line.LineTo(20, 0)
	prims := []Primitive{
		StrokedPath{Path: line, WidthMM: 0.3, Color: Color{0, 0, 0}, Z: 0},
	}
	res := testResolver().Resolve(prims)
	if len(res.Regions) != 0 || len(res.Strokes) != 1 {
		t.Fatalf("got %d regions / %d strokes, want 0 / 1", len(res.Regions), len(res.Strokes))
	}
	if res.Strokes[0].Lines[0].Length() != 20 {
		t.Fatalf("stroke length = %v", res.Strokes[0].Lines[0].Length())
	}
}

func TestResolveThickStrokeBecomesRegion(t *testing.T) {
	var line geom.Path
	line.MoveTo(0, 0)
	line.LineTo(20, 0)
	prims := []Primitive{
		StrokedPath{Path: line, WidthMM: 2, Color: Color{0, 0, 0}, Z: 0},
	}
	res := testResolver().Resolve(prims)
	if len(res.Regions) != 1 || len(res.Strokes) != 0 {
		t.Fatalf("got %d regions / %d strokes, want 1 / 0", len(res.Regions), len(res.Strokes))
	}
	if res.Regions[0].Kind != KindFilledStroke {
		t.Fatalf("region kind = %v", res.Regions[0].Kind)
	}
	// ~20mm x 2mm band plus round caps
	if a := res.Regions[0].Area.Area(); a < 35 || a > 50 {
		t.Fatalf("inflated stroke area = %v, want ~40", a)
	}
}

func TestResolveSkipsDegenerates(t *testing.T) {
	var empty geom.Path
	prims := []Primitive{
		FilledPath{Path: empty, Color: Color{0, 0, 0}, Z: 0},
		StrokedPath{Path: empty, WidthMM: -1, Color: Color{0, 0, 0}, Z: 0},
		TextSpan{Text: "hi", SizeMM: 5, Color: Color{0, 0, 0}, Z: 0},
	}
	res := testResolver().Resolve(prims)
	if len(res.Regions) != 0 || len(res.Strokes) != 0 {
		t.Fatalf("degenerates produced output: %d regions, %d strokes", len(res.Regions), len(res.Strokes))
	}
	if len(res.Diagnostics) != 3 {
		t.Fatalf("got %d diagnostics, want 3: %+v", len(res.Diagnostics), res.Diagnostics)
	}
}

func TestPassesMinFill(t *testing.T) {
	wide := geom.PolySet{{Outer: geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}}
	narrow := geom.PolySet{{Outer: geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0.4}, {X: 0, Y: 0.4}}}}

	if !PassesMinFill(wide, 0.8, "min") {
		t.Fatalf("10mm square failed 0.8mm min gate")
	}
	if PassesMinFill(narrow, 0.8, "min") {
		t.Fatalf("0.4mm band passed 0.8mm min gate")
	}
	// max mode measures the longest extent, so the narrow band passes
	if !PassesMinFill(narrow, 0.8, "max") {
		t.Fatalf("10mm-long band failed max gate")
	}
	if PassesMinFill(narrow, 20, "max") {
		t.Fatalf("band longer gate should fail")
	}
	if PassesMinFill(nil, 0.8, "min") {
		t.Fatalf("empty set passed gate")
	}
}
