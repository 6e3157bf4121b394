/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package emit

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"plotslicer/internal/batch"
	"plotslicer/internal/config"
	"plotslicer/internal/geom"
	"plotslicer/internal/plan"
	"plotslicer/internal/shape"
)

func lineBatch(c shape.Color, pls ...geom.Polyline) batch.ColourBatch {
	b := batch.ColourBatch{Color: c}
	for _, pl := range pls {
		b.Paths = append(b.Paths, plan.FromPolyline(pl))
	}
	return b
}

func TestEmitSequencing(t *testing.T) {
	b := lineBatch(shape.Color{R: 0, G: 0, B: 0},
		geom.Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}},
		geom.Polyline{{X: 10, Y: 5}, {X: 0, Y: 5}},
	)
	st := Emit([]batch.ColourBatch{b}, 25, false)

	want := []OpKind{
		OpPenDown, OpDraw, OpPenUp, // first path starts at the origin, no travel
		OpTravel, OpPenDown, OpDraw, OpPenUp,
	}
	if len(st.Instructions) != len(want) {
		t.Fatalf("got %d instructions, want %d: %+v", len(st.Instructions), len(want), st.Instructions)
	}
	for i, k := range want {
		if st.Instructions[i].Kind != k {
			t.Fatalf("instruction %d = %v, want %v", i, st.Instructions[i].Kind, k)
		}
	}
	if st.Summary.InstructionCount != len(want) {
		t.Fatalf("summary count = %d", st.Summary.InstructionCount)
	}
	// 20mm drawn at 25mm/s
	if math.Abs(st.Summary.EstimateSeconds-0.8) > 1e-9 {
		t.Fatalf("estimate = %v, want 0.8", st.Summary.EstimateSeconds)
	}
}

func TestEmitTravelExcludedFromEstimate(t *testing.T) {
	far := lineBatch(shape.Color{R: 0, G: 0, B: 0}, geom.Polyline{{X: 100, Y: 100}, {X: 110, Y: 100}})
	st := Emit([]batch.ColourBatch{far}, 10, false)
	if math.Abs(st.Summary.EstimateSeconds-1.0) > 1e-9 {
		t.Fatalf("estimate = %v, want 1.0 (travel excluded)", st.Summary.EstimateSeconds)
	}
}

func TestEmitPauseBetweenBatchesOnly(t *testing.T) {
	red := lineBatch(shape.Color{R: 255, G: 0, B: 0}, geom.Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}})
	blue := lineBatch(shape.Color{R: 0, G: 0, B: 255}, geom.Polyline{{X: 2, Y: 0}, {X: 3, Y: 0}})
	st := Emit([]batch.ColourBatch{red, blue}, 25, true)

	pauses := 0
	for i, ins := range st.Instructions {
		if ins.Kind == OpPause {
			pauses++
			if i == 0 || i == len(st.Instructions)-1 {
				t.Fatalf("pause at stream edge (index %d)", i)
			}
		}
	}
	if pauses != 1 {
		t.Fatalf("got %d pauses, want 1", pauses)
	}
	if len(st.Summary.ColorOrder) != 2 || st.Summary.ColorOrder[0] != "#ff0000" {
		t.Fatalf("colour order = %v", st.Summary.ColorOrder)
	}
}

func TestEmitMonochromeNoPauseNoColorOrder(t *testing.T) {
	b := lineBatch(shape.Color{R: 0, G: 0, B: 0}, geom.Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}})
	st := Emit([]batch.ColourBatch{b}, 25, false)
	for _, ins := range st.Instructions {
		if ins.Kind == OpPause {
			t.Fatalf("pause in single-batch job")
		}
	}
	if len(st.Summary.ColorOrder) != 0 {
		t.Fatalf("monochrome reported colour order %v", st.Summary.ColorOrder)
	}
}

func TestEmitInteriorTravelLiftsPen(t *testing.T) {
	tp := plan.ToolPath{Segs: []plan.Segment{
		{A: geom.Pt{X: 0, Y: 0}, B: geom.Pt{X: 10, Y: 0}},
		{A: geom.Pt{X: 10, Y: 0}, B: geom.Pt{X: 10, Y: 2}, Travel: true},
		{A: geom.Pt{X: 10, Y: 2}, B: geom.Pt{X: 0, Y: 2}},
	}}
	b := batch.ColourBatch{Color: shape.Color{R: 0, G: 0, B: 0}, Paths: []plan.ToolPath{tp}}
	st := Emit([]batch.ColourBatch{b}, 25, false)

	want := []OpKind{OpPenDown, OpDraw, OpPenUp, OpTravel, OpPenDown, OpDraw, OpPenUp}
	if len(st.Instructions) != len(want) {
		t.Fatalf("got %+v", st.Instructions)
	}
	for i, k := range want {
		if st.Instructions[i].Kind != k {
			t.Fatalf("instruction %d = %v, want %v", i, st.Instructions[i].Kind, k)
		}
	}
}

func TestEmitIdempotent(t *testing.T) {
	red := lineBatch(shape.Color{R: 255, G: 0, B: 0}, geom.Polyline{{X: 0, Y: 0}, {X: 7, Y: 3}, {X: 9, Y: 9}})
	blue := lineBatch(shape.Color{R: 0, G: 0, B: 255}, geom.Polyline{{X: 4, Y: 4}, {X: 6, Y: 1}})
	cfg := config.Defaults()

	first := Gcode(Emit([]batch.ColourBatch{red, blue}, 25, true), cfg)
	second := Gcode(Emit([]batch.ColourBatch{red, blue}, 25, true), cfg)
	if !bytes.Equal(first, second) {
		t.Fatalf("re-running emission changed the output")
	}
}

func TestGcodeOutput(t *testing.T) {
	cfg := config.Defaults()
	red := lineBatch(shape.Color{R: 255, G: 0, B: 0}, geom.Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
	blue := lineBatch(shape.Color{R: 0, G: 0, B: 255}, geom.Polyline{{X: 5, Y: 5}, {X: 6, Y: 6}})
	st := Emit([]batch.ColourBatch{red, blue}, cfg.Machine.Feedrates.DrawMMS, true)
	out := string(Gcode(st, cfg))

	for _, want := range []string{
		"; color order: #ff0000 #0000ff",
		"G21",      // start gcode
		"M600",     // pause between batches
		"G0 X0 Y0", // end gcode
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("gcode missing %q:\n%s", want, out)
		}
	}
	// modal F dedup: once per batch (pen lifts change the feedrate between)
	if n := strings.Count(out, "F1500"); n != 2 {
		t.Fatalf("draw feedrate emitted %d times, want 2\n%s", n, out)
	}
	if !strings.Contains(out, "G1 X10.000 Y0.000 F1500") {
		t.Fatalf("first draw missing feedrate:\n%s", out)
	}
	if !strings.Contains(out, "G1 X10.000 Y10.000\n") {
		t.Fatalf("second draw should omit unchanged feedrate:\n%s", out)
	}
}
