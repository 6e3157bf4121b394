/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package slicer

import (
	"bytes"
	"context"
	"testing"

	"plotslicer/internal/config"
	"plotslicer/internal/emit"
	"plotslicer/internal/geom"
	"plotslicer/internal/history"
	"plotslicer/internal/shape"
)

func rect(x, y, w, h float64) geom.Path {
	var p geom.Path
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

func TestRunMonochromeSingleBatch(t *testing.T) {
	job := Job{
		Primitives: []shape.Primitive{
			FilledSquare(10, 10, 20, shape.Color{R: 64, G: 64, B: 64}, 0),
			FilledSquare(50, 10, 20, shape.Color{R: 0, G: 0, B: 0}, 1),
		},
		Settings: config.Defaults(),
	}
	out, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Batches) != 1 {
		t.Fatalf("monochrome job produced %d batches, want 1", len(out.Batches))
	}
	for _, ins := range out.Stream.Instructions {
		if ins.Kind == emit.OpPause {
			t.Fatalf("pause in monochrome job")
		}
	}
	if out.Stream.Summary.InstructionCount == 0 {
		t.Fatalf("empty motion stream")
	}
	if out.Stream.Summary.EstimateSeconds <= 0 {
		t.Fatalf("estimate = %v", out.Stream.Summary.EstimateSeconds)
	}
}

func FilledSquare(x, y, side float64, c shape.Color, z int) shape.FilledPath {
	return shape.FilledPath{Path: rect(x, y, side, side), Color: c, Z: z}
}

func TestRunColourScenario(t *testing.T) {
	cfg := config.Defaults()
	cfg.Palette.ColorMode = true
	cfg.Palette.Colors = []string{"#000000", "#ff0000"}

	job := Job{
		Primitives: []shape.Primitive{
			FilledSquare(10, 10, 20, shape.Color{R: 0x11, G: 0, B: 0}, 0),
		},
		Settings: cfg,
	}
	out, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(out.Batches))
	}
	if out.Batches[0].Color.Hex() != "#000000" {
		t.Fatalf("#110000 assigned %s, want #000000", out.Batches[0].Color.Hex())
	}
	for _, ins := range out.Stream.Instructions {
		if ins.Kind == emit.OpPause {
			t.Fatalf("pause inserted in single-colour job")
		}
	}
	if len(out.Stream.Summary.ColorOrder) != 1 {
		t.Fatalf("colour order = %v", out.Stream.Summary.ColorOrder)
	}
}

func TestRunBatchOrderFollowsUsage(t *testing.T) {
	cfg := config.Defaults()
	cfg.Palette.ColorMode = true
	cfg.Palette.Colors = []string{"#ff0000", "#0000ff"}

	store := history.NewMemoryStore()
	store.Seed("#ff0000", 5)

	job := Job{
		Primitives: []shape.Primitive{
			FilledSquare(10, 10, 20, shape.Color{R: 255, G: 0, B: 0}, 0),
			FilledSquare(50, 10, 20, shape.Color{R: 0, G: 0, B: 255}, 1),
		},
		Settings: cfg,
		History:  store,
	}
	out, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Batches) != 2 || out.Batches[0].Color.Hex() != "#0000ff" {
		t.Fatalf("least-used pen did not plot first: %+v", out.Stream.Summary.ColorOrder)
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := config.Defaults()
	job := Job{
		Primitives: []shape.Primitive{
			FilledSquare(10, 10, 30, shape.Color{R: 32, G: 32, B: 32}, 0),
			FilledSquare(25, 25, 30, shape.Color{R: 200, G: 200, B: 200}, 1),
		},
		Settings: cfg,
		Workers:  4,
	}
	first, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	a := emit.Gcode(first.Stream, cfg)
	b := emit.Gcode(second.Stream, cfg)
	if !bytes.Equal(a, b) {
		t.Fatalf("identical job produced different output")
	}
	if first.Stream.Summary.EstimateSeconds != second.Stream.Summary.EstimateSeconds {
		t.Fatalf("estimates differ: %v vs %v",
			first.Stream.Summary.EstimateSeconds, second.Stream.Summary.EstimateSeconds)
	}
}

func TestRunFatalConfigBeforeGeometry(t *testing.T) {
	cfg := config.Defaults()
	cfg.Infill.BaseLineSpacingMM = -1
	job := Job{
		Primitives: []shape.Primitive{FilledSquare(0, 0, 10, shape.Color{R: 0, G: 0, B: 0}, 0)},
		Settings:   cfg,
	}
	if _, err := Run(context.Background(), job); err == nil {
		t.Fatalf("expected fatal configuration error")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := Job{
		Primitives: []shape.Primitive{FilledSquare(0, 0, 10, shape.Color{R: 0, G: 0, B: 0}, 0)},
		Settings:   config.Defaults(),
	}
	out, err := Run(ctx, job)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if len(out.Stream.Instructions) != 0 {
		t.Fatalf("cancelled job leaked a partial stream")
	}
}

func TestRunCollectsDiagnostics(t *testing.T) {
	var empty geom.Path
	job := Job{
		Primitives: []shape.Primitive{
			shape.FilledPath{Path: empty, Color: shape.Color{R: 0, G: 0, B: 0}, Z: 0},
			FilledSquare(0, 0, 10, shape.Color{R: 0, G: 0, B: 0}, 1),
		},
		Settings: config.Defaults(),
	}
	out, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(out.Diagnostics))
	}
	if len(out.Batches) != 1 {
		t.Fatalf("healthy primitive did not survive")
	}
}
