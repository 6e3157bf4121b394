/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package slicer runs the full pipeline for one job: resolve primitives into
// regions, plan perimeters and infill per region, assign colours, order
// batches, and emit the motion stream.
package slicer

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"plotslicer/internal/batch"
	"plotslicer/internal/config"
	"plotslicer/internal/emit"
	"plotslicer/internal/history"
	"plotslicer/internal/log"
	"plotslicer/internal/palette"
	"plotslicer/internal/plan"
	"plotslicer/internal/shape"
)

// Job is one slicing request. Fonts may be nil when the input carries no
// text; History may be nil for single runs (counts start at zero).
type Job struct {
	Primitives []shape.Primitive
	Settings   config.Settings
	Fonts      shape.Outliner
	History    history.Store
	Workers    int
}

// Output is the completed job: the ordered batches, the emitted stream, and
// the per-primitive diagnostics collected during resolution.
type Output struct {
	Batches     []batch.ColourBatch
	Stream      emit.Stream
	Diagnostics []shape.Diagnostic
}

// Run executes the pipeline. Configuration defects abort before any geometry
// work; per-primitive defects are absorbed as diagnostics. Region planning
// fans out over a bounded worker pool, and cancellation is honored at region
// checkpoints: a cancelled job returns the context error with no partial
// stream.
func Run(ctx context.Context, job Job) (Output, error) {
	logger := log.WithComponent("slicer")
	cfg := job.Settings

	if err := cfg.Validate(); err != nil {
		return Output{}, fmt.Errorf("settings: %w", err)
	}
	pal, err := palette.NewResolver(cfg)
	if err != nil {
		return Output{}, err
	}

	resolver := &shape.Resolver{
		Sampling:          cfg.Sampling,
		StrokeThresholdMM: cfg.Perimeter.MinFillWidthMM,
		Outliner:          job.Fonts,
	}
	res := resolver.Resolve(job.Primitives)
	logger.Info("resolved primitives",
		"regions", len(res.Regions), "strokes", len(res.Strokes), "skipped", len(res.Diagnostics))
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	entries, err := planRegions(ctx, res.Regions, cfg, pal, job.Workers)
	if err != nil {
		return Output{}, err
	}
	for _, s := range res.Strokes {
		c := penColor(s.Color, pal)
		entries = append(entries, batch.Entry{
			Color: c,
			Paths: plan.TracePaths(s.Lines),
			Seq:   orderKey(s.Z, s.Seq),
		})
	}
	// deterministic document order regardless of worker scheduling
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	batches, err := batch.Plan(entries, job.History)
	if err != nil {
		return Output{}, err
	}
	stream := emit.Emit(batches, cfg.Machine.Feedrates.DrawMMS, pal.ColorMode())
	logger.Info("job complete",
		"batches", len(batches),
		"instructions", stream.Summary.InstructionCount,
		"draw_seconds", stream.Summary.EstimateSeconds)

	return Output{Batches: batches, Stream: stream, Diagnostics: res.Diagnostics}, nil
}

// planRegions plans perimeters and infill for every region concurrently.
// Results land in a slice indexed by region, so output order never depends
// on scheduling.
func planRegions(ctx context.Context, regions []shape.Region, cfg config.Settings, pal *palette.Resolver, workers int) ([]batch.Entry, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(regions) && len(regions) > 0 {
		workers = len(regions)
	}
	results := make([]batch.Entry, len(regions))
	idxCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				results[i] = planOne(regions[i], cfg, pal)
			}
		}()
	}
feed:
	for i := range regions {
		select {
		case idxCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(idxCh)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// penColor picks the pen for a fill colour: the nearest palette entry in
// colour mode, the single implicit pen (black) in monochrome mode, where the
// fill colour only drives hatch density.
func penColor(c shape.Color, pal *palette.Resolver) shape.Color {
	if !pal.ColorMode() {
		return shape.Color{}
	}
	_, p := pal.Nearest(c)
	return p
}

func planOne(r shape.Region, cfg config.Settings, pal *palette.Resolver) batch.Entry {
	entry := batch.Entry{Color: penColor(r.Color, pal), Seq: orderKey(r.Z, r.Seq)}

	per := plan.PlanPerimeters(r.Area, cfg.Perimeter.ThicknessMM, cfg.Perimeter.Count)
	entry.Paths = append(entry.Paths, per.Paths...)
	if per.Centerline {
		return entry
	}
	if !shape.PassesMinFill(r.Area, cfg.Perimeter.MinFillWidthMM, cfg.Perimeter.MinFillMode) {
		return entry
	}
	infillArea := plan.InfillArea(r.Area, cfg.Perimeter.ThicknessMM, cfg.Perimeter.Count)
	if infillArea.Empty() {
		return entry
	}
	spacing := plan.Spacing(
		cfg.Infill.BaseLineSpacingMM,
		pal.Density(r.Color),
		cfg.Infill.MinDensity,
		cfg.Infill.MaxDensity,
	)
	if tp := plan.PlanInfill(infillArea, spacing, cfg.Infill.AnglesDegrees); !tp.Empty() {
		entry.Paths = append(entry.Paths, tp)
	}
	return entry
}

// orderKey folds (z, document index) into one sortable key. Document indices
// stay below 1<<20 per job.
func orderKey(z, seq int) int { return z<<20 | (seq & (1<<20 - 1)) }
