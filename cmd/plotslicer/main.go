/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"plotslicer/internal/config"
	"plotslicer/internal/crash"
	"plotslicer/internal/doc"
	"plotslicer/internal/emit"
	"plotslicer/internal/history"
	applog "plotslicer/internal/log"
	"plotslicer/internal/preview"
	"plotslicer/internal/slicer"
	"plotslicer/internal/telemetry"
	"plotslicer/internal/text"
	"plotslicer/internal/version"
)

func usage() {
	fmt.Println("plotslicer — pen plotter toolpath generator")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plotslicer version|-v|--version            Show version")
	fmt.Println("  plotslicer slice [flags] <document.yaml>    Slice artwork into G-code")
	fmt.Println()
	fmt.Println("Slice flags:")
	fmt.Println("  -o <file>        output G-code path (default: document name with .gcode)")
	fmt.Println("  -config <file>   settings YAML (defaults used when omitted)")
	fmt.Println("  -machine <name>  machine profile from the settings file")
	fmt.Println("  -png <file>      also write a raster preview")
	fmt.Println("  -pdf <file>      also write a vector preview")
	fmt.Println("  -history <file>  colour usage database (sqlite)")
	fmt.Println("  -workers <n>     region planning workers (default: CPU count)")
	fmt.Println("  -hide-travel     omit travel moves from previews")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var workDir string
	defer func() { crash.Recover(workDir) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("plotslicer — pen plotter toolpath generator")
			fmt.Println(version.String())
			return
		case "slice":
			runSlice(l, args[2:], &workDir)
			return
		}
	}

	usage()
}

func runSlice(l *slog.Logger, args []string, workDir *string) {
	fs := flag.NewFlagSet("slice", flag.ExitOnError)
	out := fs.String("o", "", "output G-code path")
	cfgPath := fs.String("config", "", "settings YAML path")
	machine := fs.String("machine", "", "machine profile name")
	pngPath := fs.String("png", "", "raster preview path")
	pdfPath := fs.String("pdf", "", "vector preview path")
	histPath := fs.String("history", "", "colour usage database path")
	workers := fs.Int("workers", 0, "region planning workers")
	hideTravel := fs.Bool("hide-travel", false, "omit travel moves from previews")
	fs.Usage = usage
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fmt.Println("slice requires exactly one <document.yaml>")
		usage()
		os.Exit(2)
	}
	docPath := fs.Arg(0)
	abs, _ := filepath.Abs(docPath)
	*workDir = filepath.Dir(abs)
	if *out == "" {
		base := docPath[:len(docPath)-len(filepath.Ext(docPath))]
		*out = base + ".gcode"
	}

	cfg := config.Defaults()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath, *machine)
		if err != nil {
			l.Error("load settings failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		cfg = c
	} else if *machine != "" {
		fmt.Println("Error: -machine requires -config")
		os.Exit(2)
	}

	d, err := doc.Load(docPath)
	if err != nil {
		l.Error("load document failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	l.Info("document loaded", slog.String("path", abs), slog.Int("primitives", len(d.Primitives)))

	job := slicer.Job{Primitives: d.Primitives, Settings: cfg, Workers: *workers}

	if len(d.Fonts) > 0 {
		lib := text.NewLibrary()
		for _, fr := range d.Fonts {
			if err := lib.LoadTTF(fr.Family, fr.File); err != nil {
				l.Error("load font failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
		}
		job.Fonts = lib
	}

	if *histPath != "" {
		store, err := history.Open(*histPath)
		if err != nil {
			l.Error("open history failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		defer store.Close()
		job.History = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := slicer.Run(ctx, job)
	if err != nil {
		l.Error("slice failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	for _, diag := range res.Diagnostics {
		fmt.Printf("Warning: primitive %d skipped: %s\n", diag.Seq, diag.Reason)
	}

	gcode := emit.Gcode(res.Stream, cfg)
	if err := os.WriteFile(*out, gcode, 0o644); err != nil {
		l.Error("write gcode failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if *pngPath != "" {
		err := preview.WritePNG(res.Batches, cfg.Machine.BedWidth, cfg.Machine.BedDepth, *pngPath,
			preview.PNGOptions{HideTravel: *hideTravel})
		if err != nil {
			l.Error("write png preview failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	}
	if *pdfPath != "" {
		err := preview.WritePDF(res.Batches, cfg.Machine.BedWidth, cfg.Machine.BedDepth, *pdfPath,
			preview.PDFOptions{HideTravel: *hideTravel})
		if err != nil {
			l.Error("write pdf preview failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	}

	sum := res.Stream.Summary
	fmt.Printf("Wrote %s (%d instructions, %d batches)\n", *out, sum.InstructionCount, len(res.Batches))
	if len(sum.ColorOrder) > 0 {
		fmt.Println("Colour order:", sum.ColorOrder)
	}
	fmt.Printf("Estimated draw time: %.1fs\n", sum.EstimateSeconds)

	telemetry.Event("job_complete", map[string]any{
		"primitives":   len(d.Primitives),
		"batches":      len(res.Batches),
		"instructions": sum.InstructionCount,
		"estimate_s":   sum.EstimateSeconds,
		"wall_ms":      time.Since(start).Milliseconds(),
	})
	telemetry.Flush(ctx)
}
