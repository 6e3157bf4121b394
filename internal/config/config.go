/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config defines the typed slicer settings and loads them from a
// YAML file. The settings object is immutable for the duration of a slicing
// job and is threaded explicitly through every pipeline component; nothing
// in the engine reads configuration from ambient state.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Feedrates holds motion speeds in mm/s. G-code wants mm/min; see the
// *Feedrate accessors.
type Feedrates struct {
	DrawMMS   float64 `yaml:"draw"`
	TravelMMS float64 `yaml:"travel"`
	ZMMS      float64 `yaml:"z"`
}

// DrawFeedrate returns the pen-down speed in mm/min.
func (f Feedrates) DrawFeedrate() float64 { return f.DrawMMS * 60.0 }

// TravelFeedrate returns the pen-up speed in mm/min.
func (f Feedrates) TravelFeedrate() float64 { return f.TravelMMS * 60.0 }

// ZFeedrate returns the pen lift/lower speed in mm/min.
func (f Feedrates) ZFeedrate() float64 { return f.ZMMS * 60.0 }

// Machine describes one plotting device profile.
type Machine struct {
	Name       string    `yaml:"name"`
	BedWidth   float64   `yaml:"bed_width_mm"`
	BedDepth   float64   `yaml:"bed_depth_mm"`
	ZDraw      float64   `yaml:"z_draw_mm"`
	ZTravel    float64   `yaml:"z_travel_mm"`
	Feedrates  Feedrates `yaml:"feedrates_mm_s"`
	StartGcode []string  `yaml:"start_gcode"`
	EndGcode   []string  `yaml:"end_gcode"`
}

// Perimeter controls boundary loop generation.
// MinFillMode selects how a region's fill eligibility is measured:
// "min" gates on local thickness (morphological opening), "max" on the
// largest dimension of the minimum bounding rectangle.
type Perimeter struct {
	ThicknessMM    float64 `yaml:"thickness_mm"`
	Count          int     `yaml:"count"`
	MinFillWidthMM float64 `yaml:"min_fill_width_mm"`
	MinFillMode    string  `yaml:"min_fill_mode"`
}

// Infill controls cross-hatch generation. Line spacing for a region is
// BaseLineSpacingMM divided by the region's density, with density clamped
// into [MinDensity, MaxDensity].
type Infill struct {
	BaseLineSpacingMM float64   `yaml:"base_line_spacing_mm"`
	MinDensity        float64   `yaml:"min_density"`
	MaxDensity        float64   `yaml:"max_density"`
	AnglesDegrees     []float64 `yaml:"angles_degrees"`
}

// Sampling controls curve flattening and outline simplification.
type Sampling struct {
	SegmentToleranceMM  float64 `yaml:"segment_length_tolerance_mm"`
	SimplifyToleranceMM float64 `yaml:"outline_simplify_tolerance_mm"`
	CurveDetailScale    float64 `yaml:"curve_detail_scale"`
}

// Palette configures colour mode. Colors are ordered hex strings
// ("#RRGGBB"); PauseGcode is emitted verbatim between colour batches.
type Palette struct {
	ColorMode  bool     `yaml:"color_mode"`
	Colors     []string `yaml:"colors"`
	PauseGcode []string `yaml:"pause_gcode"`
}

// Settings is the complete validated configuration for one slicing run.
type Settings struct {
	ConfigVersion int       `yaml:"config_version"`
	Machine       Machine   `yaml:"machine"`
	Perimeter     Perimeter `yaml:"perimeter"`
	Infill        Infill    `yaml:"infill"`
	Sampling      Sampling  `yaml:"sampling"`
	Palette       Palette   `yaml:"palette"`
}

// Defaults returns the application defaults, tuned for a pen plotter with a
// 0.45 mm felt tip.
func Defaults() Settings {
	return Settings{
		ConfigVersion: 1,
		Machine: Machine{
			Name:     "PenPlotter",
			BedWidth: 220, BedDepth: 220,
			ZDraw: 0.0, ZTravel: 5.0,
			Feedrates:  Feedrates{DrawMMS: 25, TravelMMS: 80, ZMMS: 10},
			StartGcode: []string{"G21", "G90"},
			EndGcode:   []string{"G0 X0 Y0"},
		},
		Perimeter: Perimeter{ThicknessMM: 0.45, Count: 1, MinFillWidthMM: 0.8, MinFillMode: "min"},
		Infill:    Infill{BaseLineSpacingMM: 1.0, MinDensity: 0.1, MaxDensity: 0.9, AnglesDegrees: []float64{45, 135}},
		Sampling:  Sampling{SegmentToleranceMM: 0.5, SimplifyToleranceMM: 0.15, CurveDetailScale: 1.0},
		Palette:   Palette{ColorMode: false, PauseGcode: []string{"M600"}},
	}
}

// file layout: either a single `machine:` block or a `machines:` map of
// named profiles with an optional `default_machine` selector.
type fileSettings struct {
	ConfigVersion  int                 `yaml:"config_version"`
	Machine        *Machine            `yaml:"machine"`
	Machines       map[string]*Machine `yaml:"machines"`
	DefaultMachine string              `yaml:"default_machine"`
	Perimeter      *Perimeter          `yaml:"perimeter"`
	Infill         *Infill             `yaml:"infill"`
	Sampling       *Sampling           `yaml:"sampling"`
	Palette        *Palette            `yaml:"palette"`
}

// Load reads the YAML settings file, applies defaults for absent sections,
// selects the machine profile, and validates the result. profile may be
// empty, in which case PLS_MACHINE, then default_machine (or the only
// machine block) is used.
func Load(path, profile string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	if profile == "" {
		profile = os.Getenv("PLS_MACHINE")
	}
	return Parse(data, profile)
}

// Parse decodes settings from raw YAML. Exposed separately for tests.
func Parse(data []byte, profile string) (Settings, error) {
	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}

	cfg := Defaults()
	if fs.ConfigVersion != 0 {
		cfg.ConfigVersion = fs.ConfigVersion
	}
	m, err := selectMachine(fs, profile)
	if err != nil {
		return Settings{}, err
	}
	if m != nil {
		mergeMachine(&cfg.Machine, m)
	}
	if fs.Perimeter != nil {
		cfg.Perimeter = *fs.Perimeter
		if cfg.Perimeter.MinFillMode == "" {
			cfg.Perimeter.MinFillMode = "min"
		}
	}
	if fs.Infill != nil {
		cfg.Infill = *fs.Infill
		if len(cfg.Infill.AnglesDegrees) == 0 {
			cfg.Infill.AnglesDegrees = Defaults().Infill.AnglesDegrees
		}
	}
	if fs.Sampling != nil {
		cfg.Sampling = *fs.Sampling
		if cfg.Sampling.CurveDetailScale <= 0 {
			cfg.Sampling.CurveDetailScale = 1.0
		}
		if cfg.Sampling.SimplifyToleranceMM <= 0 {
			cfg.Sampling.SimplifyToleranceMM = cfg.Sampling.SegmentToleranceMM
		}
	}
	if fs.Palette != nil {
		cfg.Palette = *fs.Palette
		if len(cfg.Palette.PauseGcode) == 0 {
			cfg.Palette.PauseGcode = Defaults().Palette.PauseGcode
		}
	}

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func selectMachine(fs fileSettings, profile string) (*Machine, error) {
	if len(fs.Machines) == 0 {
		if profile != "" {
			return nil, errors.New("machine profile requested but settings define no profiles")
		}
		return fs.Machine, nil
	}
	name := profile
	if name == "" {
		name = fs.DefaultMachine
	}
	if name == "" && len(fs.Machines) == 1 {
		for k := range fs.Machines {
			name = k
		}
	}
	m, ok := fs.Machines[name]
	if !ok {
		known := make([]string, 0, len(fs.Machines))
		for k := range fs.Machines {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("machine profile %q not found (available: %s)", name, strings.Join(known, ", "))
	}
	if m.Name == "" {
		m.Name = name
	}
	return m, nil
}

func mergeMachine(dst, src *Machine) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.BedWidth > 0 {
		dst.BedWidth = src.BedWidth
	}
	if src.BedDepth > 0 {
		dst.BedDepth = src.BedDepth
	}
	dst.ZDraw = src.ZDraw
	if src.ZTravel != 0 {
		dst.ZTravel = src.ZTravel
	}
	if src.Feedrates.DrawMMS > 0 {
		dst.Feedrates.DrawMMS = src.Feedrates.DrawMMS
	}
	if src.Feedrates.TravelMMS > 0 {
		dst.Feedrates.TravelMMS = src.Feedrates.TravelMMS
	}
	if src.Feedrates.ZMMS > 0 {
		dst.Feedrates.ZMMS = src.Feedrates.ZMMS
	}
	if src.StartGcode != nil {
		dst.StartGcode = src.StartGcode
	}
	if src.EndGcode != nil {
		dst.EndGcode = src.EndGcode
	}
}

// Validate checks for the configuration defects that must abort a job before
// any geometry work starts. It returns the first problem found.
func (s Settings) Validate() error {
	if s.Perimeter.ThicknessMM <= 0 {
		return fmt.Errorf("perimeter thickness must be positive, got %g", s.Perimeter.ThicknessMM)
	}
	if s.Perimeter.Count < 1 {
		return fmt.Errorf("perimeter count must be >= 1, got %d", s.Perimeter.Count)
	}
	if mode := s.Perimeter.MinFillMode; mode != "min" && mode != "max" {
		return fmt.Errorf("min_fill_mode must be \"min\" or \"max\", got %q", mode)
	}
	if s.Infill.BaseLineSpacingMM <= 0 {
		return fmt.Errorf("infill base line spacing must be positive, got %g", s.Infill.BaseLineSpacingMM)
	}
	if s.Infill.MinDensity <= 0 || s.Infill.MaxDensity <= 0 {
		return errors.New("infill densities must be positive")
	}
	if s.Infill.MinDensity > s.Infill.MaxDensity {
		return fmt.Errorf("infill min_density %g exceeds max_density %g", s.Infill.MinDensity, s.Infill.MaxDensity)
	}
	if len(s.Infill.AnglesDegrees) == 0 {
		return errors.New("infill requires at least one hatch angle")
	}
	if s.Sampling.SegmentToleranceMM <= 0 {
		return fmt.Errorf("segment tolerance must be positive, got %g", s.Sampling.SegmentToleranceMM)
	}
	if s.Machine.Feedrates.DrawMMS <= 0 || s.Machine.Feedrates.TravelMMS <= 0 || s.Machine.Feedrates.ZMMS <= 0 {
		return errors.New("all feedrates must be positive")
	}
	if s.Palette.ColorMode {
		if len(s.Palette.Colors) == 0 {
			return errors.New("color mode enabled but palette defines no colors")
		}
		for _, c := range s.Palette.Colors {
			if !validHexColor(c) {
				return fmt.Errorf("palette color %q is not a #RRGGBB value", c)
			}
		}
	}
	return nil
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
