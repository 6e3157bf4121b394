/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package doc loads plotter artwork documents. A document is a YAML file
// listing vector primitives in machine coordinates (millimetres, y up), plus
// optional font references for text spans.
package doc

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"plotslicer/internal/geom"
	"plotslicer/internal/shape"
)

// FontRef names a TTF file to load for a text family.
type FontRef struct {
	Family string `yaml:"family"`
	File   string `yaml:"file"`
}

// Document is parsed artwork ready to hand to the slicer.
type Document struct {
	Primitives []shape.Primitive
	Fonts      []FontRef
}

type rawDoc struct {
	Fonts      []FontRef      `yaml:"fonts"`
	Primitives []rawPrimitive `yaml:"primitives"`
}

type rawPrimitive struct {
	Type   string     `yaml:"type"`
	Path   string     `yaml:"path"`
	Color  string     `yaml:"color"`
	Z      int        `yaml:"z"`
	Width  float64    `yaml:"width_mm"`
	Text   string     `yaml:"text"`
	Font   string     `yaml:"font"`
	Origin [2]float64 `yaml:"origin"`
	Size   float64    `yaml:"size_mm"`
}

// Load reads and parses the document at path. Font file references are
// resolved relative to the document's directory.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range d.Fonts {
		if !filepath.IsAbs(d.Fonts[i].File) {
			d.Fonts[i].File = filepath.Join(dir, d.Fonts[i].File)
		}
	}
	return d, nil
}

// Parse parses document YAML.
func Parse(data []byte) (*Document, error) {
	var raw rawDoc
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	d := &Document{Fonts: raw.Fonts}
	for i, rp := range raw.Primitives {
		prim, err := rp.build()
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		d.Primitives = append(d.Primitives, prim)
	}
	return d, nil
}

func (rp rawPrimitive) build() (shape.Primitive, error) {
	col := shape.Color{}
	if rp.Color != "" {
		c, err := shape.ParseHexColor(rp.Color)
		if err != nil {
			return nil, err
		}
		col = c
	}
	switch rp.Type {
	case "fill":
		p, err := ParsePathData(rp.Path)
		if err != nil {
			return nil, err
		}
		return shape.FilledPath{Path: p, Color: col, Z: rp.Z}, nil
	case "stroke":
		p, err := ParsePathData(rp.Path)
		if err != nil {
			return nil, err
		}
		if rp.Width <= 0 {
			return nil, fmt.Errorf("stroke needs a positive width_mm, got %g", rp.Width)
		}
		return shape.StrokedPath{Path: p, WidthMM: rp.Width, Color: col, Z: rp.Z}, nil
	case "text":
		if rp.Text == "" {
			return nil, fmt.Errorf("text primitive has empty text")
		}
		if rp.Size <= 0 {
			return nil, fmt.Errorf("text needs a positive size_mm, got %g", rp.Size)
		}
		return shape.TextSpan{
			Text:   rp.Text,
			Font:   rp.Font,
			Origin: geom.Pt{X: rp.Origin[0], Y: rp.Origin[1]},
			SizeMM: rp.Size,
			Color:  col,
			Z:      rp.Z,
		}, nil
	case "":
		return nil, fmt.Errorf("missing type (want fill, stroke or text)")
	default:
		return nil, fmt.Errorf("unknown primitive type %q", rp.Type)
	}
}
