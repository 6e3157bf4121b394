/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package text

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"plotslicer/internal/geom"
	"plotslicer/internal/shape"
)

// Library stores parsed TrueType/OpenType fonts by family name and turns
// text spans into filled glyph outline paths in machine coordinates.
type Library struct {
	fonts map[string]*sfnt.Font
	def   string
	buf   sfnt.Buffer
}

// NewLibrary returns an empty font library.
func NewLibrary() *Library { return &Library{fonts: make(map[string]*sfnt.Font)} }

// LoadTTF parses a font file and registers it under family. The first loaded
// font becomes the default family.
func (l *Library) LoadTTF(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return l.Register(family, data)
}

// Register parses already-read font bytes under family.
func (l *Library) Register(family string, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	if l.fonts == nil {
		l.fonts = make(map[string]*sfnt.Font)
	}
	if len(l.fonts) == 0 {
		l.def = family
	}
	l.fonts[family] = f
	return nil
}

// Families returns the number of registered families.
func (l *Library) Families() int { return len(l.fonts) }

func (l *Library) find(family string) (*sfnt.Font, error) {
	if len(l.fonts) == 0 {
		return nil, fmt.Errorf("no fonts loaded")
	}
	if family == "" {
		family = l.def
	}
	f, ok := l.fonts[family]
	if !ok {
		return nil, fmt.Errorf("unknown font family %q", family)
	}
	return f, nil
}

// Outline converts a text span into one path holding the filled outlines of
// every glyph, advanced and kerned along the baseline. Glyph coordinates are
// y-flipped about the baseline so text reads upright in the y-up machine
// frame. Unsupported glyphs fail the whole span.
func (l *Library) Outline(span shape.TextSpan) (geom.Path, error) {
	var out geom.Path
	f, err := l.find(span.Font)
	if err != nil {
		return out, err
	}
	if span.SizeMM <= 0 {
		return out, fmt.Errorf("non-positive text size %v", span.SizeMM)
	}
	upem := fixed.Int26_6(f.UnitsPerEm())
	if upem == 0 {
		return out, fmt.Errorf("font reports zero units per em")
	}
	// Load at ppem == unitsPerEm so segment coordinates come back in font
	// units, then scale to mm.
	scale := span.SizeMM / float64(upem)

	penX := 0.0
	prev := sfnt.GlyphIndex(0)
	havePrev := false
	for _, r := range span.Text {
		gi, err := f.GlyphIndex(&l.buf, r)
		if err != nil {
			return geom.Path{}, fmt.Errorf("glyph index %q: %w", r, err)
		}
		if gi == 0 {
			return geom.Path{}, fmt.Errorf("unsupported glyph %q", r)
		}
		if havePrev {
			if k, err := f.Kern(&l.buf, prev, gi, upem, font.HintingNone); err == nil {
				penX += float64(k) / 64 * scale
			}
		}
		segs, err := f.LoadGlyph(&l.buf, gi, upem, nil)
		if err != nil {
			return geom.Path{}, fmt.Errorf("load glyph %q: %w", r, err)
		}
		appendGlyph(&out, segs, span.Origin.X+penX, span.Origin.Y, scale)

		adv, err := f.GlyphAdvance(&l.buf, gi, upem, font.HintingNone)
		if err != nil {
			return geom.Path{}, fmt.Errorf("glyph advance %q: %w", r, err)
		}
		penX += float64(adv) / 64 * scale
		prev = gi
		havePrev = true
	}
	return out, nil
}

func appendGlyph(p *geom.Path, segs sfnt.Segments, ox, oy, scale float64) {
	pt := func(fp fixed.Point26_6) (float64, float64) {
		x := ox + float64(fp.X)/64*scale
		y := oy - float64(fp.Y)/64*scale // font y grows down
		return x, y
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			x, y := pt(s.Args[0])
			p.MoveTo(x, y)
			open = true
		case sfnt.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			p.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			p.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(s.Args[0])
			c2x, c2y := pt(s.Args[1])
			x, y := pt(s.Args[2])
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		p.Close()
	}
}
