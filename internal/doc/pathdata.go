/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package doc

import (
	"fmt"
	"strconv"
	"strings"

	"plotslicer/internal/geom"
)

// ParsePathData parses SVG-style path data into a geom.Path. Supported
// commands: M/m, L/l, H/h, V/v, C/c, Q/q, Z/z, with implicit repetition of
// the previous command for extra coordinate groups. Arcs are not supported
// and fail parsing.
func ParsePathData(d string) (geom.Path, error) {
	var p geom.Path
	toks, err := tokenize(d)
	if err != nil {
		return p, err
	}

	var cur, start geom.Pt
	i := 0
	cmd := byte(0)
	for i < len(toks) {
		t := toks[i]
		if t.isCmd {
			cmd = t.cmd
			i++
			if cmd == 'Z' || cmd == 'z' {
				p.Close()
				cur = start
				continue
			}
		} else if cmd == 0 {
			return geom.Path{}, fmt.Errorf("path data starts with a number, want a command")
		} else if cmd == 'M' {
			cmd = 'L' // implicit lineto after moveto
		} else if cmd == 'm' {
			cmd = 'l'
		}
		rel := cmd >= 'a'
		base := geom.Pt{}
		if rel {
			base = cur
		}
		num := func() (float64, error) {
			if i >= len(toks) || toks[i].isCmd {
				return 0, fmt.Errorf("path command %c: missing coordinate", cmd)
			}
			v := toks[i].val
			i++
			return v, nil
		}
		pt := func() (geom.Pt, error) {
			x, err := num()
			if err != nil {
				return geom.Pt{}, err
			}
			y, err := num()
			if err != nil {
				return geom.Pt{}, err
			}
			return geom.Pt{X: base.X + x, Y: base.Y + y}, nil
		}

		switch cmd {
		case 'M', 'm':
			q, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			p.MoveTo(q.X, q.Y)
			cur, start = q, q
		case 'L', 'l':
			q, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			p.LineTo(q.X, q.Y)
			cur = q
		case 'H', 'h':
			x, err := num()
			if err != nil {
				return geom.Path{}, err
			}
			cur = geom.Pt{X: base.X + x, Y: cur.Y}
			p.LineTo(cur.X, cur.Y)
		case 'V', 'v':
			y, err := num()
			if err != nil {
				return geom.Path{}, err
			}
			cur = geom.Pt{X: cur.X, Y: base.Y + y}
			p.LineTo(cur.X, cur.Y)
		case 'C', 'c':
			c1, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			c2, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			q, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
			cur = q
		case 'Q', 'q':
			c1, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			q, err := pt()
			if err != nil {
				return geom.Path{}, err
			}
			p.QuadTo(c1.X, c1.Y, q.X, q.Y)
			cur = q
		default:
			return geom.Path{}, fmt.Errorf("unsupported path command %c", cmd)
		}
	}
	return p, nil
}

type token struct {
	isCmd bool
	cmd   byte
	val   float64
}

func tokenize(d string) ([]token, error) {
	var toks []token
	s := strings.TrimSpace(d)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			toks = append(toks, token{isCmd: true, cmd: c})
			i++
		default:
			j := i
			if s[j] == '-' || s[j] == '+' {
				j++
			}
			for j < len(s) && (s[j] == '.' || (s[j] >= '0' && s[j] <= '9') || s[j] == 'e' || s[j] == 'E' ||
				((s[j] == '-' || s[j] == '+') && (s[j-1] == 'e' || s[j-1] == 'E'))) {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("unexpected character %q in path data", c)
			}
			v, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("bad coordinate %q: %w", s[i:j], err)
			}
			toks = append(toks, token{val: v})
			i = j
		}
	}
	return toks, nil
}
