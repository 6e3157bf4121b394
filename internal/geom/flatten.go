/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Path commands for input primitives. Curves are flattened to polylines by
// Flatten before any planning happens.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo  // quadratic bezier (cx, cy, x, y)
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	ClosePath
)

// PathCmd is one path command; unused Data slots are zero.
type PathCmd struct {
	Op   PathOp
	Data [6]float64
}

// Path is a sequence of commands describing one or more subpaths.
type Path struct{ Cmds []PathCmd }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}

// LineTo appends a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}

// QuadTo appends a quadratic Bézier through control (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Data: [6]float64{cx, cy, x, y}})
}

// CubicTo appends a cubic Bézier to (x, y).
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}

// Close closes the current subpath.
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: ClosePath}) }

// Empty reports whether the path holds no commands.
func (p *Path) Empty() bool { return p == nil || len(p.Cmds) == 0 }

// maxFlattenPoints bounds the number of sampled points per path so that a
// pathological tolerance cannot hang the run; sampling degrades gracefully
// past the cap.
const maxFlattenPoints = 65536

// FlattenOpts controls curve sampling. Tolerance is the chord length target
// in mm; DetailScale multiplies the sample count (>1 = finer).
type FlattenOpts struct {
	Tolerance   float64
	DetailScale float64
}

func (o FlattenOpts) steps(chordLen float64) int {
	tol := math.Max(o.Tolerance, 0.1)
	scale := o.DetailScale
	if scale <= 0 {
		scale = 1
	}
	n := int(chordLen / tol * scale)
	if n < 1 {
		n = 1
	}
	return n
}

// Flatten samples the path into one polyline per subpath. Closed subpaths
// repeat their first point at the end. Curves are sampled at a chord length
// near o.Tolerance, estimated from the control polygon length.
func (p *Path) Flatten(o FlattenOpts) []Polyline {
	if p.Empty() {
		return nil
	}
	var out []Polyline
	var cur Polyline
	var pen, start Pt
	total := 0

	flush := func() {
		if len(cur) >= 2 {
			out = append(out, cur.Dedup())
		}
		cur = nil
	}
	appendPt := func(pt Pt) {
		if total < maxFlattenPoints {
			cur = append(cur, pt)
			total++
		}
	}

	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			flush()
			pen = Pt{c.Data[0], c.Data[1]}
			start = pen
			appendPt(pen)
		case LineTo:
			next := Pt{c.Data[0], c.Data[1]}
			if len(cur) == 0 {
				appendPt(pen)
			}
			appendPt(next)
			pen = next
		case QuadTo:
			c1 := Pt{c.Data[0], c.Data[1]}
			end := Pt{c.Data[2], c.Data[3]}
			if len(cur) == 0 {
				appendPt(pen)
			}
			chord := pen.Dist(c1) + c1.Dist(end)
			n := o.steps(chord)
			for s := 1; s <= n; s++ {
				appendPt(quadAt(pen, c1, end, float64(s)/float64(n)))
			}
			pen = end
		case CubicTo:
			c1 := Pt{c.Data[0], c.Data[1]}
			c2 := Pt{c.Data[2], c.Data[3]}
			end := Pt{c.Data[4], c.Data[5]}
			if len(cur) == 0 {
				appendPt(pen)
			}
			chord := pen.Dist(c1) + c1.Dist(c2) + c2.Dist(end)
			n := o.steps(chord)
			for s := 1; s <= n; s++ {
				appendPt(cubicAt(pen, c1, c2, end, float64(s)/float64(n)))
			}
			pen = end
		case ClosePath:
			if len(cur) > 0 && !pen.Near(start) {
				appendPt(start)
				pen = start
			}
		}
	}
	flush()
	return out
}

// FlattenRings flattens the path and closes every subpath into a ring,
// dropping degenerate loops with fewer than 3 distinct points.
func (p *Path) FlattenRings(o FlattenOpts) []Ring {
	var rings []Ring
	for _, pl := range p.Flatten(o) {
		pl = pl.Dedup()
		if len(pl) > 1 && pl[0].Near(pl[len(pl)-1]) {
			pl = pl[:len(pl)-1]
		}
		if len(pl) >= 3 {
			rings = append(rings, Ring(pl))
		}
	}
	return rings
}

func quadAt(p0, p1, p2 Pt, t float64) Pt {
	u := 1 - t
	return Pt{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 Pt, t float64) Pt {
	u := 1 - t
	u2, t2 := u*u, t*t
	return Pt{
		X: u2*u*p0.X + 3*u2*t*p1.X + 3*u*t2*p2.X + t2*t*p3.X,
		Y: u2*u*p0.Y + 3*u2*t*p1.Y + 3*u*t2*p2.Y + t2*t*p3.Y,
	}
}
