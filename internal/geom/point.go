/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom provides the planar geometry used by the slicing pipeline:
// points and polylines in machine millimetres, polygons with holes, boolean
// set algebra, offsetting, and curve flattening. Coordinates are float64;
// the merge epsilon below absorbs rounding noise well under any realistic
// pen width.
package geom

import "math"

// Eps is the distance under which two points are considered coincident.
const Eps = 1e-9

// Pt is a 2D point in machine coordinates (mm).
type Pt struct{ X, Y float64 }

// Add returns p + q.
func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by s.
func (p Pt) Mul(s float64) Pt { return Pt{p.X * s, p.Y * s} }

// Dot returns the dot product p·q.
func (p Pt) Dot(q Pt) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of p × q.
func (p Pt) Cross(q Pt) float64 { return p.X*q.Y - p.Y*q.X }

// Dist returns the Euclidean distance between p and q.
func (p Pt) Dist(q Pt) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Near reports whether p and q coincide within Eps.
func (p Pt) Near(q Pt) bool {
	return math.Abs(p.X-q.X) < Eps && math.Abs(p.Y-q.Y) < Eps
}

// Norm returns the length of the vector p.
func (p Pt) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Unit returns the unit vector of p, or the zero point if p is degenerate.
func (p Pt) Unit() Pt {
	n := p.Norm()
	if n < Eps {
		return Pt{}
	}
	return Pt{p.X / n, p.Y / n}
}

// Perp returns p rotated 90° counter-clockwise.
func (p Pt) Perp() Pt { return Pt{-p.Y, p.X} }

// Rect is an axis-aligned bounding box.
type Rect struct{ MinX, MinY, MaxX, MaxY float64 }

// W returns the rectangle width.
func (r Rect) W() float64 { return r.MaxX - r.MinX }

// H returns the rectangle height.
func (r Rect) H() float64 { return r.MaxY - r.MinY }

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Diagonal returns the length of the rectangle diagonal.
func (r Rect) Diagonal() float64 { return math.Hypot(r.W(), r.H()) }

// Affine represents a 2D affine transform as the matrix
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Affine struct{ A, B, C, D, E, F float64 }

// Identity is the no-op transform.
var Identity = Affine{A: 1, D: 1}

// Mul composes m with n (m applied after n).
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply transforms point p.
func (m Affine) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Translate returns a translation transform.
func Translate(tx, ty float64) Affine { return Affine{A: 1, D: 1, E: tx, F: ty} }

// Scale returns a scaling transform about the origin.
func Scale(sx, sy float64) Affine { return Affine{A: sx, D: sy} }

// Rotate returns a rotation (radians, counter-clockwise) about the origin.
func Rotate(rad float64) Affine {
	c, s := math.Cos(rad), math.Sin(rad)
	return Affine{A: c, B: s, C: -s, D: c}
}

// RotateAround returns a rotation about the given pivot point.
func RotateAround(rad float64, pivot Pt) Affine {
	return Translate(pivot.X, pivot.Y).Mul(Rotate(rad)).Mul(Translate(-pivot.X, -pivot.Y))
}

// Polyline is an open sequence of points drawn as connected segments.
type Polyline []Pt

// Length returns the total polyline length.
func (pl Polyline) Length() float64 {
	var sum float64
	for i := 1; i < len(pl); i++ {
		sum += pl[i-1].Dist(pl[i])
	}
	return sum
}

// Reverse returns a reversed copy of the polyline.
func (pl Polyline) Reverse() Polyline {
	out := make(Polyline, len(pl))
	for i, p := range pl {
		out[len(pl)-1-i] = p
	}
	return out
}

// Transform returns the polyline with m applied to every point.
func (pl Polyline) Transform(m Affine) Polyline {
	out := make(Polyline, len(pl))
	for i, p := range pl {
		out[i] = m.Apply(p)
	}
	return out
}

// Bounds returns the bounding box of the polyline; zero Rect when empty.
func (pl Polyline) Bounds() Rect {
	if len(pl) == 0 {
		return Rect{}
	}
	r := Rect{pl[0].X, pl[0].Y, pl[0].X, pl[0].Y}
	for _, p := range pl[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// Dedup returns the polyline with consecutive near-coincident points merged.
func (pl Polyline) Dedup() Polyline {
	if len(pl) == 0 {
		return pl
	}
	out := Polyline{pl[0]}
	for _, p := range pl[1:] {
		if !p.Near(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}

// Simplify reduces the polyline with the Douglas-Peucker algorithm to the
// given perpendicular tolerance. Endpoints are always kept.
func (pl Polyline) Simplify(tol float64) Polyline {
	if tol <= 0 || len(pl) < 3 {
		return pl
	}
	keep := make([]bool, len(pl))
	keep[0], keep[len(pl)-1] = true, true
	simplifyRange(pl, 0, len(pl)-1, tol, keep)
	out := make(Polyline, 0, len(pl))
	for i, k := range keep {
		if k {
			out = append(out, pl[i])
		}
	}
	return out
}

func simplifyRange(pl Polyline, lo, hi int, tol float64, keep []bool) {
	if hi <= lo+1 {
		return
	}
	a, b := pl[lo], pl[hi]
	maxD, maxI := -1.0, -1
	for i := lo + 1; i < hi; i++ {
		d := perpDistance(pl[i], a, b)
		if d > maxD {
			maxD, maxI = d, i
		}
	}
	if maxD <= tol {
		return
	}
	keep[maxI] = true
	simplifyRange(pl, lo, maxI, tol, keep)
	simplifyRange(pl, maxI, hi, tol, keep)
}

func perpDistance(p, a, b Pt) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Eps {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(a.Add(ab.Mul(t)))
}
