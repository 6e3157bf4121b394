/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// CapStyle selects how polyline buffer ends are closed.
type CapStyle uint8

const (
	// CapFlat cuts the buffer off square at the end points.
	CapFlat CapStyle = iota
	// CapRound extends the buffer with a semicircle around each end point.
	CapRound
)

// joinArcSteps is the number of chords used to approximate a full circle at
// buffer joins. 16 keeps the chord error under 2% of the radius, which is
// well inside pen-width tolerances.
const joinArcSteps = 16

// arcRing approximates a full disc of the given radius around c.
func arcRing(c Pt, radius float64) Ring {
	r := make(Ring, 0, joinArcSteps)
	for i := 0; i < joinArcSteps; i++ {
		a := 2 * math.Pi * float64(i) / joinArcSteps
		r = append(r, Pt{c.X + radius*math.Cos(a), c.Y + radius*math.Sin(a)})
	}
	return r
}

// segmentQuad returns the rectangle covering the segment a→b swept by radius.
func segmentQuad(a, b Pt, radius float64) (Ring, bool) {
	d := b.Sub(a)
	if d.Norm() < Eps {
		return nil, false
	}
	n := d.Unit().Perp().Mul(radius)
	return Ring{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, true
}

// BufferPolyline returns the region within radius of the polyline, built
// from per-segment quads and join discs merged through the clipper. Caps
// control the treatment of the two open ends; joins are always round.
func BufferPolyline(line Polyline, radius float64, capStyle CapStyle) PolySet {
	line = line.Dedup()
	if len(line) < 2 || radius <= 0 {
		return nil
	}
	var pieces []PolySet
	for i := 1; i < len(line); i++ {
		if q, ok := segmentQuad(line[i-1], line[i], radius); ok {
			pieces = append(pieces, PolySet{{Outer: q}})
		}
	}
	// Round joins at interior vertices keep the band watertight on turns.
	for i := 1; i < len(line)-1; i++ {
		pieces = append(pieces, PolySet{{Outer: arcRing(line[i], radius)}})
	}
	if capStyle == CapRound {
		pieces = append(pieces, PolySet{{Outer: arcRing(line[0], radius)}})
		pieces = append(pieces, PolySet{{Outer: arcRing(line[len(line)-1], radius)}})
	}
	return UnionAll(pieces)
}

// BufferRing buffers a closed ring on both sides, producing the band of
// points within radius of the ring boundary.
func BufferRing(ring Ring, radius float64) PolySet {
	if len(ring) < 3 || radius <= 0 {
		return nil
	}
	var pieces []PolySet
	n := len(ring)
	for i := 0; i < n; i++ {
		if q, ok := segmentQuad(ring[i], ring[(i+1)%n], radius); ok {
			pieces = append(pieces, PolySet{{Outer: q}})
		}
		pieces = append(pieces, PolySet{{Outer: arcRing(ring[i], radius)}})
	}
	return UnionAll(pieces)
}

// boundaryBand returns the band of points within radius of any ring of ps.
func boundaryBand(ps PolySet, radius float64) PolySet {
	var pieces []PolySet
	for _, p := range ps {
		for _, r := range p.Rings() {
			if band := BufferRing(r, radius); band != nil {
				pieces = append(pieces, band)
			}
		}
	}
	return UnionAll(pieces)
}

// Erode shrinks the region by distance d: the result is the set of points
// of ps farther than d from its boundary. Thin features vanish; the result
// may be empty or split into multiple polygons.
func Erode(ps PolySet, d float64) PolySet {
	if ps.Empty() {
		return nil
	}
	if d <= 0 {
		return ps
	}
	return Difference(ps, boundaryBand(ps, d))
}

// Dilate grows the region by distance d.
func Dilate(ps PolySet, d float64) PolySet {
	if ps.Empty() {
		return nil
	}
	if d <= 0 {
		return ps
	}
	return Union(ps, boundaryBand(ps, d))
}

// Open performs a morphological opening (erode then dilate, clipped back to
// the original region). The result keeps only the parts of ps that are
// locally at least 2×radius wide.
func Open(ps PolySet, radius float64) PolySet {
	eroded := Erode(ps, radius)
	if eroded.Empty() {
		return nil
	}
	return Intersection(Dilate(eroded, radius), ps)
}
