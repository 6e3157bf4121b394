/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package emit flattens ordered colour batches into the motion-primitive
// stream a plotter consumes, with a motion-only time estimate.
package emit

import (
	"plotslicer/internal/batch"
	"plotslicer/internal/geom"
)

// OpKind is one motion primitive.
type OpKind uint8

const (
	OpTravel OpKind = iota
	OpPenDown
	OpDraw
	OpPenUp
	OpPause
)

func (k OpKind) String() string {
	switch k {
	case OpTravel:
		return "travel"
	case OpPenDown:
		return "pen-down"
	case OpDraw:
		return "draw"
	case OpPenUp:
		return "pen-up"
	case OpPause:
		return "pause"
	default:
		return "unknown"
	}
}

// Instruction is one motion primitive. Pt is meaningful for travel and draw.
type Instruction struct {
	Kind OpKind
	Pt   geom.Pt
}

// Summary annotates the stream: instruction count, the colour order actually
// scheduled (empty for monochrome), and the estimated pen-down time. Travel
// and pen lifts are excluded from the estimate.
type Summary struct {
	InstructionCount int
	ColorOrder       []string
	EstimateSeconds  float64
}

// Stream is the complete, ordered output for one job.
type Stream struct {
	Instructions []Instruction
	Summary      Summary
}

// Emit serializes batches in order. Each path travels pen-up to its first
// point, pens down, draws its segments, then pens up; interior travel
// segments (hatch hops) lift and lower the pen around the hop. The pause
// marker lands strictly between batches. Each batch is appended wholesale,
// never partially. drawMMS is the pen-down feedrate in mm/s. colorOrder is
// reported only when colorMode is set.
func Emit(batches []batch.ColourBatch, drawMMS float64, colorMode bool) Stream {
	var st Stream
	var drawnMM float64
	pos := geom.Pt{}
	for bi, b := range batches {
		if bi > 0 {
			st.Instructions = append(st.Instructions, Instruction{Kind: OpPause})
		}
		if colorMode {
			st.Summary.ColorOrder = append(st.Summary.ColorOrder, b.Color.Hex())
		}
		ins := st.Instructions
		for _, tp := range b.Paths {
			if tp.Empty() {
				continue
			}
			if !pos.Near(tp.Start()) {
				ins = append(ins, Instruction{Kind: OpTravel, Pt: tp.Start()})
			}
			ins = append(ins, Instruction{Kind: OpPenDown})
			penDown := true
			for _, s := range tp.Segs {
				if s.Travel {
					if penDown {
						ins = append(ins, Instruction{Kind: OpPenUp})
						penDown = false
					}
					ins = append(ins, Instruction{Kind: OpTravel, Pt: s.B})
					continue
				}
				if !penDown {
					ins = append(ins, Instruction{Kind: OpPenDown})
					penDown = true
				}
				ins = append(ins, Instruction{Kind: OpDraw, Pt: s.B})
				drawnMM += s.Length()
			}
			if penDown {
				ins = append(ins, Instruction{Kind: OpPenUp})
			}
			pos = tp.End()
		}
		st.Instructions = ins
	}
	st.Summary.InstructionCount = len(st.Instructions)
	if drawMMS > 0 {
		st.Summary.EstimateSeconds = drawnMM / drawMMS
	}
	return st
}
