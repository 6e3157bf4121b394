/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package emit

import (
	"bytes"
	"fmt"
	"strings"

	"plotslicer/internal/config"
	"plotslicer/internal/version"
)

// gcodeWriter tracks the modal feedrate so F words appear only on change.
type gcodeWriter struct {
	buf   bytes.Buffer
	lastF float64
}

func (w *gcodeWriter) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *gcodeWriter) move(cmd string, x, y float64, feed float64) {
	if feed != w.lastF {
		w.line(fmt.Sprintf("%s X%.3f Y%.3f F%g", cmd, x, y, feed))
		w.lastF = feed
		return
	}
	w.line(fmt.Sprintf("%s X%.3f Y%.3f", cmd, x, y))
}

func (w *gcodeWriter) zMove(z, feed float64) {
	if feed != w.lastF {
		w.line(fmt.Sprintf("G1 Z%.3f F%g", z, feed))
		w.lastF = feed
		return
	}
	w.line(fmt.Sprintf("G1 Z%.3f", z))
}

// Gcode serializes the motion stream into a textual G-code program: machine
// start sequence, one line per motion primitive (G0 travel, G1 draw, G1 Z
// pen lifts), the configured pause block between batches, and the machine
// end sequence. Feedrates come from the machine profile in mm/min.
func Gcode(st Stream, cfg config.Settings) []byte {
	m := cfg.Machine
	var w gcodeWriter

	w.line(fmt.Sprintf("; plotslicer %s", version.String()))
	if len(st.Summary.ColorOrder) > 0 {
		w.line(fmt.Sprintf("; color order: %s", strings.Join(st.Summary.ColorOrder, " ")))
	}
	w.line(fmt.Sprintf("; estimated draw time: %.1fs", st.Summary.EstimateSeconds))
	for _, l := range m.StartGcode {
		w.line(l)
	}
	w.zMove(m.ZTravel, m.Feedrates.ZFeedrate())

	for _, ins := range st.Instructions {
		switch ins.Kind {
		case OpTravel:
			w.move("G0", ins.Pt.X, ins.Pt.Y, m.Feedrates.TravelFeedrate())
		case OpDraw:
			w.move("G1", ins.Pt.X, ins.Pt.Y, m.Feedrates.DrawFeedrate())
		case OpPenDown:
			w.zMove(m.ZDraw, m.Feedrates.ZFeedrate())
		case OpPenUp:
			w.zMove(m.ZTravel, m.Feedrates.ZFeedrate())
		case OpPause:
			for _, l := range cfg.Palette.PauseGcode {
				w.line(l)
			}
		}
	}
	for _, l := range m.EndGcode {
		w.line(l)
	}
	return w.buf.Bytes()
}
