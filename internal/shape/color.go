/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"fmt"
	"strings"
)

// Color is an opaque sRGB pen or fill colour.
type Color struct{ R, G, B uint8 }

// ParseHexColor parses "#RRGGBB" or "#RGB" (case-insensitive).
func ParseHexColor(s string) (Color, error) {
	t := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c Color
	switch len(t) {
	case 6:
		if _, err := fmt.Sscanf(strings.ToLower(t), "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(strings.ToLower(t), "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		c = Color{r * 17, g * 17, b * 17}
	default:
		return Color{}, fmt.Errorf("parse colour %q: want #RRGGBB or #RGB", s)
	}
	return c, nil
}

// Hex formats the colour as "#rrggbb".
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Luminance returns the Rec. 601 luma in [0, 1].
func (c Color) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// Saturation returns HSV saturation in [0, 1]. Black reports zero.
func (c Color) Saturation() float64 {
	maxC := max(c.R, max(c.G, c.B))
	minC := min(c.R, min(c.G, c.B))
	if maxC == 0 {
		return 0
	}
	return float64(maxC-minC) / float64(maxC)
}
