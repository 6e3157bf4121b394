/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package batch groups colour-tagged toolpaths into pen batches and orders
// them so the least-used pen plots first.
package batch

import (
	"fmt"
	"sort"

	"plotslicer/internal/history"
	"plotslicer/internal/plan"
	"plotslicer/internal/shape"
)

// Entry is one region's (or stroke's) planned output tagged with its
// assigned pen colour. Seq is the document order of the source primitive.
type Entry struct {
	Color shape.Color
	Paths []plan.ToolPath
	Seq   int
}

// ColourBatch is everything one pen draws between pauses. Usage is the
// stored count at scheduling time, before this batch incremented it.
type ColourBatch struct {
	Color shape.Color
	Paths []plan.ToolPath
	Usage int
}

// Plan groups entries by colour keeping document order inside each group,
// orders groups by ascending usage count with first document appearance
// breaking ties, and increments each colour's usage once per scheduled
// batch. A single-colour job yields a single batch.
func Plan(entries []Entry, store history.Store) ([]ColourBatch, error) {
	if store == nil {
		store = history.NewMemoryStore()
	}
	type group struct {
		batch ColourBatch
		first int // first appearance (index into entries)
	}
	var groups []*group
	byKey := make(map[string]*group)
	for i, e := range entries {
		key := e.Color.Hex()
		g, ok := byKey[key]
		if !ok {
			g = &group{batch: ColourBatch{Color: e.Color}, first: i}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.batch.Paths = append(g.batch.Paths, e.Paths...)
	}

	for _, g := range groups {
		n, err := store.Count(g.batch.Color.Hex())
		if err != nil {
			return nil, fmt.Errorf("usage count for %s: %w", g.batch.Color.Hex(), err)
		}
		g.batch.Usage = n
	}
	// groups are in first-appearance order; a stable sort on usage keeps
	// that order as the tie-break
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].batch.Usage < groups[j].batch.Usage })

	out := make([]ColourBatch, 0, len(groups))
	for _, g := range groups {
		if len(g.batch.Paths) == 0 {
			continue
		}
		if err := store.Increment(g.batch.Color.Hex()); err != nil {
			return nil, fmt.Errorf("record usage for %s: %w", g.batch.Color.Hex(), err)
		}
		out = append(out, g.batch)
	}
	return out, nil
}
