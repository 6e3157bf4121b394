/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history persists per-colour usage counts across slicing runs so
// the batch planner can schedule the least-used pens first.
package history

// Store is the usage-count source the batch planner consumes. Counts key on
// the palette colour's hex form.
type Store interface {
	// Count returns the recorded usage for a colour; unknown colours are zero.
	Count(color string) (int, error)
	// Increment records one more scheduled batch for a colour.
	Increment(color string) error
}

// MemoryStore keeps counts for a single run. It is the default when no
// history database is configured, and the test double everywhere else.
type MemoryStore struct {
	counts map[string]int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{counts: make(map[string]int)} }

// Seed pre-loads a count, for tests and imports.
func (m *MemoryStore) Seed(color string, count int) {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[color] = count
}

func (m *MemoryStore) Count(color string) (int, error) { return m.counts[color], nil }

func (m *MemoryStore) Increment(color string) error {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[color]++
	return nil
}
