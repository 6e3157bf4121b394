/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "plotslicer/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the usage database layout. Bump it together with a
// migration when the schema changes.
const schemaVersion = 1

// SQLiteStore keeps usage counts in a small SQLite database so repeated jobs
// share pen-wear history.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the usage database at path, enables WAL mode, and
// ensures the schema exists.
func Open(path string) (*SQLiteStore, error) {
	l := applog.WithOperation(applog.WithComponent("history"), "open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("usage history ready")
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id     INTEGER PRIMARY KEY CHECK(id=1),
			schema INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS usage (
			color TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	var have int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&have)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema) VALUES (1, ?)`, schemaVersion); err != nil {
			return fmt.Errorf("seed schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case have > schemaVersion:
		return fmt.Errorf("history schema %d is newer than supported %d", have, schemaVersion)
	}
	return nil
}

func (s *SQLiteStore) Count(color string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT count FROM usage WHERE color = ?`, color).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read usage for %s: %w", color, err)
	}
	return n, nil
}

func (s *SQLiteStore) Increment(color string) error {
	_, err := s.db.Exec(
		`INSERT INTO usage (color, count) VALUES (?, 1)
		 ON CONFLICT(color) DO UPDATE SET count = count + 1`, color)
	if err != nil {
		return fmt.Errorf("increment usage for %s: %w", color, err)
	}
	return nil
}
