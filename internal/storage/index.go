/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

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

	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".gsw"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 1
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .gsw/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables and index schema exist.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .gsw dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .gsw dir: %w", err)
	}

	path := IndexPath(projectRoot)
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
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the derived tables: scenes, characters, dialogue,
// and script snapshots. The index is ephemeral and can be rebuilt from the
// script file at any time.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS scenes (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			position       INTEGER NOT NULL,
			heading        TEXT NOT NULL,
			abbreviation   TEXT NOT NULL,
			scene_number   TEXT NOT NULL DEFAULT '',
			start_line     INTEGER NOT NULL,
			element_count  INTEGER NOT NULL,
			dialogue_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS characters (
			name           TEXT PRIMARY KEY,
			cue_count      INTEGER NOT NULL,
			dialogue_lines INTEGER NOT NULL,
			dual_dialogue  INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS dialogue (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_position INTEGER NOT NULL,
			character      TEXT NOT NULL,
			line           INTEGER NOT NULL,
			text           TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_dialogue_character ON dialogue(character);`,
		`CREATE TABLE IF NOT EXISTS script_snapshots (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			ts   TEXT NOT NULL,
			text TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index schema: %w", err)
		}
	}
	return nil
}

// SceneRecord is one row of the scenes table.
type SceneRecord struct {
	Position      int
	Heading       string
	Abbreviation  string
	SceneNumber   string
	StartLine     int
	ElementCount  int
	DialogueCount int
}

// CharacterRecord is one row of the characters table.
type CharacterRecord struct {
	Name          string
	CueCount      int
	DialogueLines int
	DualDialogue  bool
}

// DialogueHit is one dialogue search result.
type DialogueHit struct {
	ScenePosition int
	Character     string
	Line          int
	Text          string
}

// RebuildIndex replaces the derived scene/character/dialogue tables with data
// from the parsed screenplay.
func RebuildIndex(ctx context.Context, projectRoot string, sp *fountain.Screenplay) error {
	if sp == nil {
		return errors.New("nil screenplay")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM scenes`, `DELETE FROM characters`, `DELETE FROM dialogue`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}

	type charStat struct {
		cues  int
		lines int
		dual  bool
	}
	chars := map[string]*charStat{}

	for pos, sc := range sp.Scenes {
		var heading *fountain.Element
		dialogueCount := 0
		currentCue := ""
		for _, e := range sc.Elements {
			switch e.Type {
			case fountain.ElementSceneHeading:
				if heading == nil {
					heading = e
				}
			case fountain.ElementCharacter:
				currentCue = e.Text
				st := chars[currentCue]
				if st == nil {
					st = &charStat{}
					chars[currentCue] = st
				}
				st.cues++
				if e.DualDialogue {
					st.dual = true
				}
			case fountain.ElementDialogue:
				dialogueCount++
				if currentCue != "" {
					chars[currentCue].lines += strings.Count(e.Text, "\n") + 1
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO dialogue(scene_position, character, line, text) VALUES(?, ?, ?, ?)`,
					pos, currentCue, e.OriginalLine, e.Text); err != nil {
					return fmt.Errorf("insert dialogue: %w", err)
				}
			}
		}
		rec := SceneRecord{Position: pos, Heading: sc.HeaderText, Abbreviation: ".", ElementCount: len(sc.Elements), DialogueCount: dialogueCount}
		if heading != nil {
			rec.Abbreviation = heading.SceneAbbreviation
			rec.SceneNumber = heading.SceneNumber
			rec.StartLine = heading.OriginalLine
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenes(position, heading, abbreviation, scene_number, start_line, element_count, dialogue_count) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			rec.Position, rec.Heading, rec.Abbreviation, rec.SceneNumber, rec.StartLine, rec.ElementCount, rec.DialogueCount); err != nil {
			return fmt.Errorf("insert scene: %w", err)
		}
	}

	for name, st := range chars {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO characters(name, cue_count, dialogue_lines, dual_dialogue) VALUES(?, ?, ?, ?)`,
			name, st.cues, st.lines, boolToInt(st.dual)); err != nil {
			return fmt.Errorf("insert character: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(key, value) VALUES('indexed_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("stamp index: %w", err)
	}
	return tx.Commit()
}

// Scenes returns the indexed scene rows in script order.
func Scenes(ctx context.Context, projectRoot string) ([]SceneRecord, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `SELECT position, heading, abbreviation, scene_number, start_line, element_count, dialogue_count FROM scenes ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []SceneRecord
	for rows.Next() {
		var r SceneRecord
		if err := rows.Scan(&r.Position, &r.Heading, &r.Abbreviation, &r.SceneNumber, &r.StartLine, &r.ElementCount, &r.DialogueCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Characters returns the indexed character rows, busiest first.
func Characters(ctx context.Context, projectRoot string) ([]CharacterRecord, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `SELECT name, cue_count, dialogue_lines, dual_dialogue FROM characters ORDER BY dialogue_lines DESC, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CharacterRecord
	for rows.Next() {
		var r CharacterRecord
		var dual int
		if err := rows.Scan(&r.Name, &r.CueCount, &r.DialogueLines, &dual); err != nil {
			return nil, err
		}
		r.DualDialogue = dual != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// SearchDialogue performs a case-insensitive substring search over indexed
// dialogue, optionally restricted to one character.
func SearchDialogue(ctx context.Context, projectRoot, query, character string) ([]DialogueHit, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	q := `SELECT scene_position, character, line, text FROM dialogue WHERE text LIKE ? COLLATE NOCASE`
	args := []any{"%" + query + "%"}
	if character != "" {
		q += ` AND character = ?`
		args = append(args, character)
	}
	q += ` ORDER BY line`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []DialogueHit
	for rows.Next() {
		var h DialogueHit
		if err := rows.Scan(&h.ScenePosition, &h.Character, &h.Line, &h.Text); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
