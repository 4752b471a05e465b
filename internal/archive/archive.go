// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed research sessions to SQLite and serves
// the history view. Sessions are write-once records: a running pipeline only
// ever appends, and nothing here feeds back into a live session.
// See docs/ARCHITECTURE.md § Session Archive.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deep-research/internal/research"
	"github.com/pdiddy/deep-research/pkg/types"
)

const defaultMaxResults = 20

const sessionColumns = `SELECT id, topic, report, created_at, cycles, converged, citations,
	completion_calls, search_calls, evidence, selected`

// Store manages the session archive SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the archive database at cfg.Path. It creates the
// schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("archive path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	s := &Store{db: db, maxResults: defaultMaxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			topic TEXT NOT NULL,
			report TEXT NOT NULL,
			created_at TEXT NOT NULL,
			cycles INTEGER NOT NULL,
			converged INTEGER NOT NULL,
			citations INTEGER NOT NULL,
			completion_calls INTEGER NOT NULL,
			search_calls INTEGER NOT NULL,
			evidence TEXT,
			selected TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over topic and report. Sessions never update, so
	// insert and delete triggers suffice.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sessions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sessions_fts USING fts5(topic, report, content=sessions, content_rowid=rowid)`,
			`CREATE TRIGGER sessions_ai AFTER INSERT ON sessions BEGIN
				INSERT INTO sessions_fts(rowid, topic, report) VALUES (new.rowid, new.topic, new.report);
			END`,
			`CREATE TRIGGER sessions_ad AFTER DELETE ON sessions BEGIN
				INSERT INTO sessions_fts(sessions_fts, rowid, topic, report) VALUES('delete', old.rowid, old.topic, old.report);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Session is an archived research run.
type Session struct {
	ID        string          `json:"id" yaml:"id"`
	Topic     string          `json:"topic" yaml:"topic"`
	Report    string          `json:"report" yaml:"report"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Cycles    int             `json:"cycles" yaml:"cycles"`
	Converged bool            `json:"converged" yaml:"converged"`
	Citations int             `json:"citations" yaml:"citations"`
	Evidence  []string        `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Selected  []int           `json:"selected,omitempty" yaml:"selected,omitempty"`
	Stats     types.CallStats `json:"stats" yaml:"stats"`
}

// Save archives a completed session. Session IDs are unique per run, so
// saving the same session twice is an error.
func (s *Store) Save(ctx context.Context, result research.Result) error {
	evidenceJSON, _ := json.Marshal(result.Evidence)
	selectedJSON, _ := json.Marshal(result.Selected)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, topic, report, created_at, cycles, converged, citations,
			completion_calls, search_calls, evidence, selected)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.SessionID, result.Topic, result.Report,
		time.Now().UTC().Format(time.RFC3339),
		result.Cycles, result.Converged, result.Citations,
		result.Stats.CompletionCalls, result.Stats.SearchCalls,
		string(evidenceJSON), string(selectedJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// List returns the most recent sessions, newest first. A limit of zero uses
// the store default.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	// created_at has second precision; rowid breaks same-second ties.
	rows, err := s.db.QueryContext(ctx,
		sessionColumns+` FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return collectSessions(rows)
}

// Get returns the session whose ID matches id, accepting any unambiguous
// prefix of the full session ID.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("session ID is empty")
	}

	rows, err := s.db.QueryContext(ctx,
		sessionColumns+` FROM sessions WHERE id LIKE ? ORDER BY created_at DESC LIMIT 2`,
		id+"%")
	if err != nil {
		return Session{}, fmt.Errorf("querying session: %w", err)
	}

	sessions, err := collectSessions(rows)
	if err != nil {
		return Session{}, err
	}
	switch len(sessions) {
	case 0:
		return Session{}, fmt.Errorf("session %s not found", id)
	case 1:
		return sessions[0], nil
	}
	return Session{}, fmt.Errorf("session ID %s is ambiguous", id)
}

// Search runs a full-text query over session topics and reports, ranked by
// relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.topic, s.report, s.created_at, s.cycles, s.converged, s.citations,
			s.completion_calls, s.search_calls, s.evidence, s.selected
		FROM sessions_fts
		JOIN sessions s ON s.rowid = sessions_fts.rowid
		WHERE sessions_fts MATCH ?
		ORDER BY sessions_fts.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess         Session
			createdAt    string
			evidenceJSON sql.NullString
			selectedJSON sql.NullString
		)
		if err := rows.Scan(
			&sess.ID, &sess.Topic, &sess.Report, &createdAt,
			&sess.Cycles, &sess.Converged, &sess.Citations,
			&sess.Stats.CompletionCalls, &sess.Stats.SearchCalls,
			&evidenceJSON, &selectedJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sess.CreatedAt = t
		}
		if evidenceJSON.Valid {
			json.Unmarshal([]byte(evidenceJSON.String), &sess.Evidence)
		}
		if selectedJSON.Valid {
			json.Unmarshal([]byte(selectedJSON.String), &sess.Selected)
		}

		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}
