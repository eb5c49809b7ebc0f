// Package history хранит журнал распознанных фраз в SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // sqlite driver
)

// ErrClosed возвращается после Close.
var ErrClosed = errors.New("history: store closed")

// Entry - одна запись журнала.
type Entry struct {
	ID           int64
	SessionID    string
	StartedAt    time.Time
	Duration     time.Duration
	KeyIndex     int
	Model        string
	RewriteModel string
	Text         string
	Error        string
}

// Failed возвращает true если сессия завершилась ошибкой.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// Store - журнал в файле SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// Open открывает (или создаёт) журнал по пути path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// Один writer: sqlite не любит конкурентные записи из пула.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect history: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		`CREATE TABLE IF NOT EXISTS transcripts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			key_index INTEGER NOT NULL DEFAULT -1,
			model TEXT NOT NULL DEFAULT '',
			rewrite_model TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT ''
		)`,
		"CREATE INDEX IF NOT EXISTS idx_transcripts_started ON transcripts(started_at)",
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init history schema: %w", err)
		}
	}
	return nil
}

// Path возвращает путь к файлу журнала.
func (s *Store) Path() string {
	return s.path
}

// Add сохраняет запись и возвращает её id.
func (s *Store) Add(ctx context.Context, e Entry) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transcripts (session_id, started_at, duration_ms, key_index, model, rewrite_model, text, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.StartedAt.UnixMilli(), e.Duration.Milliseconds(),
		e.KeyIndex, e.Model, e.RewriteModel, e.Text, e.Error)
	if err != nil {
		return 0, fmt.Errorf("insert transcript: %w", err)
	}
	return res.LastInsertId()
}

// Recent возвращает последние limit записей, новые первыми.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, started_at, duration_ms, key_index, model, rewrite_model, text, error
		FROM transcripts
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var startedMs, durationMs int64
		if err := rows.Scan(&e.ID, &e.SessionID, &startedMs, &durationMs,
			&e.KeyIndex, &e.Model, &e.RewriteModel, &e.Text, &e.Error); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		e.StartedAt = time.UnixMilli(startedMs)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear удаляет все записи и возвращает их число.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM transcripts")
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	return res.RowsAffected()
}

// Close закрывает журнал. Повторный вызов безопасен.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
