package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"

	_ "modernc.org/sqlite"
)

var _ output.MemoryStore = (*SQLiteStore)(nil)

// SQLiteStore persists task outputs across runs.
type SQLiteStore struct {
	conn *sql.DB
	mu   sync.RWMutex
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create memory directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS long_term_memory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			task_name TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding TEXT NOT NULL,
			quality REAL NOT NULL DEFAULT 0,
			suggestions TEXT NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create memory table: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, item entity.MemoryItem) error {
	emb, err := json.Marshal(item.Embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	suggestions, err := json.Marshal(item.Suggestions)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO long_term_memory (run_id, task_name, role, content, embedding, quality, suggestions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.RunID, item.TaskName, item.Role, item.Content, string(emb), item.Quality, string(suggestions), item.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Search(ctx context.Context, embedding []float32, limit int) ([]entity.MemoryMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT run_id, task_name, role, content, embedding, quality, suggestions, created_at
		 FROM long_term_memory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query memory: %w", err)
	}
	defer rows.Close()

	var items []entity.MemoryItem
	for rows.Next() {
		var it entity.MemoryItem
		var emb, suggestions string
		var created int64
		if err := rows.Scan(&it.RunID, &it.TaskName, &it.Role, &it.Content, &emb, &it.Quality, &suggestions, &created); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if err := json.Unmarshal([]byte(emb), &it.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(suggestions), &it.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		it.CreatedAt = time.Unix(0, created)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memory: %w", err)
	}

	return rank(items, embedding, limit), nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
