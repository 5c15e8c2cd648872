// Package sqlite provides a durable ConversationStore backed by SQLite.
// Messages are stored one row each in insertion order so history survives
// process restarts; tool call lists are serialized as JSON.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hupe1980/agentgate/core"
)

// Store persists one conversation per database file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite store at the given path.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT NOT NULL,
			role         TEXT NOT NULL,
			text         TEXT NOT NULL,
			tool_calls   TEXT NOT NULL DEFAULT '',
			tool_call_id TEXT NOT NULL DEFAULT '',
			timestamp    TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create messages table: %w", err)
	}

	return &Store{db: db}, nil
}

// Append adds a finalized message to the end of the history.
func (s *Store) Append(msg core.Message) error {
	var calls string
	if len(msg.ToolCalls) > 0 {
		data, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return fmt.Errorf("marshal tool calls: %w", err)
		}
		calls = string(data)
	}

	_, err := s.db.Exec(
		`INSERT INTO messages (id, role, text, tool_calls, tool_call_id, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Text, calls, msg.ToolCallID, msg.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// History returns the ordered message history.
func (s *Store) History() ([]core.Message, error) {
	rows, err := s.db.Query(
		`SELECT id, role, text, tool_calls, tool_call_id, timestamp FROM messages ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []core.Message
	for rows.Next() {
		var (
			m     core.Message
			role  string
			calls string
			ts    string
		)
		if err := rows.Scan(&m.ID, &role, &m.Text, &calls, &m.ToolCallID, &ts); err != nil {
			return nil, err
		}
		m.Role = core.Role(role)
		if calls != "" {
			if err := json.Unmarshal([]byte(calls), &m.ToolCalls); err != nil {
				return nil, fmt.Errorf("parse tool calls: %w", err)
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			m.Timestamp = t
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ core.ConversationStore = (*Store)(nil)
