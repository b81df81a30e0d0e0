// Package store persists the saved-conversation collection in SQLite.
//
// The collection is small and rewritten wholesale on every mutation, so
// SaveAll deletes and reinserts everything inside one transaction and LoadAll
// reads the lot back ordered. Read failures are recovered locally: LoadAll
// returns an empty collection rather than an error.
package store

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cortex/internal/models"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens the history database under the user config directory.
func Open() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return nil, err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return OpenPath(filepath.Join(configDir, "cortex", "history.db"))
}

// OpenPath opens or creates the history database at an explicit path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			model TEXT NOT NULL,
			backend TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			conversation_id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (conversation_id, ord),
			FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_position ON conversations(position);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LoadAll returns the saved conversations, newest first. Any read problem
// yields an empty collection; malformed rows (unknown roles) are dropped.
func (s *Store) LoadAll() []models.Conversation {
	rows, err := s.db.Query(
		"SELECT id, name, created_at, model, backend FROM conversations ORDER BY position ASC",
	)
	if err != nil {
		slog.Debug("conversation load failed, treating store as empty", "error", err)
		return []models.Conversation{}
	}
	defer rows.Close()

	convs := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		var createdMicros int64
		if err := rows.Scan(&c.ID, &c.Name, &createdMicros, &c.Model, &c.Backend); err != nil {
			slog.Debug("conversation row scan failed, treating store as empty", "error", err)
			return []models.Conversation{}
		}
		c.CreatedAt = time.UnixMicro(createdMicros).UTC()
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		slog.Debug("conversation iteration failed, treating store as empty", "error", err)
		return []models.Conversation{}
	}

	for i := range convs {
		convs[i].Messages = s.loadMessages(convs[i].ID)
	}
	return convs
}

func (s *Store) loadMessages(conversationID string) []models.Message {
	rows, err := s.db.Query(
		"SELECT role, content FROM messages WHERE conversation_id = ? ORDER BY ord ASC",
		conversationID,
	)
	if err != nil {
		return []models.Message{}
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var rawRole, content string
		if err := rows.Scan(&rawRole, &content); err != nil {
			return []models.Message{}
		}
		role, ok := models.NormalizeRole(rawRole)
		if !ok {
			slog.Debug("dropping message with unknown role", "conversation", conversationID, "role", rawRole)
			continue
		}
		msgs = append(msgs, models.Message{Role: role, Content: content})
	}
	if err := rows.Err(); err != nil {
		return []models.Message{}
	}
	return msgs
}

// SaveAll replaces the entire persisted collection with convs, preserving
// the given order. Either the whole rewrite lands or none of it does.
func (s *Store) SaveAll(convs []models.Conversation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM conversations"); err != nil {
		return err
	}

	for pos, c := range convs {
		_, err := tx.Exec(
			"INSERT INTO conversations(id, position, name, created_at, model, backend) VALUES(?, ?, ?, ?, ?, ?)",
			c.ID, pos, c.Name, c.CreatedAt.UnixMicro(), c.Model, c.Backend,
		)
		if err != nil {
			return err
		}
		for ord, m := range c.Messages {
			_, err := tx.Exec(
				"INSERT INTO messages(conversation_id, ord, role, content) VALUES(?, ?, ?, ?)",
				c.ID, ord, string(m.Role), m.Content,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
