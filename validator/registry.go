package validator

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DuplicateRegistry records which files have used each message ID. Lookup and
// registration are one atomic operation so that two concurrent runs of files
// carrying the same ID cannot both observe an empty history.
type DuplicateRegistry interface {
	// CheckAndRegister records that filename used msgID and returns the
	// filenames that used it before this call, in registration order.
	CheckAndRegister(msgID, filename string) ([]string, error)
}

// MemoryRegistry keeps message-ID history in process memory. It is the
// default registry and suits single-process batch runs and tests.
type MemoryRegistry struct {
	mu   sync.Mutex
	seen map[string][]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{seen: make(map[string][]string)}
}

func (r *MemoryRegistry) CheckAndRegister(msgID, filename string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prior := r.seen[msgID]
	out := make([]string, len(prior))
	copy(out, prior)
	r.seen[msgID] = append(r.seen[msgID], filename)
	return out, nil
}

// SQLiteRegistry persists message-ID history so duplicate detection survives
// process restarts and is shared across processes pointed at the same file.
type SQLiteRegistry struct {
	db *sql.DB
}

// NewSQLiteRegistry opens (creating if needed) the registry database at dsn.
func NewSQLiteRegistry(dsn string) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}
	// Serialized access keeps CheckAndRegister atomic across connections.
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS message_ids (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	msg_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	seen_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_message_ids_msg_id ON message_ids(msg_id);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize registry schema: %w", err)
	}
	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) CheckAndRegister(msgID, filename string) ([]string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin registry transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT filename FROM message_ids WHERE msg_id = ? ORDER BY id`, msgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registry: %w", err)
	}
	var prior []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan registry row: %w", err)
		}
		prior = append(prior, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read registry rows: %w", err)
	}
	rows.Close()

	if _, err := tx.Exec(
		`INSERT INTO message_ids (msg_id, filename, seen_at) VALUES (?, ?, ?)`,
		msgID, filename, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("failed to register message ID: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registry transaction: %w", err)
	}
	return prior, nil
}

func (r *SQLiteRegistry) Close() error { return r.db.Close() }
