// Package store persists compiled programs and REPL history in SQLite.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skein-lang/skein/lang"
)

// ErrNotFound indicates the requested program doesn't exist
var ErrNotFound = errors.New("program not found")

// Store handles SQLite storage for programs and session history
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the store database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Create tables if needed
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		hash TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		image BLOB NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating programs table: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		input TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HashSource returns the content address of a program source
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// SaveProgram persists a compiled program under the content address of
// its source and returns that address. Saving the same source twice is
// a no-op overwrite.
func (s *Store) SaveProgram(source string, code *lang.Code) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	image, err := lang.MarshalCode(code)
	if err != nil {
		return "", fmt.Errorf("encoding program: %w", err)
	}

	hash := HashSource(source)
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO programs (hash, source, image, created_at) VALUES (?, ?, ?, ?)",
		hash, source, image, now(),
	)
	if err != nil {
		return "", fmt.Errorf("saving program: %w", err)
	}
	return hash, nil
}

// LoadProgram retrieves a program by content address
func (s *Store) LoadProgram(hash string) (string, *lang.Code, error) {
	var source string
	var image []byte
	err := s.db.QueryRow("SELECT source, image FROM programs WHERE hash = ?", hash).Scan(&source, &image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("querying program: %w", err)
	}

	code, err := lang.UnmarshalCode(image)
	if err != nil {
		return "", nil, fmt.Errorf("decoding program %s: %w", hash, err)
	}
	return source, code, nil
}

// AppendHistory records one REPL input for a session
func (s *Store) AppendHistory(session, input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO history (session, input, created_at) VALUES (?, ?, ?)",
		session, input, now(),
	)
	if err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// History returns a session's inputs in the order they were entered
func (s *Store) History(session string) ([]string, error) {
	rows, err := s.db.Query("SELECT input FROM history WHERE session = ? ORDER BY id", session)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var inputs []string
	for rows.Next() {
		var input string
		if err := rows.Scan(&input); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		inputs = append(inputs, input)
	}
	return inputs, rows.Err()
}

// Sessions returns every session id with recorded history, oldest first
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query("SELECT session FROM history GROUP BY session ORDER BY MIN(id)")
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("scanning sessions: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
