// Package transcripts persists dictation results so the last transcript can
// be re-pasted and a short history shown in the UI.
package transcripts

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Transcript is one completed dictation.
type Transcript struct {
	ID        string    `json:"id"`
	RawText   string    `json:"raw_text"`
	CleanText string    `json:"clean_text"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrNoTranscripts is returned when history is queried before anything has
// been recorded.
var ErrNoTranscripts = errors.New("no transcripts recorded")

// Store keeps transcripts in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the transcript database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open transcript db: %w", err)
	}
	s := &Store{db: db}
	if err := s.initDB(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS transcripts (
			id TEXT PRIMARY KEY,
			raw_text TEXT NOT NULL,
			clean_text TEXT NOT NULL,
			provider TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create transcripts table: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at)`)
	if err != nil {
		return fmt.Errorf("create transcripts index: %w", err)
	}
	return nil
}

// Add stores a new transcript and returns it with its assigned ID.
func (s *Store) Add(rawText, cleanText, provider string) (Transcript, error) {
	rec := Transcript{
		ID:        uuid.NewString(),
		RawText:   rawText,
		CleanText: cleanText,
		Provider:  provider,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO transcripts (id, raw_text, clean_text, provider, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.RawText, rec.CleanText, rec.Provider, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Transcript{}, fmt.Errorf("insert transcript: %w", err)
	}
	return rec, nil
}

// Last returns the most recently recorded transcript.
func (s *Store) Last() (Transcript, error) {
	row := s.db.QueryRow(
		`SELECT id, raw_text, clean_text, provider, created_at
		 FROM transcripts ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	)
	rec, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transcript{}, ErrNoTranscripts
	}
	if err != nil {
		return Transcript{}, fmt.Errorf("query last transcript: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit transcripts, newest first.
func (s *Store) Recent(limit int) ([]Transcript, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, raw_text, clean_text, provider, created_at
		 FROM transcripts ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent transcripts: %w", err)
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		rec, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript rows: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranscript(row rowScanner) (Transcript, error) {
	var rec Transcript
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.RawText, &rec.CleanText, &rec.Provider, &createdAt); err != nil {
		return Transcript{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Transcript{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = ts
	return rec, nil
}
