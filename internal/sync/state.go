package sync

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB is the local sync ledger: it remembers which offline session
// files already reached the server, so interrupted or repeated runs never
// re-send a session.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the sync ledger at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS synced_sessions (
		file_path TEXT PRIMARY KEY,
		byte_size INTEGER NOT NULL,
		sha256    TEXT NOT NULL,
		synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsSynced reports whether the file was already sent with identical
// content. A changed size or checksum means the session was re-exported
// and must be re-sent.
func (s *StateDB) IsSynced(relPath string, size int64, sum string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM synced_sessions WHERE file_path = ? AND byte_size = ? AND sha256 = ?`,
		relPath, size, sum,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSynced records a successful upload, replacing any stale entry left
// by an earlier export of the same file.
func (s *StateDB) MarkSynced(relPath string, size int64, sum string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO synced_sessions (file_path, byte_size, sha256) VALUES (?, ?, ?)`,
		relPath, size, sum,
	)
	return err
}

// Close closes the ledger database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// FileSHA256 computes the hex SHA-256 checksum of a file.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
