package creds

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

type fileRecord struct {
	Credentials
	SavedAt time.Time `json:"saved_at"`
}

// FileStore persists session credentials as a mode-0600 JSON file. Entries
// older than the configured TTL read as absent, which bounds the persisted
// tier to one login session even if the file is never deleted.
type FileStore struct {
	path string
	ttl  time.Duration
}

// NewFileStore creates a file-backed session store under dir. An empty dir
// falls back to the user cache directory.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "mcp-console")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, "session.json"), ttl: ttl}, nil
}

func (f *FileStore) Save(_ context.Context, c Credentials) error {
	b, err := json.Marshal(fileRecord{Credentials: c, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o600)
}

func (f *FileStore) Load(_ context.Context) (Credentials, bool, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, false, nil
		}
		return Credentials{}, false, err
	}

	var rec fileRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return Credentials{}, false, err
	}
	if f.ttl > 0 && time.Since(rec.SavedAt) > f.ttl {
		// Expired session; remove and miss.
		_ = os.Remove(f.path)
		return Credentials{}, false, nil
	}
	return rec.Credentials, true, nil
}

func (f *FileStore) Delete(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
