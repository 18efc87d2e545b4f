package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the high score between runs.
type Store interface {
	LoadHigh() (int, error)
	SaveHigh(high int) error
}

// MemoryStore keeps the high score for the lifetime of the process.
// Safe for concurrent use, so several sessions may share one.
type MemoryStore struct {
	mu   sync.Mutex
	high int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadHigh returns the stored high score.
func (m *MemoryStore) LoadHigh() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high, nil
}

// SaveHigh stores high if it beats the stored value.
func (m *MemoryStore) SaveHigh(high int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if high > m.high {
		m.high = high
	}
	return nil
}

// FileStore keeps the high score in a small JSON file.
// Safe for concurrent use within one process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileRecord struct {
	HighScore int `json:"high_score"`
}

// NewFileStore creates a store writing to path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadHigh reads the stored high score. A missing file yields 0.
func (f *FileStore) LoadHigh() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileStore) load() (int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("decode high score %s: %w", f.path, err)
	}
	return rec.HighScore, nil
}

// SaveHigh writes high if it beats the value on disk. Another process or
// session may have written a better score in the meantime.
func (f *FileStore) SaveHigh(high int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, err := f.load()
	if err == nil && stored >= high {
		return nil
	}

	data, err := json.Marshal(fileRecord{HighScore: high})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create high score dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	return os.Rename(tmp, f.path)
}
