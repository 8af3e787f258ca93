// Package filestore provides a JSON file-based implementation of StateStore.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/snapshot"
)

// Store implements domain.StateStore using one JSON snapshot file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first save.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved state. Returns domain.ErrNotInitialized if nothing was saved.
func (s *Store) Load() (*domain.State, error) {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(lock)

	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	state, err := snapshot.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return state, nil
}

// Save replaces the saved state.
func (s *Store) Save(state *domain.State) error {
	data, err := snapshot.Encode(state, snapshot.FormatJSON)
	if err != nil {
		return err
	}

	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// write replaces the file via temp file + rename so a crash never leaves half a snapshot.
func (s *Store) write(data []byte) error {
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ensure Store implements domain.StateStore interface.
var _ domain.StateStore = (*Store)(nil)
