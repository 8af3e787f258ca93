// Package gitstore provides a Git plumbing-based implementation of StateStore.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/infra/crypto"
	"github.com/coyuki/ramifi/internal/snapshot"
)

// Store implements domain.StateStore using Git plumbing (a ref and a blob).
//
// Data structure:
//
//	refs/ramifi/<key> → blob (snapshot YAML, optionally sealed)
//
// Saving writes a new blob and moves the ref; the previous blob stays in the
// object database until git gc.
type Store struct {
	repo      *git.Repository
	encryptor *crypto.Encryptor
	ref       plumbing.ReferenceName
	mu        sync.RWMutex
}

// Open opens the repository at repoPath, creating it if it does not exist.
// encryptionKey is optional; when set it must be 64 hex characters.
func Open(repoPath, key, encryptionKey string) (*Store, error) {
	repo, err := git.PlainOpen(repoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(repoPath, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}

	var encryptor *crypto.Encryptor
	if encryptionKey != "" {
		encryptor, err = crypto.NewEncryptor(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("create encryptor: %w", err)
		}
	}
	return NewWithRepo(repo, key, encryptor), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
// encryptor may be nil.
func NewWithRepo(repo *git.Repository, key string, encryptor *crypto.Encryptor) *Store {
	return &Store{
		repo:      repo,
		encryptor: encryptor,
		ref:       plumbing.ReferenceName(domain.StateRefName(key)),
	}
}

// RefName returns the ref holding the snapshot.
func (s *Store) RefName() string {
	return string(s.ref)
}

// Load reads the snapshot blob the ref points at.
// Returns domain.ErrNotInitialized if the ref does not exist.
func (s *Store) Load() (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(s.ref, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("get state ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	state, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return state, nil
}

// Save writes the state as a new blob and points the ref at it.
func (s *Store) Save(state *domain.State) error {
	data, err := snapshot.Encode(state, snapshot.FormatYAML)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.ref, hash)); err != nil {
		return fmt.Errorf("set state ref: %w", err)
	}
	return nil
}

// writeBlob stores data as a blob object and returns its hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	// Encrypt if encryptor is configured
	blobData := data
	if s.encryptor != nil {
		encrypted, err := s.encryptor.Encrypt(data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("encrypt data: %w", err)
		}
		blobData = encrypted
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(blobData)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, writeErr := writer.Write(blobData); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// readBlob reads a blob, opening it if encryption is configured.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}

	if s.encryptor != nil {
		decrypted, err := s.encryptor.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
		}
		return decrypted, nil
	}
	return data, nil
}

// Ensure Store implements domain.StateStore interface.
var _ domain.StateStore = (*Store)(nil)
