// Package crypto seals git store blobs with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
)

const (
	// NonceSize is the size of the nonce for AES-GCM (12 bytes).
	NonceSize = 12
	// KeySize is the size of the AES-256 key (32 bytes).
	KeySize = 32
)

var (
	// ErrInvalidKey is returned when the encryption key is invalid.
	ErrInvalidKey = errors.New("invalid encryption key: must be 32 bytes (64 hex characters)")
	// ErrDecryptionFailed is returned when a sealed blob cannot be opened.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encryptor seals and opens snapshot blobs.
//
// Sealing the same plaintext twice returns the same ciphertext, so saving an
// unchanged state writes the same blob hash and leaves the ref untouched.
type Encryptor struct {
	gcm  cipher.AEAD
	seen map[[sha256.Size]byte][]byte // plaintext digest -> nonce + ciphertext
	mu   sync.Mutex
}

// NewEncryptor creates an Encryptor from a 64 hex character key.
func NewEncryptor(hexKey string) (*Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &Encryptor{
		gcm:  gcm,
		seen: make(map[[sha256.Size]byte][]byte),
	}, nil
}

// Encrypt returns nonce (12 bytes) + ciphertext + auth tag.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	digest := sha256.Sum256(plaintext)

	e.mu.Lock()
	defer e.mu.Unlock()
	if sealed, ok := e.seen[digest]; ok {
		return sealed, nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := e.gcm.Seal(nonce, nonce, plaintext, nil)
	e.seen[digest] = sealed
	return sealed, nil
}

// Decrypt opens a blob produced by Encrypt.
func (e *Encryptor) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize {
		return nil, ErrCiphertextTooShort
	}
	plaintext, err := e.gcm.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	// Remember the pairing so re-saving what was just loaded is stable.
	e.mu.Lock()
	e.seen[sha256.Sum256(plaintext)] = append([]byte(nil), sealed...)
	e.mu.Unlock()
	return plaintext, nil
}
