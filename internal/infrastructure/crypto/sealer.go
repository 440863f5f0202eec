// Package crypto seals bank credentials at rest. Credentials are encrypted
// before they reach the persistence layer and only opened for the duration
// of a provider call.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaChaSealer encrypts credentials with XChaCha20-Poly1305. The nonce is
// generated per seal and prepended to the ciphertext.
type ChaChaSealer struct {
	key []byte
}

// NewChaChaSealer creates a sealer from a hex-encoded 32-byte key
func NewChaChaSealer(hexKey string) (*ChaChaSealer, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("sealing key is not valid hex: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sealing key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &ChaChaSealer{key: key}, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext
func (s *ChaChaSealer) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a payload produced by Seal
func (s *ChaChaSealer) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed payload too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed credentials: %w", err)
	}
	return plaintext, nil
}
