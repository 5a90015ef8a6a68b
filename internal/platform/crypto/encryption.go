// Package crypto seals sensitive employee fields (SSN) at rest with AES-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/hkdf"
)

const keySize = 32

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Service is safe for concurrent use. A zero-key Service is a pass-through.
type Service struct {
	aead cipher.AEAD
}

// New accepts a 32-byte key in hex or base64 form. Any other value is treated
// as a passphrase and stretched with HKDF-SHA256.
func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	raw := decodeKey(key)
	if len(raw) != keySize {
		derived, err := deriveKey(raw)
		if err != nil {
			return nil, err
		}
		raw = derived
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "gcm")
	}
	return &Service{aead: aead}, nil
}

func (s *Service) Configured() bool {
	return s != nil && s.aead != nil
}

// Seal returns nonce||ciphertext, or nil for an empty value.
func (s *Service) Seal(value string) ([]byte, error) {
	if value == "" || !s.Configured() {
		return nil, nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	return s.aead.Seal(nonce, nonce, []byte(value), nil), nil
}

func (s *Service) Open(sealed []byte) (string, error) {
	if len(sealed) == 0 || !s.Configured() {
		return "", nil
	}
	size := s.aead.NonceSize()
	if len(sealed) < size {
		return "", ErrCiphertextTooShort
	}
	plain, err := s.aead.Open(nil, sealed[:size], sealed[size:], nil)
	if err != nil {
		return "", errors.Wrap(err, "open sealed value")
	}
	return string(plain), nil
}

// SplitForStorage returns the (plain, sealed) column pair for a value. Only one
// of them is populated.
func (s *Service) SplitForStorage(value string) (*string, []byte, error) {
	if value == "" {
		return nil, nil, nil
	}
	if !s.Configured() {
		return &value, nil, nil
	}
	sealed, err := s.Seal(value)
	if err != nil {
		return nil, nil, err
	}
	return nil, sealed, nil
}

// Join reverses SplitForStorage; rows written before a key was configured keep
// their plaintext column.
func (s *Service) Join(plain *string, sealed []byte) (string, error) {
	if len(sealed) > 0 {
		return s.Open(sealed)
	}
	if plain != nil {
		return *plain, nil
	}
	return "", nil
}

func deriveKey(secret []byte) ([]byte, error) {
	out := make([]byte, keySize)
	reader := hkdf.New(sha256.New, secret, nil, []byte("personnel field encryption"))
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, errors.Wrap(err, "derive key")
	}
	return out, nil
}

func decodeKey(raw string) []byte {
	if len(raw) == 2*keySize {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && len(decoded) == keySize {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil && len(decoded) == keySize {
		return decoded
	}
	return []byte(raw)
}
