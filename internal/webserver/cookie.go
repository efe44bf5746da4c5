package webserver

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var ErrBadCookie = errors.New("cookie cannot be opened")

// Sealer encrypts and authenticates the session token stored in the cookie
type Sealer struct {
	key *[keySize]byte
}

func NewSealer(key *[keySize]byte) *Sealer {
	return &Sealer{key: key}
}

// LoadOrCreateKey reads the sealing key, a missing or damaged file is
// replaced by a fresh key, which logs every browser out.
func LoadOrCreateKey(path string) (key *[keySize]byte, created bool, err error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) == keySize {
		key = new([keySize]byte)
		copy(key[:], data)
		return key, false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("read cookie key: %w", err)
	}

	key = new([keySize]byte)
	if _, err := rand.Read(key[:]); err != nil {
		return nil, false, fmt.Errorf("generate cookie key: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, false, fmt.Errorf("write cookie key: %w", err)
		}
	}
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return nil, false, fmt.Errorf("write cookie key: %w", err)
	}
	return key, true, nil
}

// Seal returns hex(nonce || box(token))
func (s *Sealer) Seal(token uuid.UUID) (string, error) {
	// a random 192 bit nonce per message makes repeats negligible
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], token[:], &nonce, s.key)
	return hex.EncodeToString(sealed), nil
}

func (s *Sealer) Open(value string) (uuid.UUID, error) {
	sealed, err := hex.DecodeString(value)
	if err != nil || len(sealed) <= nonceSize {
		return uuid.Nil, ErrBadCookie
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, s.key)
	if !ok {
		return uuid.Nil, ErrBadCookie
	}
	token, err := uuid.FromBytes(plain)
	if err != nil {
		return uuid.Nil, ErrBadCookie
	}
	return token, nil
}
