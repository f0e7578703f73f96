// Package cardvault seals card fields before they reach the pagos table.
package cardvault

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const prefix = "enc:v1:"

var ErrMalformed = errors.New("cardvault: malformed sealed value")

// Vault encrypts with XChaCha20-Poly1305. A Vault without a key stores
// values as received.
type Vault struct {
	key []byte
}

// New returns a vault for key. key must be nil or 32 bytes.
func New(key []byte) (*Vault, error) {
	if key != nil && len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("cardvault: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Vault{key: key}, nil
}

// Enabled reports whether values are encrypted.
func (v *Vault) Enabled() bool {
	return v != nil && v.key != nil
}

// Seal encrypts plaintext, or returns it unchanged when the vault is disabled.
func (v *Vault) Seal(plaintext string) (string, error) {
	if !v.Enabled() {
		return plaintext, nil
	}
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cardvault: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the sealed prefix were written before
// encryption was enabled and are returned as is.
func (v *Vault) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, prefix) {
		return stored, nil
	}
	if !v.Enabled() {
		return "", errors.New("cardvault: sealed value but no key configured")
	}
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", err
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, prefix))
	if err != nil || len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformed
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("cardvault: open: %w", err)
	}
	return string(plain), nil
}
