// Package tokencipher encrypts OAuth tokens at rest with AES-256-GCM.
// The key comes from configuration and is mandatory: there is no
// generated fallback, a missing key is a startup failure.
package tokencipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNoKey         = errors.New("tokencipher: encryption key is not configured")
	ErrBadKey        = errors.New("tokencipher: key must be 32 bytes, base64-encoded")
	ErrBadCiphertext = errors.New("tokencipher: malformed ciphertext")
)

type Cipher struct {
	aead cipher.AEAD
}

// New builds a cipher from a base64-encoded 256-bit key.
func New(encodedKey string) (*Cipher, error) {
	if encodedKey == "" {
		return nil, ErrNoKey
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil || len(key) != 32 {
		return nil, ErrBadKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("tokencipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("tokencipher: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with a random nonce and returns
// base64(nonce || ciphertext) for storage in a text column.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("tokencipher: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrBadCiphertext
	}
	ns := c.aead.NonceSize()
	if len(sealed) < ns {
		return "", ErrBadCiphertext
	}
	plaintext, err := c.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("tokencipher: open: %w", err)
	}
	return string(plaintext), nil
}
