package security

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

const keyFileName = "key.bin"

// ErrCiphertextTooShort is returned when a value cannot hold a nonce
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// GetKeyPath returns the path to the encryption key file inside dir
func GetKeyPath(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("no key directory configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create security directory: %w", err)
	}
	return filepath.Join(dir, keyFileName), nil
}

// GenerateKeyIfNotExists returns the key stored in dir, creating it on first use
func GenerateKeyIfNotExists(dir string) ([]byte, error) {
	keyPath, err := GetKeyPath(dir)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(keyPath); err == nil {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("could not read key file: %w", err)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("invalid key size: expected %d bytes, got %d", chacha20poly1305.KeySize, len(key))
		}
		return key, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("could not generate random key: %w", err)
	}

	// Owner-only permissions
	if err := os.WriteFile(keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("could not write key file: %w", err)
	}

	return key, nil
}

func newAEAD(dir string) (cipher.AEAD, error) {
	key, err := GenerateKeyIfNotExists(dir)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("could not create cipher: %w", err)
	}
	return aead, nil
}

// Encrypt seals plaintext with the key stored in dir and returns base64 text
func Encrypt(dir, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := newAEAD(dir)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt
func Decrypt(dir, ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("could not decode ciphertext: %w", err)
	}

	aead, err := newAEAD(dir)
	if err != nil {
		return "", err
	}

	if len(data) < aead.NonceSize() {
		return "", ErrCiphertextTooShort
	}
	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("could not decrypt: %w", err)
	}

	return string(plaintext), nil
}
