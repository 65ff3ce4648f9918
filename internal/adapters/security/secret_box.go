package security

import (
	"IRCHooks/internal/core/ports"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// secretBox implements ports.SecretBox with AES-GCM. Sealed values are
// hex(nonce || ciphertext).
type secretBox struct {
	gcm cipher.AEAD
	log zerolog.Logger
}

// NewSecretBox creates a box from a 16- or 32-byte key.
func NewSecretBox(key []byte, baseLogger *zerolog.Logger) (ports.SecretBox, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, errors.New("key must be 16 or 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	log := baseLogger.With().Str("component", "secret_box").Logger()
	return &secretBox{gcm: gcm, log: log}, nil
}

// NewSecretBoxFromHex decodes a hex key (as found in ENCRYPTION_KEY).
func NewSecretBoxFromHex(hexKey string, baseLogger *zerolog.Logger) (ports.SecretBox, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("key is not valid hex: %w", err)
	}
	return NewSecretBox(key, baseLogger)
}

// Seal encrypts plaintext under a fresh random nonce.
func (b *secretBox) Seal(plaintext string) (string, error) {
	nonce := make([]byte, b.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		b.log.Error().Err(err).Msg("Failed to generate nonce")
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}
	return hex.EncodeToString(b.gcm.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

// Open decrypts a value produced by Seal.
func (b *secretBox) Open(sealed string) (string, error) {
	raw, err := hex.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("sealed value is not valid hex: %w", err)
	}
	n := b.gcm.NonceSize()
	if len(raw) < n {
		return "", errors.New("sealed value is too short")
	}

	plain, err := b.gcm.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		b.log.Warn().Err(err).Msg("Failed to open sealed value (wrong key or tampered?)")
		return "", fmt.Errorf("could not decrypt: %w", err)
	}
	return string(plain), nil
}
