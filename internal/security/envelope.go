package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"secure-print-release/internal/model"
)

const KeySize = 32

var pdfMagic = []byte("%PDF")

// Envelope : AES-256-GCM with a 16-byte random IV per document and a detached 16-byte tag
type Envelope struct {
	aead cipher.AEAD
}

func NewEnvelope(key []byte) (*Envelope, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, model.IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Envelope{aead: aead}, nil
}

// LoadKey : hex key from configuration, or a fresh one when none is configured
func LoadKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		key := make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate encryption key: %w", err)
		}
		log.Println("[Envelope] ENCRYPTION_KEY is not set, generated an ephemeral key; stored documents will not survive a restart")
		return key, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must decode to %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// Seal : returns ciphertext, iv and tag; the iv is drawn from crypto/rand for every call
func (e *Envelope) Seal(plaintext []byte) ([]byte, []byte, []byte, error) {
	iv := make([]byte, model.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	sealed := e.aead.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - model.AuthTagSize
	ciphertext := sealed[:split:split]
	tag := append([]byte(nil), sealed[split:]...)

	return ciphertext, iv, tag, nil
}

func (e *Envelope) Open(ciphertext, iv, tag []byte) ([]byte, error) {
	if len(iv) != model.IVSize || len(tag) != model.AuthTagSize {
		return nil, fmt.Errorf("%w: iv=%d tag=%d bytes", model.ErrCryptoShape, len(iv), len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := e.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, model.ErrCryptoAuth
	}
	return plaintext, nil
}

// IsValidPDF : true iff the buffer starts with %PDF
func IsValidPDF(buf []byte) bool {
	return bytes.HasPrefix(buf, pdfMagic)
}
