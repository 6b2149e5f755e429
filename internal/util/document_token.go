package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const (
	JobIDLength        = 21
	ReleaseTokenLength = 32
	PrintTokenBytes    = 32
)

// url-safe alphabet, 64 symbols so a byte masked with 63 maps without bias
const jobIDAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

// generateRandomToken : random hex token of length characters
func generateRandomToken(length int) (string, error) {
	byteLength := (length + 1) / 2 // hex: 1 byte = 2 chars
	bytes := make([]byte, byteLength)

	_, err := rand.Read(bytes)
	if err != nil {
		return "", LogError("[util] failed to generate token", err)
	}

	return hex.EncodeToString(bytes)[:length], nil
}

// GenerateReleaseToken : long-lived token embedded in the release link
func GenerateReleaseToken() (string, error) {
	return generateRandomToken(ReleaseTokenLength)
}

// GeneratePrintToken : 32 random bytes, hex encoded
func GeneratePrintToken() (string, error) {
	return generateRandomToken(PrintTokenBytes * 2)
}

// GenerateJobID : 21-char url-safe random id
func GenerateJobID() (string, error) {
	bytes := make([]byte, JobIDLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", LogError("[util] failed to generate job id", err)
	}

	id := make([]byte, JobIDLength)
	for i, b := range bytes {
		id[i] = jobIDAlphabet[b&63]
	}
	return string(id), nil
}

// TokensEqual : constant-time comparison, empty tokens never match
func TokensEqual(presented, expected string) bool {
	if presented == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// MaskToken : first 8 characters followed by an ellipsis
func MaskToken(token string) string {
	if len(token) <= 8 {
		return token + "…"
	}
	return token[:8] + "…"
}
