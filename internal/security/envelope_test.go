package security_test

import (
	"bytes"
	"encoding/hex"
	"secure-print-release/internal/model"
	"secure-print-release/internal/security"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvelope(t *testing.T) *security.Envelope {
	t.Helper()
	key, err := security.LoadKey("")
	require.NoError(t, err)
	envelope, err := security.NewEnvelope(key)
	require.NoError(t, err)
	return envelope
}

func TestEnvelope_RoundTrip(t *testing.T) {
	envelope := newTestEnvelope(t)

	cases := map[string][]byte{
		"empty":  {},
		"pdf":    []byte("%PDF"),
		"binary": bytes.Repeat([]byte{0x00, 0xff, 0x10}, 4096),
		"large":  bytes.Repeat([]byte("a"), 20*1024*1024),
	}

	for name, plaintext := range cases {
		t.Run(name, func(t *testing.T) {
			ciphertext, iv, tag, err := envelope.Seal(plaintext)
			require.NoError(t, err)
			assert.Len(t, iv, model.IVSize)
			assert.Len(t, tag, model.AuthTagSize)
			assert.Len(t, ciphertext, len(plaintext))

			opened, err := envelope.Open(ciphertext, iv, tag)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(plaintext, opened))
		})
	}
}

func TestEnvelope_FreshIVPerSeal(t *testing.T) {
	envelope := newTestEnvelope(t)

	_, iv1, _, err := envelope.Seal([]byte("%PDF-1.7"))
	require.NoError(t, err)
	_, iv2, _, err := envelope.Seal([]byte("%PDF-1.7"))
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2)
}

func TestEnvelope_BitFlipFailsAuth(t *testing.T) {
	envelope := newTestEnvelope(t)
	ciphertext, iv, tag, err := envelope.Seal([]byte("%PDF-1.4 hello printer"))
	require.NoError(t, err)

	flip := func(b []byte, i int) []byte {
		c := append([]byte(nil), b...)
		c[i] ^= 0x01
		return c
	}

	for i := range ciphertext {
		_, err := envelope.Open(flip(ciphertext, i), iv, tag)
		assert.ErrorIs(t, err, model.ErrCryptoAuth, "ciphertext byte %d", i)
	}
	for i := range iv {
		_, err := envelope.Open(ciphertext, flip(iv, i), tag)
		assert.ErrorIs(t, err, model.ErrCryptoAuth, "iv byte %d", i)
	}
	for i := range tag {
		_, err := envelope.Open(ciphertext, iv, flip(tag, i))
		assert.ErrorIs(t, err, model.ErrCryptoAuth, "tag byte %d", i)
	}
}

func TestEnvelope_WrongShape(t *testing.T) {
	envelope := newTestEnvelope(t)
	ciphertext, iv, tag, err := envelope.Seal([]byte("data"))
	require.NoError(t, err)

	_, err = envelope.Open(ciphertext, iv[:12], tag)
	assert.ErrorIs(t, err, model.ErrCryptoShape)

	_, err = envelope.Open(ciphertext, iv, tag[:15])
	assert.ErrorIs(t, err, model.ErrCryptoShape)
}

func TestEnvelope_WrongKey(t *testing.T) {
	first := newTestEnvelope(t)
	second := newTestEnvelope(t)

	ciphertext, iv, tag, err := first.Seal([]byte("%PDF"))
	require.NoError(t, err)

	_, err = second.Open(ciphertext, iv, tag)
	assert.ErrorIs(t, err, model.ErrCryptoAuth)
}

func TestLoadKey(t *testing.T) {
	key := bytes.Repeat([]byte{0xab}, security.KeySize)

	loaded, err := security.LoadKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, loaded)

	_, err = security.LoadKey("zz")
	assert.Error(t, err)

	_, err = security.LoadKey(hex.EncodeToString(key[:16]))
	assert.Error(t, err)
}

func TestIsValidPDF(t *testing.T) {
	assert.True(t, security.IsValidPDF([]byte("%PDF")))
	assert.True(t, security.IsValidPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, security.IsValidPDF([]byte("%PD")))
	assert.False(t, security.IsValidPDF([]byte("hello")))
	assert.False(t, security.IsValidPDF(nil))
}
