package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewSealer(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{name: "valid key", key: make([]byte, 32)},
		{name: "too short", key: make([]byte, 16), wantErr: true},
		{name: "too long", key: make([]byte, 64), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSealer(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "encryption key must be 32 bytes")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestSealer_SealOpen(t *testing.T) {
	s, err := NewSealer(testKey(t))
	require.NoError(t, err)

	plaintext := []byte(`{"title":"buy milk"}`)
	sealed, err := s.Seal(plaintext)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, plaintext))
	assert.Len(t, sealed, NonceSize+len(plaintext)+16)

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)

	// Каждый вызов использует новый nonce
	sealed2, err := s.Seal(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, sealed2)
}

func TestSealer_Empty(t *testing.T) {
	s, err := NewSealer(testKey(t))
	require.NoError(t, err)

	sealed, err := s.Seal(nil)
	require.NoError(t, err)
	assert.Empty(t, sealed)

	opened, err := s.Open(nil)
	require.NoError(t, err)
	assert.Empty(t, opened)
}

func TestSealer_OpenFailures(t *testing.T) {
	s, err := NewSealer(testKey(t))
	require.NoError(t, err)

	_, err = s.Open([]byte("short"))
	assert.ErrorContains(t, err, "too short")

	sealed, err := s.Seal([]byte("data"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Open(sealed)
	assert.ErrorContains(t, err, "authentication failed")

	other, err := NewSealer(testKey(t))
	require.NoError(t, err)
	sealed, err = s.Seal([]byte("data"))
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)

	k1, err := DeriveKey("correct horse", salt)
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)

	k2, err := DeriveKey("correct horse", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := DeriveKey("battery staple", salt)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = DeriveKey("", salt)
	assert.Error(t, err)

	_, err = DeriveKey("pass", []byte("short"))
	assert.Error(t, err)
}

func TestNewSealerFromPassphrase(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	a, err := NewSealerFromPassphrase("pass", salt)
	require.NoError(t, err)
	b, err := NewSealerFromPassphrase("pass", salt)
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("x"))
	require.NoError(t, err)
	opened, err := b.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), opened)
}
