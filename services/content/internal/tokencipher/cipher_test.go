package tokencipher

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func TestCipher_RoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	ct, err := c.Encrypt("ya29.a0AfH6SMB-access-token")
	require.NoError(t, err)
	require.NotEmpty(t, ct)
	assert.NotContains(t, ct, "ya29")

	pt, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "ya29.a0AfH6SMB-access-token", pt)
}

func TestCipher_MissingKeyFailsFast(t *testing.T) {
	t.Parallel()

	_, err := New("")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestCipher_BadKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "not base64", key: "%%%not-base64%%%"},
		{name: "too short", key: base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.key)
			assert.ErrorIs(t, err, ErrBadKey)
		})
	}
}

func TestCipher_WrongKeyCannotDecrypt(t *testing.T) {
	t.Parallel()

	c1, err := New(testKey(t))
	require.NoError(t, err)
	c2, err := New(testKey(t))
	require.NoError(t, err)

	ct, err := c1.Encrypt("refresh-token")
	require.NoError(t, err)

	_, err = c2.Decrypt(ct)
	assert.Error(t, err)
}

func TestCipher_MalformedCiphertext(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	_, err = c.Decrypt("!!!")
	assert.ErrorIs(t, err, ErrBadCiphertext)

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	assert.ErrorIs(t, err, ErrBadCiphertext)
}
