package security

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper function to generate a valid key
func generateKey(t *testing.T, length int) []byte {
	key := make([]byte, length)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSecretBox_SealOpen_Roundtrip(t *testing.T) {
	nopLogger := zerolog.Nop()

	testCases := []struct {
		name    string
		keyLen  int
		payload string
	}{
		{name: "AES-128 (16-byte key)", keyLen: 16, payload: "hunter2"},
		{name: "AES-256 (32-byte key)", keyLen: 32, payload: "a much longer nickserv password 12345"},
		{name: "Empty Payload", keyLen: 32, payload: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			box, err := NewSecretBox(generateKey(t, tc.keyLen), &nopLogger)
			require.NoError(t, err)

			sealed, err := box.Seal(tc.payload)
			require.NoError(t, err)
			assert.NotEqual(t, tc.payload, sealed)

			plain, err := box.Open(sealed)
			require.NoError(t, err)
			assert.Equal(t, tc.payload, plain)
		})
	}
}

func TestSecretBox_Open_Tampered(t *testing.T) {
	nopLogger := zerolog.Nop()
	box, err := NewSecretBox(generateKey(t, 32), &nopLogger)
	require.NoError(t, err)

	sealed, err := box.Seal("do not tamper with this")
	require.NoError(t, err)

	raw, err := hex.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = box.Open(hex.EncodeToString(raw))
	assert.Error(t, err)
}

func TestSecretBox_Open_Garbage(t *testing.T) {
	nopLogger := zerolog.Nop()
	box, err := NewSecretBox(generateKey(t, 16), &nopLogger)
	require.NoError(t, err)

	_, err = box.Open("not hex at all")
	assert.Error(t, err)

	_, err = box.Open("abcd")
	assert.Error(t, err)
}

func TestNewSecretBoxFromHex(t *testing.T) {
	nopLogger := zerolog.Nop()

	_, err := NewSecretBoxFromHex(hex.EncodeToString(generateKey(t, 32)), &nopLogger)
	assert.NoError(t, err)

	_, err = NewSecretBoxFromHex("zz", &nopLogger)
	assert.Error(t, err)

	_, err = NewSecretBox([]byte("badkey"), &nopLogger)
	assert.Error(t, err)
}
