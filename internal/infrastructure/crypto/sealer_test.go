package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestChaChaSealer_RoundTrip(t *testing.T) {
	sealer, err := NewChaChaSealer(testKey)
	require.NoError(t, err)

	plaintext := []byte(`{"login":"acme","secret":"s3cret"}`)
	sealed, err := sealer.Seal(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "s3cret")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestChaChaSealer_NoncePerSeal(t *testing.T) {
	sealer, err := NewChaChaSealer(testKey)
	require.NoError(t, err)

	first, err := sealer.Seal([]byte("same input"))
	require.NoError(t, err)
	second, err := sealer.Seal([]byte("same input"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestChaChaSealer_Open(t *testing.T) {
	sealer, err := NewChaChaSealer(testKey)
	require.NoError(t, err)

	t.Run("tampered payload refused", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte("credentials"))
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xff

		_, err = sealer.Open(sealed)
		assert.Error(t, err)
	})

	t.Run("wrong key refused", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte("credentials"))
		require.NoError(t, err)

		other, err := NewChaChaSealer(hex.EncodeToString(make([]byte, 32)))
		require.NoError(t, err)
		_, err = other.Open(sealed)
		assert.Error(t, err)
	})

	t.Run("truncated payload refused", func(t *testing.T) {
		_, err := sealer.Open([]byte("short"))
		assert.Error(t, err)
	})
}

func TestNewChaChaSealer(t *testing.T) {
	t.Run("rejects non hex keys", func(t *testing.T) {
		_, err := NewChaChaSealer("not-hex")
		assert.Error(t, err)
	})

	t.Run("rejects wrong key length", func(t *testing.T) {
		_, err := NewChaChaSealer(strings.Repeat("ab", 16))
		assert.Error(t, err)
	})
}
