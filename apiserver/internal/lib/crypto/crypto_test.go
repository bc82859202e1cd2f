package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortSHA(t *testing.T) {
	const input = "opaquetoken"
	digest := ShortSHA("", input)
	require.Len(t, digest, 54)
	require.NotEqual(t, input, digest)
	// Digests are deterministic
	require.Equal(t, digest, ShortSHA("", input))
	// Salt changes the digest
	require.NotEqual(t, digest, ShortSHA("salt", input))
}

func TestNewToken(t *testing.T) {
	token := NewToken(256)
	require.Len(t, token, 256)
	require.NotEqual(t, token, NewToken(256))
}
