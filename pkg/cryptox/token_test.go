package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintToken(t *testing.T) {
	fp1 := FingerprintToken("some.jwt.token")
	fp2 := FingerprintToken("some.jwt.token")
	fp3 := FingerprintToken("other.jwt.token")

	require.Equal(t, fp1, fp2, "fingerprint must be deterministic")
	require.NotEqual(t, fp1, fp3)
	require.Len(t, fp1, 43, "base64url-encoded SHA-256 without padding")
	require.False(t, strings.ContainsAny(fp1, "+/="), "fingerprint must be URL-safe")
}
