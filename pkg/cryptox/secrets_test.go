package cryptox

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	for _, length := range []int{MinCodeLength, 6, MaxCodeLength} {
		code, err := GenerateNumericCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)

		for _, r := range code {
			require.True(t, unicode.IsDigit(r), "code must be digits only, got %q", code)
		}
	}
}

func TestGenerateNumericCode_LengthBounds(t *testing.T) {
	_, err := GenerateNumericCode(MinCodeLength - 1)
	require.ErrorIs(t, err, ErrCodeLength)

	_, err = GenerateNumericCode(MaxCodeLength + 1)
	require.ErrorIs(t, err, ErrCodeLength)

	_, err = GenerateNumericCode(0)
	require.ErrorIs(t, err, ErrCodeLength)
}

func TestGenerateNumericCode_Varies(t *testing.T) {
	// Collisions are possible but 20 identical draws would mean a broken RNG.
	seen := map[string]bool{}
	for range 20 {
		code, err := GenerateNumericCode(8)
		require.NoError(t, err)
		seen[code] = true
	}
	require.Greater(t, len(seen), 1)
}

func TestGenerateRecoveryCodeSet(t *testing.T) {
	set, err := GenerateRecoveryCodeSet(DefaultRecoveryCodeCount)
	require.NoError(t, err)
	require.Len(t, set, DefaultRecoveryCodeCount)

	seen := map[string]bool{}
	for _, c := range set {
		require.Len(t, c.Raw, RecoveryCodeBytes*2, "raw code should be hex of %d bytes", RecoveryCodeBytes)
		require.NotEmpty(t, c.Hash)
		require.False(t, seen[c.Raw], "raw codes must be unique within a set")
		seen[c.Raw] = true

		// The stored digest must verify against the raw code and nothing else.
		require.NoError(t, VerifySecret(c.Raw, c.Hash))
		require.ErrorIs(t, VerifySecret("ffffffff", c.Hash), ErrMismatch)
	}
}
