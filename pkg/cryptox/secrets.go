package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

const (
	// MinCodeLength and MaxCodeLength bound GenerateNumericCode.
	MinCodeLength = 4
	MaxCodeLength = 10

	// RecoveryCodeBytes is the raw entropy per recovery code before hex
	// encoding (4 bytes -> 8 hex characters).
	RecoveryCodeBytes = 4

	// DefaultRecoveryCodeCount is the size of a freshly issued recovery set.
	DefaultRecoveryCodeCount = 5
)

// ErrCodeLength reports a numeric code length outside [MinCodeLength, MaxCodeLength].
var ErrCodeLength = errors.New("cryptox: code length must be between 4 and 10 digits")

// RecoveryCode pairs a raw recovery code with its Argon2id digest. The raw
// form is handed to the caller exactly once; only the digest is persisted.
type RecoveryCode struct {
	Raw  string
	Hash string
}

// GenerateNumericCode produces a fixed-length numeric one-time code using
// crypto/rand. Leading zeros are allowed, so every length-n string of digits
// is equally likely.
func GenerateNumericCode(length int) (string, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return "", ErrCodeLength
	}

	const digits = "0123456789"
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate numeric code: %w", err)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

// GenerateRecoveryCodeSet produces count hex-encoded recovery codes, each
// paired with its Argon2id digest.
func GenerateRecoveryCodeSet(count int) ([]RecoveryCode, error) {
	if count <= 0 {
		count = DefaultRecoveryCodeCount
	}

	codes := make([]RecoveryCode, 0, count)
	for range count {
		buf := make([]byte, RecoveryCodeBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("cryptox: failed to generate recovery code: %w", err)
		}
		raw := hex.EncodeToString(buf)

		hash, err := HashSecret(raw)
		if err != nil {
			return nil, fmt.Errorf("cryptox: failed to hash recovery code: %w", err)
		}
		codes = append(codes, RecoveryCode{Raw: raw, Hash: hash})
	}
	return codes, nil
}
