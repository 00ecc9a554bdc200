package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vitalpoint/identity/pkg/cryptox"
	"github.com/vitalpoint/identity/pkg/jwtx"
)

// InitSigningKey loads the Ed25519 signing key from the configured PEM file,
// generating and persisting a fresh one on first run.
func InitSigningKey(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, error) {
	pemKey, err := os.ReadFile(cfg.SigningKeyFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read signing key: %w", err)
		}

		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		if err := os.WriteFile(cfg.SigningKeyFile, pemKey, 0o600); err != nil {
			return nil, fmt.Errorf("failed to persist signing key: %w", err)
		}
		logger.Info("generated new signing key", "path", cfg.SigningKeyFile)
	}

	signer, err := jwtx.NewSignerEdDSA(pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	return signer, nil
}
