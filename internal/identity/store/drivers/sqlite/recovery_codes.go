package sqlite

import (
	"context"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
)

type recoveryCodesRepo struct {
	db dbtx
}

func (r *recoveryCodesRepo) ReplaceRecoveryCodes(ctx context.Context, accountID string, hashes []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM recovery_codes WHERE account_id = ?`, accountID); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, h := range hashes {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO recovery_codes (account_id, code_hash, used, created_at)
			VALUES (?, ?, FALSE, ?)`,
			accountID, h, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *recoveryCodesRepo) ListRecoveryCodes(ctx context.Context, accountID string) ([]domain.RecoveryCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, code_hash, used, created_at
		FROM recovery_codes
		WHERE account_id = ?
		ORDER BY id`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []domain.RecoveryCode
	for rows.Next() {
		var c domain.RecoveryCode
		if err := rows.Scan(&c.ID, &c.AccountID, &c.CodeHash, &c.Used, &c.CreatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *recoveryCodesRepo) ConsumeRecoveryCode(ctx context.Context, id int64) (bool, error) {
	// Guarded on used = FALSE so exactly one concurrent caller wins.
	res, err := r.db.ExecContext(ctx,
		`UPDATE recovery_codes SET used = TRUE WHERE id = ? AND used = FALSE`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *recoveryCodesRepo) DeleteRecoveryCodes(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM recovery_codes WHERE account_id = ?`, accountID)
	return err
}
