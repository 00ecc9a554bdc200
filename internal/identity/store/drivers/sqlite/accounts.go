package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/store"
)

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, name, username, email, password_hash, age, gender, contact,
			role, email_verified, verified, provider_status,
			verification_code, verification_expires_at,
			blocked, is_deleted, deleted_at,
			twofactor_enabled, twofactor_setup_pending, challenge_code, challenge_expires_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Username, a.Email, a.PasswordHash,
		mapOptionalInt(a.Age), a.Gender, a.Contact,
		string(a.Role), a.EmailVerified, a.Verified, a.ProviderStatus,
		mapOptionalString(a.VerificationCode), mapOptionalTime(a.VerificationExpiresAt),
		a.Blocked, a.Deleted, mapOptionalTime(a.DeletedAt),
		a.TwoFactor.Enabled, a.TwoFactor.SetupPending,
		mapOptionalString(a.TwoFactor.ChallengeCode), mapOptionalTime(a.TwoFactor.ChallengeExpiresAt),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByIdentifier(ctx context.Context, identifier string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ? OR username = ?`,
		identifier, identifier)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) MarkVerified(ctx context.Context, id string, role domain.Role, providerStatus string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET role = ?, provider_status = ?,
		    email_verified = TRUE, verified = TRUE,
		    verification_code = NULL, verification_expires_at = NULL,
		    updated_at = ?
		WHERE id = ? AND verified = FALSE`,
		string(role), providerStatus, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either gone or already verified; disambiguate for the caller.
		var verified bool
		err := r.db.QueryRowContext(ctx,
			`SELECT verified FROM accounts WHERE id = ?`, id).Scan(&verified)
		if err != nil {
			return mapNotFound(err)
		}
		if verified {
			return store.ErrAlreadyVerified
		}
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) SetTwoFactorChallenge(ctx context.Context, id, code string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET challenge_code = ?, challenge_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		code, expiresAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) ClearTwoFactorChallenge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET challenge_code = NULL, challenge_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) BeginTwoFactorSetup(ctx context.Context, id, code string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET twofactor_setup_pending = TRUE,
		    challenge_code = ?, challenge_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		code, expiresAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) CompleteTwoFactorSetup(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET twofactor_enabled = TRUE, twofactor_setup_pending = FALSE,
		    challenge_code = NULL, challenge_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) DisableTwoFactor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET twofactor_enabled = FALSE, twofactor_setup_pending = FALSE,
		    challenge_code = NULL, challenge_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) error {
	if p.Empty() {
		return nil
	}

	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *p.Username)
	}
	if p.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *p.Age)
	}
	if p.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, *p.Gender)
	}
	if p.Contact != nil {
		sets = append(sets, "contact = ?")
		args = append(args, *p.Contact)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) SoftDeleteAccount(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET is_deleted = TRUE, deleted_at = ?, contact = '', updated_at = ?
		WHERE id = ? AND is_deleted = FALSE`,
		now, now, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM accounts
		WHERE verified = FALSE AND verification_expires_at IS NOT NULL
		  AND verification_expires_at <= ?`,
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
