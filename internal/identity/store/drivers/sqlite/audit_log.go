package sqlite

import (
	"context"
	"encoding/json"

	"github.com/vitalpoint/identity/internal/identity/domain"
)

type auditLogRepo struct {
	db dbtx
}

func (r *auditLogRepo) AppendAuditEntry(ctx context.Context, e domain.AuditEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (action, performed_by, details, created_at)
		VALUES (?, ?, ?, ?)`,
		e.Action, e.PerformedBy, string(raw), e.CreatedAt)
	return err
}

func (r *auditLogRepo) ListAuditEntries(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, performed_by, details, created_at
		FROM audit_log
		ORDER BY id
		LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e   domain.AuditEntry
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.PerformedBy, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &e.Details); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
