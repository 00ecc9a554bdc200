package service

import (
	"context"
	"fmt"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/store"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
)

// AuditService reads the append-only trail. Writes happen inside the flows
// that own the transition, in the same transaction as the state change.
type AuditService struct {
	Store store.Store
}

// List returns audit entries in chronological order.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.Store.AuditLog().ListAuditEntries(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
