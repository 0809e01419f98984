package audit

import (
	"context"
	"time"

	"inviteguard/internal/store"
)

// Store is the durable tier audit entries are flushed to.
type Store interface {
	InsertAuditEntries(ctx context.Context, entries []store.AuditLogEntry) error
	QueryAuditEntries(ctx context.Context, filter store.AuditFilter, limit, offset int) ([]store.AuditLogEntry, int, error)
	DeleteAuditEntriesBefore(ctx context.Context, level string, cutoff time.Time) (int64, error)
}
