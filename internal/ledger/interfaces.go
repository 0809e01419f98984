package ledger

import (
	"context"
	"time"

	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// Store is the persistence surface the ledger needs. Both the Postgres and
// the in-memory tiers satisfy it.
type Store interface {
	UpsertInviteRelationship(ctx context.Context, params store.UpsertInviteRelationshipParams) (store.InviteRelationship, bool, error)
	GetInviteRelationship(ctx context.Context, inviterID, invitedID uuid.UUID) (store.InviteRelationship, error)
	RecordRelationshipAttempt(ctx context.Context, inviterID, invitedID uuid.UUID, fraud bool, now time.Time) error
	GetLedgerStatistics(ctx context.Context) (store.LedgerStatistics, error)
}
