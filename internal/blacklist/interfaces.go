package blacklist

import (
	"context"
	"time"

	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// Store is the persistence surface the blacklist manager needs.
type Store interface {
	CreateBlacklistEntry(ctx context.Context, params store.CreateBlacklistEntryParams) (store.BlacklistEntry, error)
	GetActiveBlacklistEntry(ctx context.Context, userID uuid.UUID, now time.Time) (store.BlacklistEntry, error)
	DeleteBlacklistEntriesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error)

	SumFraudAttemptsByInvited(ctx context.Context, userID uuid.UUID) (int, error)
	MaxRelationshipFraudAttempts(ctx context.Context, userID uuid.UUID) (int, error)
	GetJoinsByInviterSince(ctx context.Context, inviterID uuid.UUID, since time.Time) ([]store.MemberEvent, error)
	CountUserEventsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	CreateFraudAlert(ctx context.Context, params store.CreateFraudAlertParams) (store.FraudAlert, error)
}
