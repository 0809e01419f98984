package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inviteguard/internal/observability"
	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// Result is the outcome of a registration attempt. When Accepted is false
// the Relationship carries the pre-existing pair with its bumped counters,
// so callers can report when the pair was first seen.
type Result struct {
	Accepted     bool
	Relationship store.InviteRelationship
}

// Service is the authoritative record of (inviter, invited) pairs.
// Uniqueness is global and permanent: a pair registered in one competition
// is rejected in every later one.
type Service struct {
	store  Store
	logger *observability.Logger
}

// NewService creates a ledger service
func NewService(st Store, logger *observability.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// TryRegister registers the pair if it has never been seen. The store's
// atomic conditional write resolves concurrent registrations: exactly one
// caller observes Accepted, every other caller gets the existing snapshot
// with its fraud counter incremented.
func (s *Service) TryRegister(ctx context.Context, inviterID, invitedID, competitionID, linkID uuid.UUID, now time.Time) (Result, error) {
	flags := store.NewFlags()
	flags[store.FlagFirstSeenAt] = now.UTC().Format(time.RFC3339)
	flags[store.FlagFirstCompetition] = competitionID.String()

	relationship, created, err := s.store.UpsertInviteRelationship(ctx, store.UpsertInviteRelationshipParams{
		InviterID:     inviterID,
		InvitedID:     invitedID,
		CompetitionID: competitionID,
		LinkID:        linkID,
		Now:           now,
		FraudFlags:    flags,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to register invite relationship: %w", err)
	}

	if !created {
		s.logger.Info(ctx, "duplicate invite pair rejected",
			observability.Field{Key: "inviter_id", Value: inviterID.String()},
			observability.Field{Key: "invited_id", Value: invitedID.String()},
			observability.Field{Key: "first_seen_at", Value: relationship.FirstSeenAt},
			observability.Field{Key: "total_attempts", Value: relationship.TotalAttempts},
		)
	}
	return Result{Accepted: created, Relationship: relationship}, nil
}

// GetRelationship retrieves a pair, or store.ErrNotFound
func (s *Service) GetRelationship(ctx context.Context, inviterID, invitedID uuid.UUID) (store.InviteRelationship, error) {
	return s.store.GetInviteRelationship(ctx, inviterID, invitedID)
}

// RecordFraudAttempt bumps the fraud counter on an existing pair without
// touching the immutable first_* columns. A pair that was never registered
// is a no-op: there is no relationship to count against.
func (s *Service) RecordFraudAttempt(ctx context.Context, inviterID, invitedID uuid.UUID, now time.Time) error {
	err := s.store.RecordRelationshipAttempt(ctx, inviterID, invitedID, true, now)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record fraud attempt: %w", err)
	}
	return nil
}

// Statistics returns aggregate ledger counters for monitoring
func (s *Service) Statistics(ctx context.Context) (store.LedgerStatistics, error) {
	return s.store.GetLedgerStatistics(ctx)
}
