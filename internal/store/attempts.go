package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateInviteAttemptParams represents parameters for one attempt record
type CreateInviteAttemptParams struct {
	InviterID     uuid.UUID
	InvitedID     uuid.UUID
	CompetitionID uuid.UUID
	LinkID        uuid.UUID
	Outcome       string
	Reason        string
	Metadata      Flags
	OccurredAt    time.Time
}

const sqlCreateInviteAttempt = `
INSERT INTO invite_attempts (inviter_id, invited_id, competition_id, link_id, outcome, reason, metadata, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, inviter_id, invited_id, competition_id, link_id, outcome, reason, metadata, occurred_at, created_at
`

// CreateInviteAttempt appends one immutable attempt record
func (s *Store) CreateInviteAttempt(ctx context.Context, params CreateInviteAttemptParams) (InviteAttempt, error) {
	var attempt InviteAttempt
	err := s.db.GetContext(ctx, &attempt, sqlCreateInviteAttempt,
		params.InviterID,
		params.InvitedID,
		params.CompetitionID,
		params.LinkID,
		params.Outcome,
		params.Reason,
		params.Metadata,
		params.OccurredAt)
	if err != nil {
		s.logger.Error(ctx, "failed to create invite attempt", err)
		return InviteAttempt{}, fmt.Errorf("failed to create invite attempt: %w", err)
	}
	return attempt, nil
}

const sqlCountAttemptsByCompetition = `
SELECT COUNT(*)                                     AS total,
       COUNT(*) FILTER (WHERE outcome = 'rejected') AS rejected
FROM invite_attempts
WHERE ($1::uuid IS NULL OR competition_id = $1)
`

// AttemptCounts holds attempt totals for statistics
type AttemptCounts struct {
	Total    int `db:"total"`
	Rejected int `db:"rejected"`
}

// CountAttempts counts attempts, optionally scoped to one competition
func (s *Store) CountAttempts(ctx context.Context, competitionID *uuid.UUID) (AttemptCounts, error) {
	var counts AttemptCounts
	err := s.db.GetContext(ctx, &counts, sqlCountAttemptsByCompetition, competitionID)
	if err != nil {
		s.logger.Error(ctx, "failed to count invite attempts", err)
		return AttemptCounts{}, fmt.Errorf("failed to count invite attempts: %w", err)
	}
	return counts, nil
}

const sqlGetAttemptsByPair = `
SELECT id, inviter_id, invited_id, competition_id, link_id, outcome, reason, metadata, occurred_at, created_at
FROM invite_attempts
WHERE inviter_id = $1 AND invited_id = $2
ORDER BY occurred_at DESC
LIMIT $3
`

// GetAttemptsByPair retrieves the most recent attempts for a pair
func (s *Store) GetAttemptsByPair(ctx context.Context, inviterID, invitedID uuid.UUID, limit int) ([]InviteAttempt, error) {
	var attempts []InviteAttempt
	err := s.db.SelectContext(ctx, &attempts, sqlGetAttemptsByPair, inviterID, invitedID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get attempts by pair", err)
		return nil, fmt.Errorf("failed to get attempts by pair: %w", err)
	}
	return attempts, nil
}
