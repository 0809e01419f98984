package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UpsertInviteRelationshipParams represents parameters for the atomic
// insert-or-update on one (inviter, invited) pair.
type UpsertInviteRelationshipParams struct {
	InviterID     uuid.UUID
	InvitedID     uuid.UUID
	CompetitionID uuid.UUID
	LinkID        uuid.UUID
	Now           time.Time
	FraudFlags    Flags
}

// The (xmax = 0) trick distinguishes a fresh insert from a conflict update
// within the same statement, so the uniqueness race is resolved entirely by
// the database.
const sqlUpsertInviteRelationship = `
INSERT INTO invite_relationships (
    inviter_id, invited_id, first_competition_id, first_link_id,
    first_seen_at, last_attempt_at, last_competition_id,
    total_attempts, fraud_attempts, valid_competitions_count, is_valid, fraud_flags
)
VALUES ($1, $2, $3, $4, $5, $5, $3, 1, 0, 1, TRUE, $6)
ON CONFLICT (inviter_id, invited_id) DO UPDATE
SET total_attempts      = invite_relationships.total_attempts + 1,
    fraud_attempts      = invite_relationships.fraud_attempts + 1,
    last_attempt_at     = EXCLUDED.last_attempt_at,
    last_competition_id = EXCLUDED.last_competition_id,
    updated_at          = CURRENT_TIMESTAMP
RETURNING id, inviter_id, invited_id, first_competition_id, first_link_id,
    first_seen_at, last_attempt_at, last_competition_id,
    total_attempts, fraud_attempts, valid_competitions_count, is_valid, fraud_flags,
    created_at, updated_at, (xmax = 0) AS inserted
`

type upsertInviteRelationshipRow struct {
	InviteRelationship
	Inserted bool `db:"inserted"`
}

// UpsertInviteRelationship registers the pair if it was never seen, or
// increments the attempt counters on the existing row. The second return
// value reports whether a new relationship was created.
func (s *Store) UpsertInviteRelationship(ctx context.Context, params UpsertInviteRelationshipParams) (InviteRelationship, bool, error) {
	var row upsertInviteRelationshipRow
	err := s.db.GetContext(ctx, &row, sqlUpsertInviteRelationship,
		params.InviterID,
		params.InvitedID,
		params.CompetitionID,
		params.LinkID,
		params.Now,
		params.FraudFlags)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert invite relationship", err)
		return InviteRelationship{}, false, fmt.Errorf("failed to upsert invite relationship: %w", err)
	}
	return row.InviteRelationship, row.Inserted, nil
}

const sqlGetInviteRelationship = `
SELECT id, inviter_id, invited_id, first_competition_id, first_link_id,
    first_seen_at, last_attempt_at, last_competition_id,
    total_attempts, fraud_attempts, valid_competitions_count, is_valid, fraud_flags,
    created_at, updated_at
FROM invite_relationships
WHERE inviter_id = $1 AND invited_id = $2
`

// GetInviteRelationship retrieves a relationship by its pair key
func (s *Store) GetInviteRelationship(ctx context.Context, inviterID, invitedID uuid.UUID) (InviteRelationship, error) {
	var relationship InviteRelationship
	err := s.db.GetContext(ctx, &relationship, sqlGetInviteRelationship, inviterID, invitedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InviteRelationship{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get invite relationship", err)
		return InviteRelationship{}, fmt.Errorf("failed to get invite relationship: %w", err)
	}
	return relationship, nil
}

const sqlRecordRelationshipAttempt = `
UPDATE invite_relationships
SET total_attempts  = total_attempts + 1,
    fraud_attempts  = fraud_attempts + CASE WHEN $3 THEN 1 ELSE 0 END,
    last_attempt_at = $4,
    updated_at      = CURRENT_TIMESTAMP
WHERE inviter_id = $1 AND invited_id = $2
`

// RecordRelationshipAttempt bumps the attempt counters on an existing pair
// without touching the immutable first_* columns. Used when an attempt is
// rejected before reaching the atomic upsert (e.g. by a fraud heuristic).
// Returns ErrNotFound when the pair has never been registered.
func (s *Store) RecordRelationshipAttempt(ctx context.Context, inviterID, invitedID uuid.UUID, fraud bool, now time.Time) error {
	res, err := s.db.ExecContext(ctx, sqlRecordRelationshipAttempt, inviterID, invitedID, fraud, now)
	if err != nil {
		s.logger.Error(ctx, "failed to record relationship attempt", err)
		return fmt.Errorf("failed to record relationship attempt: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlGetLedgerStatistics = `
SELECT COUNT(*)                                              AS total_pairs,
       COUNT(*) FILTER (WHERE is_valid)                      AS valid_pairs,
       COUNT(*) FILTER (WHERE fraud_attempts > 0)            AS pairs_with_fraud,
       COALESCE(SUM(fraud_attempts), 0)                      AS total_fraud_attempts
FROM invite_relationships
`

// GetLedgerStatistics retrieves aggregate ledger counters
func (s *Store) GetLedgerStatistics(ctx context.Context) (LedgerStatistics, error) {
	var stats LedgerStatistics
	err := s.db.GetContext(ctx, &stats, sqlGetLedgerStatistics)
	if err != nil {
		s.logger.Error(ctx, "failed to get ledger statistics", err)
		return LedgerStatistics{}, fmt.Errorf("failed to get ledger statistics: %w", err)
	}
	return stats, nil
}

const sqlSumFraudAttemptsByInvited = `
SELECT COALESCE(SUM(fraud_attempts), 0)
FROM invite_relationships
WHERE invited_id = $1
`

// SumFraudAttemptsByInvited totals fraud attempts across all relationships
// where the user is the invited party
func (s *Store) SumFraudAttemptsByInvited(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlSumFraudAttemptsByInvited, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to sum fraud attempts", err)
		return 0, fmt.Errorf("failed to sum fraud attempts: %w", err)
	}
	return count, nil
}

const sqlMaxRelationshipFraudAttempts = `
SELECT COALESCE(MAX(fraud_attempts), 0)
FROM invite_relationships
WHERE invited_id = $1 OR inviter_id = $1
`

// MaxRelationshipFraudAttempts returns the highest fraud count on any single
// relationship involving the user
func (s *Store) MaxRelationshipFraudAttempts(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlMaxRelationshipFraudAttempts, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to get max relationship fraud attempts", err)
		return 0, fmt.Errorf("failed to get max relationship fraud attempts: %w", err)
	}
	return count, nil
}
