package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateBlacklistEntryParams represents parameters for creating a blacklist entry
type CreateBlacklistEntryParams struct {
	UserID        uuid.UUID
	Reason        string
	Confidence    float64
	Details       Flags
	AutoGenerated bool
	CreatedBy     *uuid.UUID
	ExpiresAt     *time.Time
}

const sqlCreateBlacklistEntry = `
INSERT INTO blacklist_entries (user_id, reason, confidence, details, auto_generated, created_by, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, reason, confidence, details, auto_generated, created_by, expires_at, created_at
`

// CreateBlacklistEntry creates a new blacklist entry
func (s *Store) CreateBlacklistEntry(ctx context.Context, params CreateBlacklistEntryParams) (BlacklistEntry, error) {
	var entry BlacklistEntry
	err := s.db.GetContext(ctx, &entry, sqlCreateBlacklistEntry,
		params.UserID,
		params.Reason,
		params.Confidence,
		params.Details,
		params.AutoGenerated,
		params.CreatedBy,
		params.ExpiresAt)
	if err != nil {
		s.logger.Error(ctx, "failed to create blacklist entry", err)
		return BlacklistEntry{}, fmt.Errorf("failed to create blacklist entry: %w", err)
	}
	return entry, nil
}

const sqlGetActiveBlacklistEntry = `
SELECT id, user_id, reason, confidence, details, auto_generated, created_by, expires_at, created_at
FROM blacklist_entries
WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > $2)
ORDER BY created_at DESC
LIMIT 1
`

// GetActiveBlacklistEntry retrieves the most recent unexpired entry for a
// user, or ErrNotFound when the user is clear
func (s *Store) GetActiveBlacklistEntry(ctx context.Context, userID uuid.UUID, now time.Time) (BlacklistEntry, error) {
	var entry BlacklistEntry
	err := s.db.GetContext(ctx, &entry, sqlGetActiveBlacklistEntry, userID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BlacklistEntry{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get active blacklist entry", err)
		return BlacklistEntry{}, fmt.Errorf("failed to get active blacklist entry: %w", err)
	}
	return entry, nil
}

const sqlDeleteBlacklistEntriesByUser = `
DELETE FROM blacklist_entries
WHERE user_id = $1
`

// DeleteBlacklistEntriesByUser removes all entries for a user (admin removal)
func (s *Store) DeleteBlacklistEntriesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, sqlDeleteBlacklistEntriesByUser, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete blacklist entries", err)
		return 0, fmt.Errorf("failed to delete blacklist entries: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

const sqlDeleteExpiredBlacklistEntries = `
DELETE FROM blacklist_entries
WHERE expires_at IS NOT NULL AND expires_at <= $1
`

// DeleteExpiredBlacklistEntries purges entries whose TTL has elapsed
func (s *Store) DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, sqlDeleteExpiredBlacklistEntries, now)
	if err != nil {
		s.logger.Error(ctx, "failed to delete expired blacklist entries", err)
		return 0, fmt.Errorf("failed to delete expired blacklist entries: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

const sqlCountActiveBlacklistEntries = `
SELECT COUNT(DISTINCT user_id)
FROM blacklist_entries
WHERE expires_at IS NULL OR expires_at > $1
`

// CountActiveBlacklistEntries counts currently blocked users
func (s *Store) CountActiveBlacklistEntries(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountActiveBlacklistEntries, now)
	if err != nil {
		s.logger.Error(ctx, "failed to count active blacklist entries", err)
		return 0, fmt.Errorf("failed to count active blacklist entries: %w", err)
	}
	return count, nil
}
