package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateMemberEventParams represents parameters for recording a member event
type CreateMemberEventParams struct {
	UserID        uuid.UUID
	CompetitionID uuid.UUID
	EventType     string
	InviterID     *uuid.UUID
	Username      string
	ClientID      string
	OccurredAt    time.Time
}

const sqlCreateMemberEvent = `
INSERT INTO member_events (user_id, competition_id, event_type, inviter_id, username, client_id, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, competition_id, event_type, inviter_id, username, client_id, occurred_at, created_at
`

// CreateMemberEvent records a join/leave/invite observation
func (s *Store) CreateMemberEvent(ctx context.Context, params CreateMemberEventParams) (MemberEvent, error) {
	var event MemberEvent
	err := s.db.GetContext(ctx, &event, sqlCreateMemberEvent,
		params.UserID,
		params.CompetitionID,
		params.EventType,
		params.InviterID,
		params.Username,
		params.ClientID,
		params.OccurredAt)
	if err != nil {
		s.logger.Error(ctx, "failed to create member event", err)
		return MemberEvent{}, fmt.Errorf("failed to create member event: %w", err)
	}
	return event, nil
}

const sqlGetUserEventsSince = `
SELECT id, user_id, competition_id, event_type, inviter_id, username, client_id, occurred_at, created_at
FROM member_events
WHERE user_id = $1 AND occurred_at >= $2
ORDER BY occurred_at ASC
`

// GetUserEventsSince retrieves a user's events in ascending time order
func (s *Store) GetUserEventsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]MemberEvent, error) {
	var events []MemberEvent
	err := s.db.SelectContext(ctx, &events, sqlGetUserEventsSince, userID, since)
	if err != nil {
		s.logger.Error(ctx, "failed to get user events", err)
		return nil, fmt.Errorf("failed to get user events: %w", err)
	}
	return events, nil
}

const sqlGetCompetitionJoinsSince = `
SELECT id, user_id, competition_id, event_type, inviter_id, username, client_id, occurred_at, created_at
FROM member_events
WHERE competition_id = $1 AND event_type = 'join' AND occurred_at >= $2
ORDER BY occurred_at ASC
`

// GetCompetitionJoinsSince retrieves join events for one competition in
// ascending time order (for coordinated-cluster bucketing)
func (s *Store) GetCompetitionJoinsSince(ctx context.Context, competitionID uuid.UUID, since time.Time) ([]MemberEvent, error) {
	var events []MemberEvent
	err := s.db.SelectContext(ctx, &events, sqlGetCompetitionJoinsSince, competitionID, since)
	if err != nil {
		s.logger.Error(ctx, "failed to get competition joins", err)
		return nil, fmt.Errorf("failed to get competition joins: %w", err)
	}
	return events, nil
}

const sqlCountUserEventsSince = `
SELECT COUNT(*)
FROM member_events
WHERE user_id = $1 AND occurred_at >= $2
`

// CountUserEventsSince counts a user's events after the given instant
// (for rapid-pattern checks)
func (s *Store) CountUserEventsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountUserEventsSince, userID, since)
	if err != nil {
		s.logger.Error(ctx, "failed to count user events", err)
		return 0, fmt.Errorf("failed to count user events: %w", err)
	}
	return count, nil
}

const sqlGetUserJoinsSince = `
SELECT id, user_id, competition_id, event_type, inviter_id, username, client_id, occurred_at, created_at
FROM member_events
WHERE inviter_id = $1 AND event_type = 'join' AND occurred_at >= $2
ORDER BY occurred_at ASC
`

// GetJoinsByInviterSince retrieves join events attributed to an inviter
func (s *Store) GetJoinsByInviterSince(ctx context.Context, inviterID uuid.UUID, since time.Time) ([]MemberEvent, error) {
	var events []MemberEvent
	err := s.db.SelectContext(ctx, &events, sqlGetUserJoinsSince, inviterID, since)
	if err != nil {
		s.logger.Error(ctx, "failed to get joins by inviter", err)
		return nil, fmt.Errorf("failed to get joins by inviter: %w", err)
	}
	return events, nil
}
