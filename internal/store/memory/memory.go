// Package memory provides an in-memory implementation of the store
// operations used by the fraud-prevention core. It backs single-node
// deployments and tests; the Postgres tier in internal/store is the durable
// equivalent. All methods are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inviteguard/internal/store"

	"github.com/google/uuid"
)

type pairKey struct {
	inviterID uuid.UUID
	invitedID uuid.UUID
}

// Store holds all in-memory state behind a single mutex. The upsert is a
// compare-and-set under the lock, matching the atomicity the Postgres tier
// gets from its conditional write.
type Store struct {
	mu            sync.Mutex
	relationships map[pairKey]*store.InviteRelationship
	attempts      []store.InviteAttempt
	events        []store.MemberEvent
	blacklist     []store.BlacklistEntry
	alerts        []store.FraudAlert
	audit         []store.AuditLogEntry
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		relationships: make(map[pairKey]*store.InviteRelationship),
	}
}

// UpsertInviteRelationship registers the pair if it was never seen, or
// increments the attempt counters on the existing row.
func (s *Store) UpsertInviteRelationship(ctx context.Context, params store.UpsertInviteRelationshipParams) (store.InviteRelationship, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{params.InviterID, params.InvitedID}
	if existing, ok := s.relationships[key]; ok {
		existing.TotalAttempts++
		existing.FraudAttempts++
		existing.LastAttemptAt = params.Now
		existing.LastCompetitionID = params.CompetitionID
		existing.UpdatedAt = params.Now
		return *existing, false, nil
	}

	rel := &store.InviteRelationship{
		ID:                     uuid.New(),
		InviterID:              params.InviterID,
		InvitedID:              params.InvitedID,
		FirstCompetitionID:     params.CompetitionID,
		FirstLinkID:            params.LinkID,
		FirstSeenAt:            params.Now,
		LastAttemptAt:          params.Now,
		LastCompetitionID:      params.CompetitionID,
		TotalAttempts:          1,
		FraudAttempts:          0,
		ValidCompetitionsCount: 1,
		IsValid:                true,
		FraudFlags:             params.FraudFlags,
		CreatedAt:              params.Now,
		UpdatedAt:              params.Now,
	}
	s.relationships[key] = rel
	return *rel, true, nil
}

// GetInviteRelationship retrieves a relationship by its pair key
func (s *Store) GetInviteRelationship(ctx context.Context, inviterID, invitedID uuid.UUID) (store.InviteRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rel, ok := s.relationships[pairKey{inviterID, invitedID}]; ok {
		return *rel, nil
	}
	return store.InviteRelationship{}, store.ErrNotFound
}

// RecordRelationshipAttempt bumps attempt counters on an existing pair
func (s *Store) RecordRelationshipAttempt(ctx context.Context, inviterID, invitedID uuid.UUID, fraud bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.relationships[pairKey{inviterID, invitedID}]
	if !ok {
		return store.ErrNotFound
	}
	rel.TotalAttempts++
	if fraud {
		rel.FraudAttempts++
	}
	rel.LastAttemptAt = now
	rel.UpdatedAt = now
	return nil
}

// GetLedgerStatistics retrieves aggregate ledger counters
func (s *Store) GetLedgerStatistics(ctx context.Context) (store.LedgerStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats store.LedgerStatistics
	for _, rel := range s.relationships {
		stats.TotalPairs++
		if rel.IsValid {
			stats.ValidPairs++
		}
		if rel.FraudAttempts > 0 {
			stats.PairsWithFraud++
		}
		stats.TotalFraudAttempts += rel.FraudAttempts
	}
	return stats, nil
}

// SumFraudAttemptsByInvited totals fraud attempts where the user is invited
func (s *Store) SumFraudAttemptsByInvited(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, rel := range s.relationships {
		if rel.InvitedID == userID {
			total += rel.FraudAttempts
		}
	}
	return total, nil
}

// MaxRelationshipFraudAttempts returns the highest fraud count on any
// single relationship involving the user
func (s *Store) MaxRelationshipFraudAttempts(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max int
	for _, rel := range s.relationships {
		if (rel.InvitedID == userID || rel.InviterID == userID) && rel.FraudAttempts > max {
			max = rel.FraudAttempts
		}
	}
	return max, nil
}

// CreateMemberEvent records a join/leave/invite observation
func (s *Store) CreateMemberEvent(ctx context.Context, params store.CreateMemberEventParams) (store.MemberEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := store.MemberEvent{
		ID:            uuid.New(),
		UserID:        params.UserID,
		CompetitionID: params.CompetitionID,
		EventType:     params.EventType,
		InviterID:     params.InviterID,
		Username:      params.Username,
		ClientID:      params.ClientID,
		OccurredAt:    params.OccurredAt,
		CreatedAt:     params.OccurredAt,
	}
	s.events = append(s.events, event)
	return event, nil
}

// GetUserEventsSince retrieves a user's events in ascending time order
func (s *Store) GetUserEventsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]store.MemberEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.MemberEvent
	for _, e := range s.events {
		if e.UserID == userID && !e.OccurredAt.Before(since) {
			out = append(out, e)
		}
	}
	sortEventsAsc(out)
	return out, nil
}

// GetCompetitionJoinsSince retrieves join events for one competition
func (s *Store) GetCompetitionJoinsSince(ctx context.Context, competitionID uuid.UUID, since time.Time) ([]store.MemberEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.MemberEvent
	for _, e := range s.events {
		if e.CompetitionID == competitionID && e.EventType == store.EventTypeJoin && !e.OccurredAt.Before(since) {
			out = append(out, e)
		}
	}
	sortEventsAsc(out)
	return out, nil
}

// CountUserEventsSince counts a user's events after the given instant
func (s *Store) CountUserEventsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, e := range s.events {
		if e.UserID == userID && !e.OccurredAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// GetJoinsByInviterSince retrieves join events attributed to an inviter
func (s *Store) GetJoinsByInviterSince(ctx context.Context, inviterID uuid.UUID, since time.Time) ([]store.MemberEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.MemberEvent
	for _, e := range s.events {
		if e.InviterID != nil && *e.InviterID == inviterID && e.EventType == store.EventTypeJoin && !e.OccurredAt.Before(since) {
			out = append(out, e)
		}
	}
	sortEventsAsc(out)
	return out, nil
}

// CreateInviteAttempt appends one immutable attempt record
func (s *Store) CreateInviteAttempt(ctx context.Context, params store.CreateInviteAttemptParams) (store.InviteAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := store.InviteAttempt{
		ID:            uuid.New(),
		InviterID:     params.InviterID,
		InvitedID:     params.InvitedID,
		CompetitionID: params.CompetitionID,
		LinkID:        params.LinkID,
		Outcome:       params.Outcome,
		Reason:        params.Reason,
		Metadata:      params.Metadata,
		OccurredAt:    params.OccurredAt,
		CreatedAt:     params.OccurredAt,
	}
	s.attempts = append(s.attempts, attempt)
	return attempt, nil
}

// CountAttempts counts attempts, optionally scoped to one competition
func (s *Store) CountAttempts(ctx context.Context, competitionID *uuid.UUID) (store.AttemptCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts store.AttemptCounts
	for _, a := range s.attempts {
		if competitionID != nil && a.CompetitionID != *competitionID {
			continue
		}
		counts.Total++
		if a.Outcome == store.AttemptOutcomeRejected {
			counts.Rejected++
		}
	}
	return counts, nil
}

// GetAttemptsByPair retrieves the most recent attempts for a pair
func (s *Store) GetAttemptsByPair(ctx context.Context, inviterID, invitedID uuid.UUID, limit int) ([]store.InviteAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.InviteAttempt
	for _, a := range s.attempts {
		if a.InviterID == inviterID && a.InvitedID == invitedID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateBlacklistEntry creates a new blacklist entry
func (s *Store) CreateBlacklistEntry(ctx context.Context, params store.CreateBlacklistEntryParams) (store.BlacklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := store.BlacklistEntry{
		ID:            uuid.New(),
		UserID:        params.UserID,
		Reason:        params.Reason,
		Confidence:    params.Confidence,
		Details:       params.Details,
		AutoGenerated: params.AutoGenerated,
		CreatedBy:     params.CreatedBy,
		ExpiresAt:     params.ExpiresAt,
		CreatedAt:     time.Now(),
	}
	s.blacklist = append(s.blacklist, entry)
	return entry, nil
}

// GetActiveBlacklistEntry retrieves the most recent unexpired entry
func (s *Store) GetActiveBlacklistEntry(ctx context.Context, userID uuid.UUID, now time.Time) (store.BlacklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *store.BlacklistEntry
	for i := range s.blacklist {
		e := &s.blacklist[i]
		if e.UserID != userID {
			continue
		}
		if e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			continue
		}
		if found == nil || e.CreatedAt.After(found.CreatedAt) {
			found = e
		}
	}
	if found == nil {
		return store.BlacklistEntry{}, store.ErrNotFound
	}
	return *found, nil
}

// DeleteBlacklistEntriesByUser removes all entries for a user
func (s *Store) DeleteBlacklistEntriesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []store.BlacklistEntry
	var removed int64
	for _, e := range s.blacklist {
		if e.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.blacklist = kept
	return removed, nil
}

// DeleteExpiredBlacklistEntries purges entries whose TTL has elapsed
func (s *Store) DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []store.BlacklistEntry
	var removed int64
	for _, e := range s.blacklist {
		if e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.blacklist = kept
	return removed, nil
}

// CountActiveBlacklistEntries counts currently blocked users
func (s *Store) CountActiveBlacklistEntries(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[uuid.UUID]struct{})
	for _, e := range s.blacklist {
		if e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			continue
		}
		users[e.UserID] = struct{}{}
	}
	return len(users), nil
}

// CreateFraudAlert creates a new fraud alert record
func (s *Store) CreateFraudAlert(ctx context.Context, params store.CreateFraudAlertParams) (store.FraudAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert := store.FraudAlert{
		ID:            uuid.New(),
		UserID:        params.UserID,
		CompetitionID: params.CompetitionID,
		FraudType:     params.FraudType,
		Confidence:    params.Confidence,
		Details:       params.Details,
		ActionTaken:   params.ActionTaken,
		CreatedAt:     time.Now(),
	}
	s.alerts = append(s.alerts, alert)
	return alert, nil
}

// GetFraudAlertsByUser retrieves fraud alerts for a user
func (s *Store) GetFraudAlertsByUser(ctx context.Context, userID uuid.UUID) ([]store.FraudAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.FraudAlert
	for _, a := range s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CountFraudAlerts counts alerts, optionally scoped to one competition
func (s *Store) CountFraudAlerts(ctx context.Context, competitionID *uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, a := range s.alerts {
		if competitionID != nil && (a.CompetitionID == nil || *a.CompetitionID != *competitionID) {
			continue
		}
		count++
	}
	return count, nil
}

// InsertAuditEntries persists a batch of buffered audit entries
func (s *Store) InsertAuditEntries(ctx context.Context, entries []store.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, entries...)
	return nil
}

// QueryAuditEntries reads audit entries matching the filter, newest first
func (s *Store) QueryAuditEntries(ctx context.Context, filter store.AuditFilter, limit, offset int) ([]store.AuditLogEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []store.AuditLogEntry
	for _, e := range s.audit {
		if filter.UserID != nil && (e.UserID == nil || *e.UserID != *filter.UserID) {
			continue
		}
		if filter.ActionType != nil && e.ActionType != *filter.ActionType {
			continue
		}
		if filter.Level != nil && e.Level != *filter.Level {
			continue
		}
		if filter.From != nil && e.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.OccurredAt.After(*filter.To) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].OccurredAt.After(matched[j].OccurredAt) })

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// DeleteAuditEntriesBefore purges entries of one level older than the cutoff
func (s *Store) DeleteAuditEntriesBefore(ctx context.Context, level string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []store.AuditLogEntry
	var removed int64
	for _, e := range s.audit {
		if e.Level == level && e.OccurredAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.audit = kept
	return removed, nil
}

func sortEventsAsc(events []store.MemberEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].OccurredAt.Before(events[j].OccurredAt) })
}
