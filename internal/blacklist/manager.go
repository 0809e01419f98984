package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inviteguard/internal/config"
	"inviteguard/internal/observability"
	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// Signal is a triggered heuristic result handed to a deferred evaluation.
// It lets coordinated-cluster and bot-signature detections escalate without
// the manager re-deriving them from history.
type Signal struct {
	FraudType     string
	Confidence    float64
	CompetitionID *uuid.UUID
	Details       store.Flags
}

// Manager escalates repeated or severe fraud signals into enforceable
// blocks. Blocks are observable only through IsBlacklisted and never
// retroactively invalidate accepted relationships.
type Manager struct {
	store  Store
	cache  *cache
	cfg    config.BlacklistConfig
	logger *observability.Logger
}

// NewManager creates a blacklist manager
func NewManager(st Store, cfg config.BlacklistConfig, logger *observability.Logger) *Manager {
	return &Manager{
		store:  st,
		cache:  newCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		cfg:    cfg,
		logger: logger,
	}
}

// IsBlacklisted reports whether the user is currently blocked, consulting
// the bounded cache before durable storage.
func (m *Manager) IsBlacklisted(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	if blacklisted, ok := m.cache.get(userID, now); ok {
		return blacklisted, nil
	}

	entry, err := m.store.GetActiveBlacklistEntry(ctx, userID, now)
	if errors.Is(err, store.ErrNotFound) {
		m.cache.set(userID, false, nil, now)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	m.cache.set(userID, true, entry.ExpiresAt, now)
	return true, nil
}

// Evaluate runs the escalation rules in order and persists the first match
// plus a fraud alert. Already-blacklisted users short-circuit, which makes
// the call idempotent. The optional signal carries a triggered heuristic
// (coordinated cluster or bot signature) from the attempt that caused this
// evaluation.
func (m *Manager) Evaluate(ctx context.Context, userID uuid.UUID, signal *Signal, now time.Time) (*store.BlacklistEntry, error) {
	existing, err := m.store.GetActiveBlacklistEntry(ctx, userID, now)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing blacklist entry: %w", err)
	}

	match, err := m.firstMatch(ctx, userID, signal, now)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	entry, err := m.store.CreateBlacklistEntry(ctx, store.CreateBlacklistEntryParams{
		UserID:        userID,
		Reason:        match.reason,
		Confidence:    match.confidence,
		Details:       match.details,
		AutoGenerated: true,
		ExpiresAt:     match.expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blacklist entry: %w", err)
	}
	m.cache.set(userID, true, entry.ExpiresAt, now)

	if _, err := m.store.CreateFraudAlert(ctx, store.CreateFraudAlertParams{
		UserID:        userID,
		CompetitionID: match.competitionID,
		FraudType:     match.fraudType,
		Confidence:    match.confidence,
		Details:       match.details,
		ActionTaken:   store.AlertActionBlacklisted,
	}); err != nil {
		m.logger.Error(ctx, "failed to record fraud alert for blacklist entry", err,
			observability.Field{Key: "user_id", Value: userID.String()})
	}

	m.logger.Warn(ctx, "user blacklisted",
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "reason", Value: match.reason},
		observability.Field{Key: "confidence", Value: match.confidence},
		observability.Field{Key: "permanent", Value: match.expiresAt == nil},
	)
	return &entry, nil
}

type ruleMatch struct {
	reason        string
	fraudType     string
	confidence    float64
	details       store.Flags
	expiresAt     *time.Time
	competitionID *uuid.UUID
}

func (m *Manager) firstMatch(ctx context.Context, userID uuid.UUID, signal *Signal, now time.Time) (*ruleMatch, error) {
	if match, err := m.multipleFraudAttempts(ctx, userID); match != nil || err != nil {
		return match, err
	}
	if match, err := m.coordinatedAttack(ctx, userID, signal, now); match != nil || err != nil {
		return match, err
	}
	if match := m.botBehavior(signal, now); match != nil {
		return match, nil
	}
	return m.rapidPattern(ctx, userID, now)
}

// Rule 1: repeated duplicate-pair fraud, either accumulated across
// relationships where the user is the invited party or concentrated on a
// single relationship. Permanent.
func (m *Manager) multipleFraudAttempts(ctx context.Context, userID uuid.UUID) (*ruleMatch, error) {
	total, err := m.store.SumFraudAttemptsByInvited(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum fraud attempts: %w", err)
	}
	single, err := m.store.MaxRelationshipFraudAttempts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max relationship fraud attempts: %w", err)
	}
	if total < m.cfg.FraudAttemptsThreshold && single < m.cfg.FraudAttemptsThreshold {
		return nil, nil
	}

	details := store.NewFlags()
	details[store.FlagActionCount] = fmt.Sprintf("%d", total)
	return &ruleMatch{
		reason:     store.BlacklistReasonMultipleFraudAttempts,
		fraudType:  store.FraudTypeHighFrequency,
		confidence: 0.95,
		details:    details,
	}, nil
}

// Rule 2: coordinated attack. A triggered coordinated-cluster signal
// escalates directly; otherwise the user's attributed joins are re-bucketed
// by minute over the configured window. Permanent.
func (m *Manager) coordinatedAttack(ctx context.Context, userID uuid.UUID, signal *Signal, now time.Time) (*ruleMatch, error) {
	if signal != nil && signal.FraudType == store.FraudTypeCoordinatedCluster {
		return &ruleMatch{
			reason:        store.BlacklistReasonCoordinatedAttack,
			fraudType:     store.FraudTypeCoordinatedCluster,
			confidence:    0.9,
			details:       signal.Details,
			competitionID: signal.CompetitionID,
		}, nil
	}

	joins, err := m.store.GetJoinsByInviterSince(ctx, userID, now.Add(-m.cfg.CoordinatedWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to get attributed joins: %w", err)
	}

	buckets := make(map[time.Time]map[uuid.UUID]struct{})
	for _, join := range joins {
		minute := join.OccurredAt.Truncate(time.Minute)
		if buckets[minute] == nil {
			buckets[minute] = make(map[uuid.UUID]struct{})
		}
		buckets[minute][join.UserID] = struct{}{}
	}

	var suspiciousBuckets, coJoiningUsers int
	for _, users := range buckets {
		if len(users) > m.cfg.CoordinatedBucketSize {
			suspiciousBuckets++
			coJoiningUsers += len(users)
		}
	}
	if suspiciousBuckets < m.cfg.CoordinatedMinBuckets || coJoiningUsers < m.cfg.CoordinatedMinUsers {
		return nil, nil
	}

	details := store.NewFlags()
	details[store.FlagBucketCount] = fmt.Sprintf("%d", suspiciousBuckets)
	details[store.FlagFlaggedUsers] = fmt.Sprintf("%d", coJoiningUsers)
	return &ruleMatch{
		reason:     store.BlacklistReasonCoordinatedAttack,
		fraudType:  store.FraudTypeCoordinatedCluster,
		confidence: 0.9,
		details:    details,
	}, nil
}

// Rule 3: bot signature at or above the block threshold. 30-day block.
func (m *Manager) botBehavior(signal *Signal, now time.Time) *ruleMatch {
	if signal == nil || signal.FraudType != store.FraudTypeBotSignature || signal.Confidence < m.cfg.BotSignatureThreshold {
		return nil
	}
	expiresAt := now.Add(time.Duration(m.cfg.BotBlockDays) * 24 * time.Hour)
	return &ruleMatch{
		reason:        store.BlacklistReasonBotBehavior,
		fraudType:     store.FraudTypeBotSignature,
		confidence:    0.85,
		details:       signal.Details,
		expiresAt:     &expiresAt,
		competitionID: signal.CompetitionID,
	}
}

// Rule 4: an unsustainable action rate. 7-day block.
func (m *Manager) rapidPattern(ctx context.Context, userID uuid.UUID, now time.Time) (*ruleMatch, error) {
	hourly, err := m.store.CountUserEventsSince(ctx, userID, now.Add(-time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count hourly events: %w", err)
	}
	tenMin, err := m.store.CountUserEventsSince(ctx, userID, now.Add(-10*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to count ten-minute events: %w", err)
	}
	if hourly < m.cfg.RapidActionsPerHour && tenMin < m.cfg.RapidActionsPerTenMin {
		return nil, nil
	}

	details := store.NewFlags()
	details[store.FlagActionCount] = fmt.Sprintf("%d", hourly)
	expiresAt := now.Add(time.Duration(m.cfg.RapidBlockDays) * 24 * time.Hour)
	return &ruleMatch{
		reason:     store.BlacklistReasonRapidPattern,
		fraudType:  store.FraudTypeHighFrequency,
		confidence: 0.8,
		details:    details,
		expiresAt:  &expiresAt,
	}, nil
}

// ManualBlacklist creates an admin-issued block, bypassing the rules.
func (m *Manager) ManualBlacklist(ctx context.Context, userID, adminID uuid.UUID, permanent bool, durationDays int, now time.Time) (store.BlacklistEntry, error) {
	var expiresAt *time.Time
	if !permanent {
		if durationDays <= 0 {
			return store.BlacklistEntry{}, fmt.Errorf("temporary blacklist requires a positive duration")
		}
		t := now.Add(time.Duration(durationDays) * 24 * time.Hour)
		expiresAt = &t
	}

	details := store.NewFlags()
	details[store.FlagAdminID] = adminID.String()
	entry, err := m.store.CreateBlacklistEntry(ctx, store.CreateBlacklistEntryParams{
		UserID:        userID,
		Reason:        store.BlacklistReasonManual,
		Confidence:    1.0,
		Details:       details,
		AutoGenerated: false,
		CreatedBy:     &adminID,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		return store.BlacklistEntry{}, fmt.Errorf("failed to create manual blacklist entry: %w", err)
	}
	m.cache.set(userID, true, entry.ExpiresAt, now)
	return entry, nil
}

// RemoveBlacklist deletes every entry for the user and clears the cache.
func (m *Manager) RemoveBlacklist(ctx context.Context, userID uuid.UUID) (int64, error) {
	removed, err := m.store.DeleteBlacklistEntriesByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove blacklist entries: %w", err)
	}
	m.cache.invalidate(userID)
	return removed, nil
}

// Cleanup purges expired storage rows and cache entries, restoring expired
// users to clear. Run periodically by the scheduler.
func (m *Manager) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	removed, err := m.store.DeleteExpiredBlacklistEntries(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up blacklist: %w", err)
	}
	purged := m.cache.purgeExpired(now)
	if removed > 0 || purged > 0 {
		m.logger.Info(ctx, "blacklist cleanup complete",
			observability.Field{Key: "entries_removed", Value: removed},
			observability.Field{Key: "cache_purged", Value: purged},
		)
	}
	return removed, nil
}
