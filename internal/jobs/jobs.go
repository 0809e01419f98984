// Package jobs holds the scheduled maintenance jobs: blacklist cleanup,
// audit retention purge, and rate-limit window pruning.
package jobs

import (
	"context"
	"strconv"
	"time"

	"inviteguard/internal/audit"
	"inviteguard/internal/blacklist"
	"inviteguard/internal/observability"
	"inviteguard/internal/ratelimit"
	"inviteguard/internal/store"
)

// BlacklistCleanup purges expired blacklist entries and cache rows.
type BlacklistCleanup struct {
	manager  *blacklist.Manager
	interval time.Duration
}

func NewBlacklistCleanup(manager *blacklist.Manager, interval time.Duration) *BlacklistCleanup {
	return &BlacklistCleanup{manager: manager, interval: interval}
}

func (j *BlacklistCleanup) Name() string            { return "blacklist-cleanup" }
func (j *BlacklistCleanup) Schedule() time.Duration { return j.interval }

func (j *BlacklistCleanup) Run(ctx context.Context) error {
	_, err := j.manager.Cleanup(ctx, time.Now())
	return err
}

// AuditRetention enforces the level-scoped audit retention policy.
type AuditRetention struct {
	audit    *audit.Logger
	logger   *observability.Logger
	interval time.Duration
}

func NewAuditRetention(auditLogger *audit.Logger, logger *observability.Logger, interval time.Duration) *AuditRetention {
	return &AuditRetention{audit: auditLogger, logger: logger, interval: interval}
}

func (j *AuditRetention) Name() string            { return "audit-retention" }
func (j *AuditRetention) Schedule() time.Duration { return j.interval }

func (j *AuditRetention) Run(ctx context.Context) error {
	removed, err := j.audit.Purge(ctx, time.Now())
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info(ctx, "purged expired audit entries",
			observability.Field{Key: "removed", Value: removed})
		details := store.NewFlags()
		details[store.FlagActionCount] = strconv.FormatInt(removed, 10)
		j.audit.Log(audit.Entry{
			ActionType: store.AuditActionRetentionPurge,
			Level:      store.AuditLevelInfo,
			Message:    "expired audit entries purged",
			Details:    details,
		})
	}
	return nil
}

// RateLimitPrune drops stale in-memory rate-limit windows.
type RateLimitPrune struct {
	limiter  *ratelimit.Service
	interval time.Duration
}

func NewRateLimitPrune(limiter *ratelimit.Service, interval time.Duration) *RateLimitPrune {
	return &RateLimitPrune{limiter: limiter, interval: interval}
}

func (j *RateLimitPrune) Name() string            { return "ratelimit-prune" }
func (j *RateLimitPrune) Schedule() time.Duration { return j.interval }

func (j *RateLimitPrune) Run(ctx context.Context) error {
	j.limiter.Prune(ctx, time.Now())
	return nil
}
