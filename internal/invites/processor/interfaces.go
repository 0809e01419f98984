package processor

import (
	"context"
	"time"

	"inviteguard/internal/audit"
	"inviteguard/internal/blacklist"
	"inviteguard/internal/heuristics"
	"inviteguard/internal/ledger"
	"inviteguard/internal/ratelimit"
	"inviteguard/internal/store"
	"inviteguard/internal/workers"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=mocks_test.go -package=processor

// Store covers the event, attempt and statistics reads and writes the
// orchestrator performs directly.
type Store interface {
	CreateInviteAttempt(ctx context.Context, params store.CreateInviteAttemptParams) (store.InviteAttempt, error)
	CreateMemberEvent(ctx context.Context, params store.CreateMemberEventParams) (store.MemberEvent, error)
	GetUserEventsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]store.MemberEvent, error)
	GetCompetitionJoinsSince(ctx context.Context, competitionID uuid.UUID, since time.Time) ([]store.MemberEvent, error)
	GetAttemptsByPair(ctx context.Context, inviterID, invitedID uuid.UUID, limit int) ([]store.InviteAttempt, error)
	CountAttempts(ctx context.Context, competitionID *uuid.UUID) (store.AttemptCounts, error)
	CountFraudAlerts(ctx context.Context, competitionID *uuid.UUID) (int, error)
	CountActiveBlacklistEntries(ctx context.Context, now time.Time) (int, error)
}

// Ledger is the uniqueness authority.
type Ledger interface {
	TryRegister(ctx context.Context, inviterID, invitedID, competitionID, linkID uuid.UUID, now time.Time) (ledger.Result, error)
	GetRelationship(ctx context.Context, inviterID, invitedID uuid.UUID) (store.InviteRelationship, error)
	RecordFraudAttempt(ctx context.Context, inviterID, invitedID uuid.UUID, now time.Time) error
	Statistics(ctx context.Context) (store.LedgerStatistics, error)
}

// Blacklist gates and escalates.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
	Evaluate(ctx context.Context, userID uuid.UUID, signal *blacklist.Signal, now time.Time) (*store.BlacklistEntry, error)
	ManualBlacklist(ctx context.Context, userID, adminID uuid.UUID, permanent bool, durationDays int, now time.Time) (store.BlacklistEntry, error)
	RemoveBlacklist(ctx context.Context, userID uuid.UUID) (int64, error)
}

// RateLimiter bounds action rates per user.
type RateLimiter interface {
	CheckAndConsume(ctx context.Context, userID uuid.UUID, action ratelimit.ActionType, now time.Time) (ratelimit.Result, error)
	Peek(ctx context.Context, userID uuid.UUID, action ratelimit.ActionType, now time.Time) (ratelimit.Result, error)
	Reset(ctx context.Context, userID uuid.UUID, action ratelimit.ActionType) error
}

// Heuristics scores an attempt over a history snapshot.
type Heuristics interface {
	Evaluate(snap heuristics.Snapshot) heuristics.Evaluation
}

// AuditLogger records every security decision.
type AuditLogger interface {
	Log(entry audit.Entry)
	Query(ctx context.Context, filter store.AuditFilter, limit, offset int) ([]store.AuditLogEntry, int, error)
}

// Deferrer queues background work triggered by decisions.
type Deferrer interface {
	Submit(task workers.Task) bool
}
