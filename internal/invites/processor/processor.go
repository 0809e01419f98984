package processor

import (
	"context"
	"fmt"
	"time"

	"inviteguard/internal/audit"
	"inviteguard/internal/blacklist"
	"inviteguard/internal/config"
	"inviteguard/internal/heuristics"
	"inviteguard/internal/observability"
	"inviteguard/internal/ratelimit"
	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// ValidateInviteRequest is one inbound invite-attempt event.
type ValidateInviteRequest struct {
	InviterID       uuid.UUID
	InvitedID       uuid.UUID
	CompetitionID   uuid.UUID
	LinkID          uuid.UUID
	InvitedUsername string
	ClientID        string
	Metadata        store.Flags
}

// Decision is the outcome of a validation call. Reason is suitable for
// administrative display; end users see only the accepted flag.
type Decision struct {
	Accepted       bool       `json:"accepted"`
	Reason         string     `json:"reason"`
	Confidence     float64    `json:"confidence"`
	RelationshipID *uuid.UUID `json:"relationship_id,omitempty"`
	FirstSeenAt    *time.Time `json:"first_seen_at,omitempty"`
}

// FraudStatistics aggregates counters for monitoring.
type FraudStatistics struct {
	Ledger           store.LedgerStatistics `json:"ledger"`
	Attempts         store.AttemptCounts    `json:"attempts"`
	FraudAlerts      int                    `json:"fraud_alerts"`
	ActiveBlacklists int                    `json:"active_blacklists"`
}

// Processor composes the ledger, heuristics engine, rate limiter, blacklist
// manager and audit logger into one decision pipeline. ValidateInvite is the
// sole synchronous entry point for invite events.
type Processor struct {
	store      Store
	ledger     Ledger
	blacklist  Blacklist
	limiter    RateLimiter
	heuristics Heuristics
	audit      AuditLogger
	deferrer   Deferrer
	logger     *observability.Logger

	policy        config.PolicyConfig
	historyWindow time.Duration
	clusterWindow time.Duration
}

// New creates an invite validation processor
func New(st Store, ldg Ledger, bl Blacklist, rl RateLimiter, h Heuristics, al AuditLogger, d Deferrer, cfg *config.Config, logger *observability.Logger) *Processor {
	historyWindow := cfg.Heuristics.RapidJoinLeaveWindow
	if cfg.Heuristics.HighFrequencyWindow > historyWindow {
		historyWindow = cfg.Heuristics.HighFrequencyWindow
	}
	return &Processor{
		store:         st,
		ledger:        ldg,
		blacklist:     bl,
		limiter:       rl,
		heuristics:    h,
		audit:         al,
		deferrer:      d,
		logger:        logger,
		policy:        cfg.Policy,
		historyWindow: historyWindow,
		clusterWindow: cfg.Blacklist.CoordinatedWindow,
	}
}

// ValidateInvite runs the full decision pipeline for one invite attempt.
// Storage failures anywhere in the pipeline resolve through the configured
// fail-open/fail-closed policy instead of propagating to the caller.
func (p *Processor) ValidateInvite(ctx context.Context, req ValidateInviteRequest) (Decision, error) {
	now := time.Now()
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "inviter_id", Value: req.InviterID.String()},
		observability.Field{Key: "invited_id", Value: req.InvitedID.String()},
		observability.Field{Key: "competition_id", Value: req.CompetitionID.String()},
	)

	// Malformed input is rejected before touching storage.
	if decision, invalid := p.validateInput(req); invalid {
		p.auditDecision(req, decision, nil, now)
		return decision, nil
	}

	// Blacklist gate: either party being blocked rejects the attempt.
	for _, userID := range []uuid.UUID{req.InviterID, req.InvitedID} {
		blocked, err := p.blacklist.IsBlacklisted(ctx, userID, now)
		if err != nil {
			return p.resolveStorageFailure(ctx, req, "blacklist check", err, now), nil
		}
		if blocked {
			decision := Decision{Reason: store.RejectReasonBlacklisted, Confidence: 1.0}
			p.recordAttempt(ctx, req, decision, now)
			p.auditDecision(req, decision, nil, now)
			return decision, nil
		}
	}

	// Rate-limit gate on the inviter.
	limit, err := p.limiter.CheckAndConsume(ctx, req.InviterID, ratelimit.ActionInviteAttempt, now)
	if err != nil {
		return p.resolveStorageFailure(ctx, req, "rate limit check", err, now), nil
	}
	if !limit.Allowed {
		decision := Decision{Reason: store.RejectReasonRateLimited, Confidence: 1.0}
		p.recordAttempt(ctx, req, decision, now)
		p.auditDecision(req, decision, nil, now)
		p.audit.Log(audit.Entry{
			UserID:     &req.InviterID,
			ActionType: store.AuditActionRateLimitBreach,
			Level:      store.AuditLevelWarning,
			Message:    "invite attempt rate limit breached",
			Details: store.Flags{
				store.FlagCooldownUntil: limit.CooldownUntil.UTC().Format(time.RFC3339),
			},
		})
		return decision, nil
	}

	// History snapshot for the pure rules. The attempt in flight counts as
	// a join observation, so a burst is visible to the attempt that
	// completes it.
	snap, err := p.buildSnapshot(ctx, req, now)
	if err != nil {
		return p.resolveStorageFailure(ctx, req, "history snapshot", err, now), nil
	}
	eval := p.heuristics.Evaluate(snap)

	if eval.Reject {
		decision := Decision{Reason: store.RejectReasonFraudHeuristic, Confidence: eval.Confidence}
		if err := p.ledger.RecordFraudAttempt(ctx, req.InviterID, req.InvitedID, now); err != nil {
			p.logger.Error(ctx, "failed to record fraud attempt on relationship", err)
		}
		p.limiter.CheckAndConsume(ctx, req.InviterID, ratelimit.ActionFraudAttempt, now)
		p.recordAttempt(ctx, req, decision, now)
		p.auditDecision(req, decision, &eval, now)
		p.deferEvaluations(req, &eval, now)
		return decision, nil
	}

	// The atomic conditional write is both the uniqueness check and the
	// commit: no read-then-write race window exists.
	result, err := p.ledger.TryRegister(ctx, req.InviterID, req.InvitedID, req.CompetitionID, req.LinkID, now)
	if err != nil {
		return p.resolveStorageFailure(ctx, req, "ledger registration", err, now), nil
	}

	var decision Decision
	if result.Accepted {
		decision = Decision{
			Accepted:       true,
			Reason:         store.AcceptReasonFirstAttempt,
			Confidence:     1.0,
			RelationshipID: &result.Relationship.ID,
		}
		p.recordMemberEvent(ctx, req, now)
	} else {
		firstSeen := result.Relationship.FirstSeenAt
		decision = Decision{
			Reason:      store.RejectReasonDuplicatePair,
			Confidence:  1.0,
			FirstSeenAt: &firstSeen,
		}
		p.limiter.CheckAndConsume(ctx, req.InviterID, ratelimit.ActionFraudAttempt, now)
	}

	p.recordAttempt(ctx, req, decision, now)
	p.auditDecision(req, decision, &eval, now)
	if !decision.Accepted || eval.InviterSignal != nil {
		p.deferEvaluations(req, &eval, now)
	}
	return decision, nil
}

func (p *Processor) validateInput(req ValidateInviteRequest) (Decision, bool) {
	if req.InviterID == uuid.Nil || req.InvitedID == uuid.Nil || req.CompetitionID == uuid.Nil {
		return Decision{Reason: store.RejectReasonMissingIdentity, Confidence: 1.0}, true
	}
	if req.InviterID == req.InvitedID {
		return Decision{Reason: store.RejectReasonSelfInvite, Confidence: 1.0}, true
	}
	return Decision{}, false
}

func (p *Processor) buildSnapshot(ctx context.Context, req ValidateInviteRequest, now time.Time) (heuristics.Snapshot, error) {
	invitedEvents, err := p.store.GetUserEventsSince(ctx, req.InvitedID, now.Add(-p.historyWindow))
	if err != nil {
		return heuristics.Snapshot{}, fmt.Errorf("failed to load invited user history: %w", err)
	}
	joins, err := p.store.GetCompetitionJoinsSince(ctx, req.CompetitionID, now.Add(-p.clusterWindow))
	if err != nil {
		return heuristics.Snapshot{}, fmt.Errorf("failed to load competition joins: %w", err)
	}

	current := store.MemberEvent{
		UserID:        req.InvitedID,
		CompetitionID: req.CompetitionID,
		EventType:     store.EventTypeJoin,
		InviterID:     &req.InviterID,
		Username:      req.InvitedUsername,
		ClientID:      req.ClientID,
		OccurredAt:    now,
	}

	return heuristics.Snapshot{
		Now:              now,
		InviterID:        req.InviterID,
		InvitedID:        req.InvitedID,
		CompetitionID:    req.CompetitionID,
		InvitedUsername:  req.InvitedUsername,
		ClientID:         req.ClientID,
		InvitedEvents:    append(invitedEvents, current),
		CompetitionJoins: append(joins, current),
	}, nil
}

// resolveStorageFailure applies the configured fail-open/fail-closed policy
// to a StorageUnavailable error, uniformly for every pipeline stage.
func (p *Processor) resolveStorageFailure(ctx context.Context, req ValidateInviteRequest, stage string, err error, now time.Time) Decision {
	p.logger.Error(ctx, "storage unavailable during invite validation", err,
		observability.Field{Key: "stage", Value: stage},
		observability.Field{Key: "policy", Value: string(p.policy.OnStorageFailure)},
	)

	details := store.NewFlags()
	details[store.FlagPolicy] = string(p.policy.OnStorageFailure)
	details[store.FlagTrigger] = stage
	p.audit.Log(audit.Entry{
		UserID:     &req.InviterID,
		ActionType: store.AuditActionStorageFailure,
		Level:      store.AuditLevelError,
		Message:    "storage unavailable, failure policy applied",
		Details:    details,
	})

	if p.policy.OnStorageFailure == config.FailOpen {
		return Decision{
			Accepted:   true,
			Reason:     store.AcceptReasonStorageDegraded,
			Confidence: p.policy.DegradedConfidence,
		}
	}
	return Decision{Reason: store.RejectReasonStorageFailure, Confidence: p.policy.DegradedConfidence}
}

func (p *Processor) recordAttempt(ctx context.Context, req ValidateInviteRequest, decision Decision, now time.Time) {
	outcome := store.AttemptOutcomeRejected
	if decision.Accepted {
		outcome = store.AttemptOutcomeAccepted
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = store.NewFlags()
	}
	_, err := p.store.CreateInviteAttempt(ctx, store.CreateInviteAttemptParams{
		InviterID:     req.InviterID,
		InvitedID:     req.InvitedID,
		CompetitionID: req.CompetitionID,
		LinkID:        req.LinkID,
		Outcome:       outcome,
		Reason:        decision.Reason,
		Metadata:      metadata,
		OccurredAt:    now,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to record invite attempt", err)
	}
}

func (p *Processor) recordMemberEvent(ctx context.Context, req ValidateInviteRequest, now time.Time) {
	_, err := p.store.CreateMemberEvent(ctx, store.CreateMemberEventParams{
		UserID:        req.InvitedID,
		CompetitionID: req.CompetitionID,
		EventType:     store.EventTypeJoin,
		InviterID:     &req.InviterID,
		Username:      req.InvitedUsername,
		ClientID:      req.ClientID,
		OccurredAt:    now,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to record member event", err)
	}
}

func (p *Processor) auditDecision(req ValidateInviteRequest, decision Decision, eval *heuristics.Evaluation, now time.Time) {
	level := store.AuditLevelInfo
	if !decision.Accepted {
		level = store.AuditLevelWarning
	}

	details := store.NewFlags()
	details[store.FlagCompetitionID] = req.CompetitionID.String()
	details[store.FlagConfidence] = fmt.Sprintf("%.2f", decision.Confidence)
	if eval != nil {
		for _, r := range eval.Results {
			if r.Triggered {
				details[store.FlagRule] = r.Rule
				break
			}
		}
	}

	message := fmt.Sprintf("invite attempt %s: %s", outcomeWord(decision.Accepted), decision.Reason)
	p.audit.Log(audit.Entry{
		UserID:     &req.InviterID,
		ActionType: store.AuditActionInviteValidation,
		Level:      level,
		Message:    message,
		Details:    details,
	})
}

func outcomeWord(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}

// deferEvaluations queues blacklist evaluation for the parties of a
// rejected or flagged attempt. Evaluation failures are logged, never
// surfaced: they must not alter the decision that triggered them.
func (p *Processor) deferEvaluations(req ValidateInviteRequest, eval *heuristics.Evaluation, now time.Time) {
	inviterSignal := signalFrom(eval.InviterSignal, req.CompetitionID)
	var invitedSignal *blacklist.Signal
	for i := range eval.Results {
		r := eval.Results[i]
		if r.Triggered && r.Rule == store.FraudTypeBotSignature {
			invitedSignal = signalFrom(&r, req.CompetitionID)
			break
		}
	}

	p.submitEvaluation(req.InviterID, inviterSignal, now)
	p.submitEvaluation(req.InvitedID, invitedSignal, now)
}

func (p *Processor) submitEvaluation(userID uuid.UUID, signal *blacklist.Signal, now time.Time) {
	accepted := p.deferrer.Submit(func(ctx context.Context) {
		if _, err := p.blacklist.Evaluate(ctx, userID, signal, now); err != nil {
			p.logger.Error(ctx, "deferred blacklist evaluation failed", err,
				observability.Field{Key: "user_id", Value: userID.String()})
		} else {
			p.audit.Log(audit.Entry{
				UserID:     &userID,
				ActionType: store.AuditActionBlacklistEvaluation,
				Level:      store.AuditLevelInfo,
				Message:    "deferred blacklist evaluation completed",
			})
		}
	})
	if !accepted {
		p.logger.Warn(context.Background(), "deferred blacklist evaluation not queued",
			observability.Field{Key: "user_id", Value: userID.String()})
	}
}

func signalFrom(result *heuristics.RuleResult, competitionID uuid.UUID) *blacklist.Signal {
	if result == nil {
		return nil
	}
	comp := competitionID
	return &blacklist.Signal{
		FraudType:     result.Rule,
		Confidence:    result.Confidence,
		CompetitionID: &comp,
		Details:       result.Details,
	}
}

// IsBlacklisted reports whether the user is currently blocked
func (p *Processor) IsBlacklisted(ctx context.Context, userID uuid.UUID) (bool, error) {
	return p.blacklist.IsBlacklisted(ctx, userID, time.Now())
}

// RateLimited reports whether the action would currently be limited,
// without consuming an action.
func (p *Processor) RateLimited(ctx context.Context, userID uuid.UUID, action ratelimit.ActionType) (bool, error) {
	result, err := p.limiter.Peek(ctx, userID, action, time.Now())
	if err != nil {
		return false, err
	}
	return !result.Allowed, nil
}

// GetFraudStatistics aggregates monitoring counters, optionally scoped to
// one competition.
func (p *Processor) GetFraudStatistics(ctx context.Context, competitionID *uuid.UUID) (FraudStatistics, error) {
	ledgerStats, err := p.ledger.Statistics(ctx)
	if err != nil {
		return FraudStatistics{}, fmt.Errorf("failed to get ledger statistics: %w", err)
	}
	attempts, err := p.store.CountAttempts(ctx, competitionID)
	if err != nil {
		return FraudStatistics{}, fmt.Errorf("failed to count attempts: %w", err)
	}
	alerts, err := p.store.CountFraudAlerts(ctx, competitionID)
	if err != nil {
		return FraudStatistics{}, fmt.Errorf("failed to count fraud alerts: %w", err)
	}
	blocked, err := p.store.CountActiveBlacklistEntries(ctx, time.Now())
	if err != nil {
		return FraudStatistics{}, fmt.Errorf("failed to count active blacklist entries: %w", err)
	}
	return FraudStatistics{
		Ledger:           ledgerStats,
		Attempts:         attempts,
		FraudAlerts:      alerts,
		ActiveBlacklists: blocked,
	}, nil
}

// RelationshipDetail is the admin inspection view of one pair.
type RelationshipDetail struct {
	Relationship   store.InviteRelationship `json:"relationship"`
	RecentAttempts []store.InviteAttempt    `json:"recent_attempts"`
}

// GetRelationshipDetail returns the ledger record for a pair with its most
// recent attempts, or store.ErrNotFound.
func (p *Processor) GetRelationshipDetail(ctx context.Context, inviterID, invitedID uuid.UUID) (RelationshipDetail, error) {
	rel, err := p.ledger.GetRelationship(ctx, inviterID, invitedID)
	if err != nil {
		return RelationshipDetail{}, err
	}
	attempts, err := p.store.GetAttemptsByPair(ctx, inviterID, invitedID, 20)
	if err != nil {
		return RelationshipDetail{}, fmt.Errorf("failed to load attempts for pair: %w", err)
	}
	return RelationshipDetail{Relationship: rel, RecentAttempts: attempts}, nil
}

// ManualBlacklist creates an admin-issued block and audits it
func (p *Processor) ManualBlacklist(ctx context.Context, userID, adminID uuid.UUID, permanent bool, durationDays int) (store.BlacklistEntry, error) {
	entry, err := p.blacklist.ManualBlacklist(ctx, userID, adminID, permanent, durationDays, time.Now())
	if err != nil {
		return store.BlacklistEntry{}, err
	}

	details := store.NewFlags()
	details[store.FlagAdminID] = adminID.String()
	p.audit.Log(audit.Entry{
		UserID:     &userID,
		ActionType: store.AuditActionManualBlacklist,
		Level:      store.AuditLevelWarning,
		Message:    "user manually blacklisted",
		Details:    details,
	})
	return entry, nil
}

// RemoveBlacklist removes all blocks for the user and audits it
func (p *Processor) RemoveBlacklist(ctx context.Context, userID, adminID uuid.UUID) (int64, error) {
	removed, err := p.blacklist.RemoveBlacklist(ctx, userID)
	if err != nil {
		return 0, err
	}

	details := store.NewFlags()
	details[store.FlagAdminID] = adminID.String()
	p.audit.Log(audit.Entry{
		UserID:     &userID,
		ActionType: store.AuditActionBlacklistRemoval,
		Level:      store.AuditLevelWarning,
		Message:    "blacklist entries removed",
		Details:    details,
	})
	return removed, nil
}

// ResetRateLimit clears the window and cooldown for one key and audits the
// override.
func (p *Processor) ResetRateLimit(ctx context.Context, userID, adminID uuid.UUID, action ratelimit.ActionType) error {
	if err := p.limiter.Reset(ctx, userID, action); err != nil {
		return err
	}

	details := store.NewFlags()
	details[store.FlagAdminID] = adminID.String()
	details[store.FlagTrigger] = string(action)
	p.audit.Log(audit.Entry{
		UserID:     &userID,
		ActionType: store.AuditActionRateLimitReset,
		Level:      store.AuditLevelWarning,
		Message:    "rate limit reset by admin",
		Details:    details,
	})
	return nil
}

// QueryAuditLog reads the audit trail, forcing a flush first
func (p *Processor) QueryAuditLog(ctx context.Context, filter store.AuditFilter, limit, offset int) ([]store.AuditLogEntry, int, error) {
	return p.audit.Query(ctx, filter, limit, offset)
}
