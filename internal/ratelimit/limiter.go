package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"inviteguard/internal/config"

	"github.com/google/uuid"
)

// ActionType identifies one rate-limited action category
type ActionType string

const (
	ActionInviteAttempt ActionType = "invite_attempt"
	ActionLinkCreation  ActionType = "link_creation"
	ActionRankingQuery  ActionType = "ranking_query"
	ActionAdminCommand  ActionType = "admin_command"
	ActionGeneric       ActionType = "generic"
	ActionFraudAttempt  ActionType = "fraud_attempt"
)

// ParseAction maps a wire string onto a built-in action category
func ParseAction(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionInviteAttempt, ActionLinkCreation, ActionRankingQuery,
		ActionAdminCommand, ActionGeneric, ActionFraudAttempt:
		return ActionType(s), nil
	}
	return "", fmt.Errorf("unknown action type %q", s)
}

// Result represents the outcome of a rate limit check
type Result struct {
	Allowed       bool      `json:"allowed"`
	Limit         int       `json:"limit"`
	Remaining     int       `json:"remaining"`
	CooldownUntil time.Time `json:"cooldown_until,omitempty"`
}

type windowKey struct {
	userID uuid.UUID
	action ActionType
}

// window holds the sliding timestamps and cooldown for one key. Each
// window has its own mutex so different keys never contend.
type window struct {
	mu            sync.Mutex
	stamps        []time.Time
	cooldownUntil time.Time
}

// Limiter is the in-memory sliding-window rate limiter. Windows are
// created lazily on first use.
type Limiter struct {
	mu      sync.Mutex
	limits  map[ActionType]config.ActionLimit
	windows map[windowKey]*window
}

// NewLimiter creates a limiter with the six built-in action categories
func NewLimiter(cfg config.RateLimitsConfig) *Limiter {
	return &Limiter{
		limits: map[ActionType]config.ActionLimit{
			ActionInviteAttempt: cfg.InviteAttempt,
			ActionLinkCreation:  cfg.LinkCreation,
			ActionRankingQuery:  cfg.RankingQuery,
			ActionAdminCommand:  cfg.AdminCommand,
			ActionGeneric:       cfg.Generic,
			ActionFraudAttempt:  cfg.FraudAttempt,
		},
		windows: make(map[windowKey]*window),
	}
}

func (l *Limiter) limitFor(action ActionType) (config.ActionLimit, error) {
	limit, ok := l.limits[action]
	if !ok {
		return config.ActionLimit{}, fmt.Errorf("unknown action type %q", action)
	}
	return limit, nil
}

func (l *Limiter) getWindow(key windowKey) *window {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		w = &window{}
		l.windows[key] = w
	}
	return w
}

// CheckAndConsume records one action if allowed. On breach the key enters
// cooldown and the action is rejected without being consumed.
func (l *Limiter) CheckAndConsume(userID uuid.UUID, action ActionType, now time.Time) (Result, error) {
	limit, err := l.limitFor(action)
	if err != nil {
		return Result{}, err
	}

	w := l.getWindow(windowKey{userID, action})
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Before(w.cooldownUntil) {
		return Result{Limit: limit.Max, CooldownUntil: w.cooldownUntil}, nil
	}

	w.prune(now.Add(-limit.Window))
	if len(w.stamps) >= limit.Max {
		w.cooldownUntil = now.Add(limit.Cooldown)
		return Result{Limit: limit.Max, CooldownUntil: w.cooldownUntil}, nil
	}

	w.stamps = append(w.stamps, now)
	return Result{Allowed: true, Limit: limit.Max, Remaining: limit.Max - len(w.stamps)}, nil
}

// Peek performs the same check without consuming an action or entering
// cooldown.
func (l *Limiter) Peek(userID uuid.UUID, action ActionType, now time.Time) (Result, error) {
	limit, err := l.limitFor(action)
	if err != nil {
		return Result{}, err
	}

	w := l.getWindow(windowKey{userID, action})
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Before(w.cooldownUntil) {
		return Result{Limit: limit.Max, CooldownUntil: w.cooldownUntil}, nil
	}

	var fresh int
	cutoff := now.Add(-limit.Window)
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			fresh++
		}
	}
	if fresh >= limit.Max {
		return Result{Limit: limit.Max}, nil
	}
	return Result{Allowed: true, Limit: limit.Max, Remaining: limit.Max - fresh}, nil
}

// Reset clears the window and cooldown for one key (administrative override)
func (l *Limiter) Reset(userID uuid.UUID, action ActionType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, windowKey{userID, action})
}

// Prune drops windows with no fresh timestamps and an elapsed cooldown,
// bounding memory. Called periodically by the scheduler.
func (l *Limiter) Prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int
	for key, w := range l.windows {
		limit := l.limits[key.action]
		w.mu.Lock()
		w.prune(now.Add(-limit.Window))
		empty := len(w.stamps) == 0 && !now.Before(w.cooldownUntil)
		w.mu.Unlock()
		if empty {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// prune drops timestamps at or before the cutoff. Caller holds w.mu.
func (w *window) prune(cutoff time.Time) {
	idx := 0
	for idx < len(w.stamps) && !w.stamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[idx:]...)
	}
}
