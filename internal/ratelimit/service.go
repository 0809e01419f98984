package ratelimit

import (
	"context"
	"fmt"
	"time"

	"inviteguard/internal/clients/redis"
	"inviteguard/internal/config"
	"inviteguard/internal/observability"

	"github.com/google/uuid"
)

// Service fronts the in-memory limiter with an optional Redis tier so that
// limits hold across instances. Redis failures fall back to the in-memory
// limiter rather than failing the check.
type Service struct {
	redis   *redis.Client
	limiter *Limiter
	limits  map[ActionType]config.ActionLimit
	logger  *observability.Logger
}

// NewService creates a new rate limiting service
func NewService(redisClient *redis.Client, cfg config.RateLimitsConfig, logger *observability.Logger) *Service {
	limiter := NewLimiter(cfg)
	return &Service{
		redis:   redisClient,
		limiter: limiter,
		limits:  limiter.limits,
		logger:  logger,
	}
}

// CheckAndConsume checks and records one action for (userID, action)
func (s *Service) CheckAndConsume(ctx context.Context, userID uuid.UUID, action ActionType, now time.Time) (Result, error) {
	if s.redis.IsEnabled() {
		result, err := s.checkRedis(ctx, userID, action, now, true)
		if err != nil {
			s.logger.Warn(ctx, "Redis rate limit check failed, falling back to in-memory limiter",
				observability.Field{Key: "error", Value: err.Error()})
			return s.limiter.CheckAndConsume(userID, action, now)
		}
		return result, nil
	}
	return s.limiter.CheckAndConsume(userID, action, now)
}

// Peek checks without consuming
func (s *Service) Peek(ctx context.Context, userID uuid.UUID, action ActionType, now time.Time) (Result, error) {
	if s.redis.IsEnabled() {
		result, err := s.checkRedis(ctx, userID, action, now, false)
		if err != nil {
			s.logger.Warn(ctx, "Redis rate limit peek failed, falling back to in-memory limiter",
				observability.Field{Key: "error", Value: err.Error()})
			return s.limiter.Peek(userID, action, now)
		}
		return result, nil
	}
	return s.limiter.Peek(userID, action, now)
}

// Reset clears the window and cooldown for one key (administrative override)
func (s *Service) Reset(ctx context.Context, userID uuid.UUID, action ActionType) error {
	s.limiter.Reset(userID, action)
	if s.redis.IsEnabled() {
		if err := s.redis.Del(ctx, windowRedisKey(userID, action), cooldownRedisKey(userID, action)); err != nil {
			return fmt.Errorf("failed to reset rate limit keys: %w", err)
		}
	}
	return nil
}

// Prune drops stale in-memory windows. Redis keys expire on their own.
func (s *Service) Prune(ctx context.Context, now time.Time) int {
	return s.limiter.Prune(now)
}

func windowRedisKey(userID uuid.UUID, action ActionType) string {
	return fmt.Sprintf("rl:%s:%s", action, userID.String())
}

func cooldownRedisKey(userID uuid.UUID, action ActionType) string {
	return fmt.Sprintf("rl:cd:%s:%s", action, userID.String())
}

// checkRedis implements the sliding window on a Redis sorted set, with a
// separate TTL key carrying the cooldown.
func (s *Service) checkRedis(ctx context.Context, userID uuid.UUID, action ActionType, now time.Time, consume bool) (Result, error) {
	limit, ok := s.limits[action]
	if !ok {
		return Result{}, fmt.Errorf("unknown action type %q", action)
	}

	cdKey := cooldownRedisKey(userID, action)
	ttl, err := s.redis.PTTL(ctx, cdKey)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check cooldown key: %w", err)
	}
	if ttl > 0 {
		return Result{Limit: limit.Max, CooldownUntil: now.Add(ttl)}, nil
	}

	key := windowRedisKey(userID, action)
	windowStartMs := now.Add(-limit.Window).UnixMilli()

	if err := s.redis.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStartMs)); err != nil {
		return Result{}, fmt.Errorf("failed to remove old entries: %w", err)
	}

	count, err := s.redis.ZCard(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count requests: %w", err)
	}

	if int(count) >= limit.Max {
		if !consume {
			return Result{Limit: limit.Max}, nil
		}
		cooldownUntil := now.Add(limit.Cooldown)
		if err := s.redis.SetWithTTL(ctx, cdKey, "1", limit.Cooldown); err != nil {
			return Result{}, fmt.Errorf("failed to set cooldown key: %w", err)
		}
		return Result{Limit: limit.Max, CooldownUntil: cooldownUntil}, nil
	}

	if !consume {
		return Result{Allowed: true, Limit: limit.Max, Remaining: limit.Max - int(count)}, nil
	}

	nowMs := now.UnixMilli()
	err = s.redis.ZAdd(ctx, key, redis.Z{
		Score:  float64(nowMs),
		Member: fmt.Sprintf("%d", nowMs),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to add request: %w", err)
	}

	if err := s.redis.Expire(ctx, key, 2*limit.Window); err != nil {
		s.logger.Warn(ctx, "failed to set expiration on rate limit key",
			observability.Field{Key: "error", Value: err.Error()})
	}

	return Result{Allowed: true, Limit: limit.Max, Remaining: limit.Max - int(count) - 1}, nil
}
