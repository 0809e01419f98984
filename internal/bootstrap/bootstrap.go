package bootstrap

import (
	"context"
	"fmt"
	"time"

	"inviteguard/internal/admin"
	"inviteguard/internal/audit"
	"inviteguard/internal/blacklist"
	redisClient "inviteguard/internal/clients/redis"
	"inviteguard/internal/config"
	"inviteguard/internal/heuristics"
	inviteHandler "inviteguard/internal/invites/handler"
	inviteProcessor "inviteguard/internal/invites/processor"
	"inviteguard/internal/jobs"
	"inviteguard/internal/jobs/scheduler"
	"inviteguard/internal/ledger"
	"inviteguard/internal/observability"
	"inviteguard/internal/ratelimit"
	"inviteguard/internal/store"
	"inviteguard/internal/workers"
)

// ratelimitPruneInterval bounds in-memory window growth between prunes.
const ratelimitPruneInterval = 10 * time.Minute

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Services
	Processor   *inviteProcessor.Processor
	AuditLogger *audit.Logger
	Queue       *workers.Queue
	Scheduler   *scheduler.Scheduler

	// Handlers
	InviteHandler inviteHandler.Handler
	AdminHandler  admin.Handler
	AdminAuth     *admin.AuthMiddleware

	// Clients (for cleanup)
	Redis *redisClient.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize Redis client (optional distributed rate-limit tier)
	deps.Redis, err = redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Initialize services
	ledgerService := ledger.NewService(&deps.Store, logger)
	rateLimiter := ratelimit.NewService(deps.Redis, cfg.RateLimits, logger)
	heuristicsEngine := heuristics.NewEngine(cfg.Heuristics)
	blacklistManager := blacklist.NewManager(&deps.Store, cfg.Blacklist, logger)
	deps.AuditLogger = audit.NewLogger(&deps.Store, cfg.Audit, logger)

	// Deferred blacklist evaluation queue
	deps.Queue = workers.NewQueue(cfg.Workers, logger)

	deps.Processor = inviteProcessor.New(
		&deps.Store,
		ledgerService,
		blacklistManager,
		rateLimiter,
		heuristicsEngine,
		deps.AuditLogger,
		deps.Queue,
		cfg,
		logger,
	)

	// Initialize handlers
	deps.InviteHandler = inviteHandler.New(deps.Processor, logger)
	deps.AdminHandler = admin.New(deps.Processor, logger)
	deps.AdminAuth = admin.NewAuthMiddleware(cfg.Admin, logger)

	// Register scheduled maintenance jobs
	deps.Scheduler = scheduler.New(logger)
	deps.Scheduler.Register(jobs.NewBlacklistCleanup(blacklistManager, cfg.Blacklist.CleanupInterval))
	deps.Scheduler.Register(jobs.NewAuditRetention(deps.AuditLogger, logger, cfg.Audit.PurgeInterval))
	deps.Scheduler.Register(jobs.NewRateLimitPrune(rateLimiter, ratelimitPruneInterval))

	return deps, nil
}

// Cleanup releases connections and flushes buffered state. Called once
// during shutdown, after the HTTP server and workers have stopped.
func (d *Dependencies) Cleanup(ctx context.Context) {
	if err := d.AuditLogger.Stop(ctx); err != nil {
		d.Logger.Error(ctx, "failed to flush audit logger during shutdown", err)
	}
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close redis client", err)
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close database connection", err)
	}
}
