package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// FailurePolicy controls how ValidateInvite resolves storage unavailability.
type FailurePolicy string

const (
	FailOpen   FailurePolicy = "open"
	FailClosed FailurePolicy = "closed"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Redis      RedisConfig
	Admin      AdminConfig
	Policy     PolicyConfig
	RateLimits RateLimitsConfig
	Heuristics HeuristicsConfig
	Blacklist  BlacklistConfig
	Audit      AuditConfig
	Workers    WorkersConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	AllowedOrigins string
}

// RedisConfig holds optional Redis settings for the distributed rate-limit tier
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AdminConfig holds the admin API authentication settings
type AdminConfig struct {
	// APIKeyHash is a bcrypt hash of the admin API key.
	APIKeyHash string
}

// PolicyConfig holds the storage-failure decision policy
type PolicyConfig struct {
	OnStorageFailure FailurePolicy
	// DegradedConfidence is the confidence attached to fail-open decisions.
	DegradedConfidence float64
}

// ActionLimit is a (max, window, cooldown) triple for one action category
type ActionLimit struct {
	Max      int
	Window   time.Duration
	Cooldown time.Duration
}

// RateLimitsConfig holds the six built-in action category limits
type RateLimitsConfig struct {
	InviteAttempt ActionLimit
	LinkCreation  ActionLimit
	RankingQuery  ActionLimit
	AdminCommand  ActionLimit
	Generic       ActionLimit
	FraudAttempt  ActionLimit
}

// HeuristicsConfig holds every fraud-rule threshold
type HeuristicsConfig struct {
	RapidJoinLeaveWindow     time.Duration
	RapidJoinLeaveGap        time.Duration
	RapidJoinLeaveMinCycles  int
	RapidJoinLeaveConfidence float64

	HighFrequencyWindow     time.Duration
	HighFrequencyMinActions int
	HighFrequencyConfidence float64

	TimingMinActions  int
	TimingMaxVariance float64
	TimingConfidence  float64

	ClusterMinUniqueInvited int
	ClusterDominantBurst    int
	ClusterMinUniqueRatio   float64
	ClusterMinFlaggedUsers  int
	ClusterConfidence       float64

	BotClientWeight    float64
	BotUsernameWeight  float64
	BotTimingWeight    float64
	BotScoreThreshold  float64
	BotTimingVariance  float64
	BotTimingMinEvents int
}

// BlacklistConfig holds escalation-rule thresholds and cache settings
type BlacklistConfig struct {
	FraudAttemptsThreshold int
	CoordinatedMinBuckets  int
	CoordinatedMinUsers    int
	CoordinatedBucketSize  int
	CoordinatedWindow      time.Duration
	BotSignatureThreshold  float64
	BotBlockDays           int
	RapidActionsPerHour    int
	RapidActionsPerTenMin  int
	RapidBlockDays         int
	CacheTTL               time.Duration
	CacheMaxEntries        int
	CleanupInterval        time.Duration
}

// AuditConfig holds buffering, flush and retention settings
type AuditConfig struct {
	FlushSize       int
	FlushInterval   time.Duration
	MaxBuffered     int
	RetentionInfo   time.Duration
	RetentionWarn   time.Duration
	RetentionError  time.Duration
	RetentionCrit   time.Duration
	PurgeInterval   time.Duration
}

// WorkersConfig holds the deferred-evaluation queue settings
type WorkersConfig struct {
	EvaluationWorkers int
	QueueSize         int
	// Backpressure is "block" or "drop_oldest".
	Backpressure string
	DrainTimeout time.Duration
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	cfg.Server.AllowedOrigins = getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	if cfg.Admin.APIKeyHash, err = requireEnv("ADMIN_API_KEY_HASH"); err != nil {
		return nil, err
	}

	// Redis (optional distributed rate-limit tier)
	cfg.Redis.Enabled = getEnvWithDefault("REDIS_ENABLED", "false") == "true"
	if cfg.Redis.Enabled {
		if cfg.Redis.Host, err = requireEnv("REDIS_HOST"); err != nil {
			return nil, err
		}
		if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
			return nil, err
		}
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
			return nil, err
		}
	}

	// Failure policy
	policy := getEnvWithDefault("STORAGE_FAILURE_POLICY", "closed")
	switch FailurePolicy(policy) {
	case FailOpen, FailClosed:
		cfg.Policy.OnStorageFailure = FailurePolicy(policy)
	default:
		return nil, fmt.Errorf("invalid STORAGE_FAILURE_POLICY %q: must be open or closed", policy)
	}
	if cfg.Policy.DegradedConfidence, err = floatEnv("DEGRADED_CONFIDENCE", 0.5); err != nil {
		return nil, err
	}

	if err = loadRateLimits(&cfg.RateLimits); err != nil {
		return nil, err
	}
	if err = loadHeuristics(&cfg.Heuristics); err != nil {
		return nil, err
	}
	if err = loadBlacklist(&cfg.Blacklist); err != nil {
		return nil, err
	}
	if err = loadAudit(&cfg.Audit); err != nil {
		return nil, err
	}
	if err = loadWorkers(&cfg.Workers); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadRateLimits(rl *RateLimitsConfig) error {
	var err error
	if rl.InviteAttempt, err = actionLimitEnv("RL_INVITE", 10, time.Hour, 10*time.Minute); err != nil {
		return err
	}
	if rl.LinkCreation, err = actionLimitEnv("RL_LINK", 5, time.Hour, 30*time.Minute); err != nil {
		return err
	}
	if rl.RankingQuery, err = actionLimitEnv("RL_RANKING", 30, time.Minute, time.Minute); err != nil {
		return err
	}
	if rl.AdminCommand, err = actionLimitEnv("RL_ADMIN", 20, time.Minute, 5*time.Minute); err != nil {
		return err
	}
	if rl.Generic, err = actionLimitEnv("RL_GENERIC", 60, time.Minute, time.Minute); err != nil {
		return err
	}
	// Zero burst allowance and the longest cooldown: a single fraud trigger
	// enters cooldown immediately.
	if rl.FraudAttempt, err = actionLimitEnv("RL_FRAUD", 0, time.Hour, 24*time.Hour); err != nil {
		return err
	}
	if rl.FraudAttempt.Max != 0 {
		return fmt.Errorf("RL_FRAUD_MAX must be 0: fraud attempts have no burst allowance")
	}
	return nil
}

func loadHeuristics(h *HeuristicsConfig) error {
	var err error
	if h.RapidJoinLeaveWindow, err = durationEnv("HEUR_RAPID_WINDOW", time.Hour); err != nil {
		return err
	}
	if h.RapidJoinLeaveGap, err = durationEnv("HEUR_RAPID_GAP", 5*time.Minute); err != nil {
		return err
	}
	if h.RapidJoinLeaveMinCycles, err = intEnv("HEUR_RAPID_MIN_CYCLES", 2); err != nil {
		return err
	}
	if h.RapidJoinLeaveConfidence, err = floatEnv("HEUR_RAPID_CONFIDENCE", 0.95); err != nil {
		return err
	}
	if h.HighFrequencyWindow, err = durationEnv("HEUR_FREQ_WINDOW", time.Hour); err != nil {
		return err
	}
	if h.HighFrequencyMinActions, err = intEnv("HEUR_FREQ_MIN_ACTIONS", 3); err != nil {
		return err
	}
	if h.HighFrequencyConfidence, err = floatEnv("HEUR_FREQ_CONFIDENCE", 0.9); err != nil {
		return err
	}
	if h.TimingMinActions, err = intEnv("HEUR_TIMING_MIN_ACTIONS", 3); err != nil {
		return err
	}
	if h.TimingMaxVariance, err = floatEnv("HEUR_TIMING_MAX_VARIANCE", 25.0); err != nil {
		return err
	}
	if h.TimingConfidence, err = floatEnv("HEUR_TIMING_CONFIDENCE", 0.85); err != nil {
		return err
	}
	if h.ClusterMinUniqueInvited, err = intEnv("HEUR_CLUSTER_MIN_UNIQUE", 5); err != nil {
		return err
	}
	if h.ClusterDominantBurst, err = intEnv("HEUR_CLUSTER_DOMINANT_BURST", 10); err != nil {
		return err
	}
	if h.ClusterMinUniqueRatio, err = floatEnv("HEUR_CLUSTER_MIN_RATIO", 0.8); err != nil {
		return err
	}
	if h.ClusterMinFlaggedUsers, err = intEnv("HEUR_CLUSTER_MIN_FLAGGED", 10); err != nil {
		return err
	}
	if h.ClusterConfidence, err = floatEnv("HEUR_CLUSTER_CONFIDENCE", 0.9); err != nil {
		return err
	}
	if h.BotClientWeight, err = floatEnv("HEUR_BOT_CLIENT_WEIGHT", 0.3); err != nil {
		return err
	}
	if h.BotUsernameWeight, err = floatEnv("HEUR_BOT_USERNAME_WEIGHT", 0.2); err != nil {
		return err
	}
	if h.BotTimingWeight, err = floatEnv("HEUR_BOT_TIMING_WEIGHT", 0.3); err != nil {
		return err
	}
	if h.BotScoreThreshold, err = floatEnv("HEUR_BOT_THRESHOLD", 0.7); err != nil {
		return err
	}
	if h.BotTimingVariance, err = floatEnv("HEUR_BOT_TIMING_VARIANCE", 25.0); err != nil {
		return err
	}
	if h.BotTimingMinEvents, err = intEnv("HEUR_BOT_TIMING_MIN_EVENTS", 3); err != nil {
		return err
	}
	return nil
}

func loadBlacklist(b *BlacklistConfig) error {
	var err error
	if b.FraudAttemptsThreshold, err = intEnv("BL_FRAUD_ATTEMPTS", 5); err != nil {
		return err
	}
	if b.CoordinatedMinBuckets, err = intEnv("BL_COORDINATED_MIN_BUCKETS", 2); err != nil {
		return err
	}
	if b.CoordinatedMinUsers, err = intEnv("BL_COORDINATED_MIN_USERS", 10); err != nil {
		return err
	}
	if b.CoordinatedBucketSize, err = intEnv("BL_COORDINATED_BUCKET_SIZE", 5); err != nil {
		return err
	}
	if b.CoordinatedWindow, err = durationEnv("BL_COORDINATED_WINDOW", 24*time.Hour); err != nil {
		return err
	}
	if b.BotSignatureThreshold, err = floatEnv("BL_BOT_THRESHOLD", 0.8); err != nil {
		return err
	}
	if b.BotBlockDays, err = intEnv("BL_BOT_BLOCK_DAYS", 30); err != nil {
		return err
	}
	if b.RapidActionsPerHour, err = intEnv("BL_RAPID_PER_HOUR", 20); err != nil {
		return err
	}
	if b.RapidActionsPerTenMin, err = intEnv("BL_RAPID_PER_TEN_MIN", 10); err != nil {
		return err
	}
	if b.RapidBlockDays, err = intEnv("BL_RAPID_BLOCK_DAYS", 7); err != nil {
		return err
	}
	if b.CacheTTL, err = durationEnv("BL_CACHE_TTL", 5*time.Minute); err != nil {
		return err
	}
	if b.CacheMaxEntries, err = intEnv("BL_CACHE_MAX_ENTRIES", 10000); err != nil {
		return err
	}
	if b.CleanupInterval, err = durationEnv("BL_CLEANUP_INTERVAL", time.Hour); err != nil {
		return err
	}
	return nil
}

func loadAudit(a *AuditConfig) error {
	var err error
	if a.FlushSize, err = intEnv("AUDIT_FLUSH_SIZE", 100); err != nil {
		return err
	}
	if a.FlushInterval, err = durationEnv("AUDIT_FLUSH_INTERVAL", 30*time.Second); err != nil {
		return err
	}
	if a.MaxBuffered, err = intEnv("AUDIT_MAX_BUFFERED", 10000); err != nil {
		return err
	}
	if a.RetentionInfo, err = durationEnv("AUDIT_RETENTION_INFO", 30*24*time.Hour); err != nil {
		return err
	}
	if a.RetentionWarn, err = durationEnv("AUDIT_RETENTION_WARNING", 90*24*time.Hour); err != nil {
		return err
	}
	if a.RetentionError, err = durationEnv("AUDIT_RETENTION_ERROR", 180*24*time.Hour); err != nil {
		return err
	}
	if a.RetentionCrit, err = durationEnv("AUDIT_RETENTION_CRITICAL", 365*24*time.Hour); err != nil {
		return err
	}
	if a.PurgeInterval, err = durationEnv("AUDIT_PURGE_INTERVAL", 6*time.Hour); err != nil {
		return err
	}
	if a.FlushSize <= 0 || a.MaxBuffered < a.FlushSize {
		return fmt.Errorf("invalid audit buffer configuration: flush size %d, max buffered %d", a.FlushSize, a.MaxBuffered)
	}
	return nil
}

func loadWorkers(w *WorkersConfig) error {
	var err error
	if w.EvaluationWorkers, err = intEnv("EVALUATION_WORKERS", 3); err != nil {
		return err
	}
	if w.QueueSize, err = intEnv("EVALUATION_QUEUE_SIZE", 256); err != nil {
		return err
	}
	w.Backpressure = getEnvWithDefault("EVALUATION_BACKPRESSURE", "drop_oldest")
	if w.Backpressure != "drop_oldest" && w.Backpressure != "block" {
		return fmt.Errorf("invalid EVALUATION_BACKPRESSURE %q: must be drop_oldest or block", w.Backpressure)
	}
	if w.DrainTimeout, err = durationEnv("EVALUATION_DRAIN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	return nil
}

// actionLimitEnv reads the MAX/WINDOW_SECONDS/COOLDOWN_SECONDS triple for
// one action category prefix.
func actionLimitEnv(prefix string, defMax int, defWindow, defCooldown time.Duration) (ActionLimit, error) {
	var al ActionLimit
	var err error
	if al.Max, err = intEnv(prefix+"_MAX", defMax); err != nil {
		return ActionLimit{}, err
	}
	if al.Window, err = durationEnv(prefix+"_WINDOW", defWindow); err != nil {
		return ActionLimit{}, err
	}
	if al.Cooldown, err = durationEnv(prefix+"_COOLDOWN", defCooldown); err != nil {
		return ActionLimit{}, err
	}
	if al.Max < 0 || al.Window <= 0 || al.Cooldown <= 0 {
		return ActionLimit{}, fmt.Errorf("invalid rate limit configuration for %s", prefix)
	}
	return al, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func intEnv(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

func floatEnv(key string, def float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

// durationEnv reads a duration expressed in whole seconds.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return time.Duration(seconds) * time.Second, nil
}
