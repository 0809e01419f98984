package store

// Member event ENUMs
const (
	EventTypeJoin   = "join"
	EventTypeLeave  = "leave"
	EventTypeInvite = "invite"
)

// Invite attempt ENUMs
const (
	AttemptOutcomeAccepted = "accepted"
	AttemptOutcomeRejected = "rejected"
)

const (
	RejectReasonDuplicatePair   = "duplicate_pair"
	RejectReasonSelfInvite      = "self_invite"
	RejectReasonMissingIdentity = "missing_identity"
	RejectReasonBlacklisted     = "blacklisted"
	RejectReasonRateLimited     = "rate_limited"
	RejectReasonFraudHeuristic  = "fraud_heuristic"
	RejectReasonStorageFailure  = "storage_failure"
	AcceptReasonFirstAttempt    = "first_attempt"
	AcceptReasonStorageDegraded = "storage_degraded"
)

// Blacklist ENUMs
const (
	BlacklistReasonMultipleFraudAttempts = "multiple_fraud_attempts"
	BlacklistReasonCoordinatedAttack     = "coordinated_attack"
	BlacklistReasonBotBehavior           = "bot_behavior"
	BlacklistReasonRapidPattern          = "rapid_pattern"
	BlacklistReasonManual                = "manual"
)

// Fraud alert ENUMs
const (
	FraudTypeRapidJoinLeave     = "rapid_join_leave"
	FraudTypeHighFrequency      = "high_frequency"
	FraudTypeArtificialTiming   = "artificial_timing"
	FraudTypeCoordinatedCluster = "coordinated_cluster"
	FraudTypeBotSignature       = "bot_signature"
)

const (
	AlertActionNone        = "none"
	AlertActionRejected    = "rejected"
	AlertActionBlacklisted = "blacklisted"
)

// Audit log ENUMs
const (
	AuditLevelInfo     = "info"
	AuditLevelWarning  = "warning"
	AuditLevelError    = "error"
	AuditLevelCritical = "critical"
)

const (
	AuditActionInviteValidation    = "invite_validation"
	AuditActionRateLimitBreach     = "rate_limit_breach"
	AuditActionRateLimitReset      = "rate_limit_reset"
	AuditActionBlacklistEvaluation = "blacklist_evaluation"
	AuditActionManualBlacklist     = "manual_blacklist"
	AuditActionBlacklistRemoval    = "blacklist_removal"
	AuditActionRetentionPurge      = "retention_purge"
	AuditActionStorageFailure      = "storage_failure"
)
