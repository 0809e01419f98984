package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlagKey identifies one fraud-signal or detail entry. The set of keys is
// closed so downstream consumers can match on them; free-form keys are not
// accepted.
type FlagKey string

const (
	// FlagSchemaVersion versions the flag map layout.
	FlagSchemaVersion FlagKey = "schema_version"

	FlagFirstSeenAt      FlagKey = "first_seen_at"
	FlagFirstCompetition FlagKey = "first_competition_id"
	FlagRule             FlagKey = "rule"
	FlagConfidence       FlagKey = "confidence"
	FlagMatchType        FlagKey = "match_type"
	FlagCycleCount       FlagKey = "cycle_count"
	FlagActionCount      FlagKey = "action_count"
	FlagGapVariance      FlagKey = "gap_variance"
	FlagFlaggedUsers     FlagKey = "flagged_users"
	FlagBucketCount      FlagKey = "bucket_count"
	FlagBotScore         FlagKey = "bot_score"
	FlagBotIndicators    FlagKey = "bot_indicators"
	FlagClientID         FlagKey = "client_id"
	FlagUsername         FlagKey = "username"
	FlagTrigger          FlagKey = "trigger"
	FlagAdminID          FlagKey = "admin_id"
	FlagPolicy           FlagKey = "policy"
	FlagCooldownUntil    FlagKey = "cooldown_until"
	FlagLinkID           FlagKey = "link_id"
	FlagCompetitionID    FlagKey = "competition_id"
)

// CurrentFlagSchemaVersion is stamped into every persisted flag map.
const CurrentFlagSchemaVersion = "1"

// Flags is a typed key-value map persisted as JSONB.
type Flags map[FlagKey]string

// NewFlags returns a flag map stamped with the current schema version.
func NewFlags() Flags {
	return Flags{FlagSchemaVersion: CurrentFlagSchemaVersion}
}

// Value implements the driver.Valuer interface for Flags
func (f Flags) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface for Flags
func (f *Flags) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for Flags")
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*f = make(Flags)
		return nil
	}

	result := make(Flags)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*f = result
	return nil
}

// InviteRelationship is the authoritative record of one (inviter, invited)
// pair. The key is unique for the lifetime of the system; first_* columns
// never change after insert.
type InviteRelationship struct {
	ID                     uuid.UUID `db:"id"`
	InviterID              uuid.UUID `db:"inviter_id"`
	InvitedID              uuid.UUID `db:"invited_id"`
	FirstCompetitionID     uuid.UUID `db:"first_competition_id"`
	FirstLinkID            uuid.UUID `db:"first_link_id"`
	FirstSeenAt            time.Time `db:"first_seen_at"`
	LastAttemptAt          time.Time `db:"last_attempt_at"`
	LastCompetitionID      uuid.UUID `db:"last_competition_id"`
	TotalAttempts          int       `db:"total_attempts"`
	FraudAttempts          int       `db:"fraud_attempts"`
	ValidCompetitionsCount int       `db:"valid_competitions_count"`
	IsValid                bool      `db:"is_valid"`
	FraudFlags             Flags     `db:"fraud_flags"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

// InviteAttempt is an append-only record of one validation call.
type InviteAttempt struct {
	ID            uuid.UUID `db:"id"`
	InviterID     uuid.UUID `db:"inviter_id"`
	InvitedID     uuid.UUID `db:"invited_id"`
	CompetitionID uuid.UUID `db:"competition_id"`
	LinkID        uuid.UUID `db:"link_id"`
	Outcome       string    `db:"outcome"`
	Reason        string    `db:"reason"`
	Metadata      Flags     `db:"metadata"`
	OccurredAt    time.Time `db:"occurred_at"`
	CreatedAt     time.Time `db:"created_at"`
}

// MemberEvent is one join/leave/invite observation consumed by the
// heuristics engine and the blacklist rules.
type MemberEvent struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	CompetitionID uuid.UUID  `db:"competition_id"`
	EventType     string     `db:"event_type"`
	InviterID     *uuid.UUID `db:"inviter_id"`
	Username      string     `db:"username"`
	ClientID      string     `db:"client_id"`
	OccurredAt    time.Time  `db:"occurred_at"`
	CreatedAt     time.Time  `db:"created_at"`
}

// BlacklistEntry is a user-level enforcement flag. A nil ExpiresAt means
// the block is permanent.
type BlacklistEntry struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	Reason        string     `db:"reason"`
	Confidence    float64    `db:"confidence"`
	Details       Flags      `db:"details"`
	AutoGenerated bool       `db:"auto_generated"`
	CreatedBy     *uuid.UUID `db:"created_by"`
	ExpiresAt     *time.Time `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
}

// FraudAlert is an observational record of a detected pattern. It is not
// itself enforcement.
type FraudAlert struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	CompetitionID *uuid.UUID `db:"competition_id"`
	FraudType     string     `db:"fraud_type"`
	Confidence    float64    `db:"confidence"`
	Details       Flags      `db:"details"`
	ActionTaken   string     `db:"action_taken"`
	CreatedAt     time.Time  `db:"created_at"`
}

// AuditLogEntry is immutable once flushed to storage.
type AuditLogEntry struct {
	ID            uuid.UUID  `db:"id"`
	UserID        *uuid.UUID `db:"user_id"`
	ActionType    string     `db:"action_type"`
	Level         string     `db:"level"`
	Message       string     `db:"message"`
	Details       Flags      `db:"details"`
	CorrelationID *string    `db:"correlation_id"`
	OccurredAt    time.Time  `db:"occurred_at"`
}

// LedgerStatistics holds aggregate ledger counters for monitoring.
type LedgerStatistics struct {
	TotalPairs         int `db:"total_pairs"`
	ValidPairs         int `db:"valid_pairs"`
	PairsWithFraud     int `db:"pairs_with_fraud"`
	TotalFraudAttempts int `db:"total_fraud_attempts"`
}
