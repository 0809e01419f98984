package heuristics

import (
	"time"

	"inviteguard/internal/config"
	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// Snapshot is the read-only history a single evaluation runs over. The
// orchestrator assembles it up front; rules never perform their own I/O.
type Snapshot struct {
	Now           time.Time
	InviterID     uuid.UUID
	InvitedID     uuid.UUID
	CompetitionID uuid.UUID

	// Latest known identity of the invited user, for the bot-signature check.
	InvitedUsername string
	ClientID        string

	// InvitedEvents holds the invited user's events in ascending time order.
	InvitedEvents []store.MemberEvent

	// CompetitionJoins holds join events for the competition in ascending
	// time order, for coordinated-cluster bucketing.
	CompetitionJoins []store.MemberEvent
}

// RuleResult is one rule's verdict. Confidence is recorded even when the
// rule did not trigger.
type RuleResult struct {
	Rule       string
	Confidence float64
	Triggered  bool
	Details    store.Flags
}

// Evaluation is the combined outcome of all five rules.
type Evaluation struct {
	Results []RuleResult

	// Reject is set when any invited-user rule triggered. Each rule's
	// trigger condition carries its own configured threshold.
	Reject     bool
	RejectRule string
	Confidence float64

	// InviterSignal carries a triggered coordinated-cluster result. It
	// targets the inviter and never rejects the invited relationship; the
	// orchestrator records an alert and defers blacklist evaluation.
	InviterSignal *RuleResult
}

// Engine evaluates the fraud rules. All thresholds come from configuration.
type Engine struct {
	cfg config.HeuristicsConfig
}

// NewEngine creates a heuristics engine
func NewEngine(cfg config.HeuristicsConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate runs every rule over the snapshot. All confidences are recorded
// even after the first trigger.
func (e *Engine) Evaluate(snap Snapshot) Evaluation {
	results := []RuleResult{
		e.rapidJoinLeave(snap),
		e.highFrequency(snap),
		e.artificialTiming(snap),
		e.botSignature(snap),
	}
	cluster := e.coordinatedCluster(snap)

	eval := Evaluation{Results: append(results, cluster)}
	for _, r := range results {
		if r.Triggered && r.Confidence > eval.Confidence {
			eval.Reject = true
			eval.RejectRule = r.Rule
			eval.Confidence = r.Confidence
		}
	}
	if cluster.Triggered {
		c := cluster
		eval.InviterSignal = &c
	}
	return eval
}
