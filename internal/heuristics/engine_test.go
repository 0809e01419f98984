package heuristics

import (
	"testing"
	"time"

	"inviteguard/internal/config"
	"inviteguard/internal/store"

	"github.com/google/uuid"
)

func testHeuristicsConfig() config.HeuristicsConfig {
	return config.HeuristicsConfig{
		RapidJoinLeaveWindow:     time.Hour,
		RapidJoinLeaveGap:        5 * time.Minute,
		RapidJoinLeaveMinCycles:  2,
		RapidJoinLeaveConfidence: 0.95,

		HighFrequencyWindow:     time.Hour,
		HighFrequencyMinActions: 3,
		HighFrequencyConfidence: 0.9,

		TimingMinActions:  3,
		TimingMaxVariance: 25.0,
		TimingConfidence:  0.85,

		ClusterMinUniqueInvited: 5,
		ClusterDominantBurst:    10,
		ClusterMinUniqueRatio:   0.8,
		ClusterMinFlaggedUsers:  10,
		ClusterConfidence:       0.9,

		BotClientWeight:    0.3,
		BotUsernameWeight:  0.2,
		BotTimingWeight:    0.3,
		BotScoreThreshold:  0.7,
		BotTimingVariance:  25.0,
		BotTimingMinEvents: 3,
	}
}

func event(userID, competitionID uuid.UUID, eventType string, at time.Time) store.MemberEvent {
	return store.MemberEvent{
		ID:            uuid.New(),
		UserID:        userID,
		CompetitionID: competitionID,
		EventType:     eventType,
		OccurredAt:    at,
	}
}

func resultFor(t *testing.T, eval Evaluation, rule string) RuleResult {
	t.Helper()
	for _, r := range eval.Results {
		if r.Rule == rule {
			return r
		}
	}
	t.Fatalf("no result recorded for rule %s", rule)
	return RuleResult{}
}

func TestEvaluate_RapidJoinLeave(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()
	invited := uuid.New()
	comp := uuid.New()

	tests := []struct {
		name      string
		events    []store.MemberEvent
		triggered bool
	}{
		{
			name: "two fast cycles trigger",
			events: []store.MemberEvent{
				event(invited, comp, store.EventTypeJoin, now.Add(-30*time.Minute)),
				event(invited, comp, store.EventTypeLeave, now.Add(-28*time.Minute)),
				event(invited, comp, store.EventTypeJoin, now.Add(-20*time.Minute)),
				event(invited, comp, store.EventTypeLeave, now.Add(-17*time.Minute)),
			},
			triggered: true,
		},
		{
			name: "slow leaves do not count as cycles",
			events: []store.MemberEvent{
				event(invited, comp, store.EventTypeJoin, now.Add(-50*time.Minute)),
				event(invited, comp, store.EventTypeLeave, now.Add(-40*time.Minute)),
				event(invited, comp, store.EventTypeJoin, now.Add(-30*time.Minute)),
				event(invited, comp, store.EventTypeLeave, now.Add(-20*time.Minute)),
			},
			triggered: false,
		},
		{
			name: "single cycle is below the minimum",
			events: []store.MemberEvent{
				event(invited, comp, store.EventTypeJoin, now.Add(-10*time.Minute)),
				event(invited, comp, store.EventTypeLeave, now.Add(-9*time.Minute)),
			},
			triggered: false,
		},
		{
			name: "cycles outside the window are ignored",
			events: []store.MemberEvent{
				event(invited, comp, store.EventTypeJoin, now.Add(-3*time.Hour)),
				event(invited, comp, store.EventTypeLeave, now.Add(-3*time.Hour).Add(time.Minute)),
				event(invited, comp, store.EventTypeJoin, now.Add(-10*time.Minute)),
				event(invited, comp, store.EventTypeLeave, now.Add(-9*time.Minute)),
			},
			triggered: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := engine.Evaluate(Snapshot{
				Now:           now,
				InvitedID:     invited,
				CompetitionID: comp,
				InvitedEvents: tt.events,
			})
			result := resultFor(t, eval, store.FraudTypeRapidJoinLeave)
			if result.Triggered != tt.triggered {
				t.Errorf("expected triggered=%v, got %+v", tt.triggered, result)
			}
			if tt.triggered && result.Confidence != 0.95 {
				t.Errorf("expected confidence 0.95, got %v", result.Confidence)
			}
		})
	}
}

func TestEvaluate_HighFrequency(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()
	invited := uuid.New()

	var events []store.MemberEvent
	for i := 0; i < 3; i++ {
		events = append(events, event(invited, uuid.New(), store.EventTypeJoin, now.Add(-time.Duration(40-i*13)*time.Minute)))
	}

	eval := engine.Evaluate(Snapshot{Now: now, InvitedID: invited, InvitedEvents: events})
	result := resultFor(t, eval, store.FraudTypeHighFrequency)
	if !result.Triggered {
		t.Errorf("three joins within the hour should trigger, got %+v", result)
	}
	if !eval.Reject {
		t.Error("triggered rule should reject the attempt")
	}
	if eval.RejectRule != store.FraudTypeHighFrequency {
		t.Errorf("expected reject rule %s, got %s", store.FraudTypeHighFrequency, eval.RejectRule)
	}

	// Leaves do not count as actions.
	leaves := []store.MemberEvent{
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-40*time.Minute)),
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-30*time.Minute)),
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-20*time.Minute)),
	}
	eval = engine.Evaluate(Snapshot{Now: now, InvitedID: invited, InvitedEvents: leaves})
	if resultFor(t, eval, store.FraudTypeHighFrequency).Triggered {
		t.Error("leave events should not count toward high frequency")
	}
}

func TestEvaluate_ArtificialTiming(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()
	invited := uuid.New()

	// Perfectly regular 30-second cadence: variance 0.
	var regular []store.MemberEvent
	for i := 0; i < 4; i++ {
		regular = append(regular, event(invited, uuid.New(), store.EventTypeLeave, now.Add(time.Duration(i)*30*time.Second-10*time.Minute)))
	}
	eval := engine.Evaluate(Snapshot{Now: now, InvitedID: invited, InvitedEvents: regular})
	result := resultFor(t, eval, store.FraudTypeArtificialTiming)
	if !result.Triggered {
		t.Errorf("zero-variance cadence should trigger, got %+v", result)
	}
	if result.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", result.Confidence)
	}

	// Irregular human-like gaps: 1 min, 14 min, 3 min.
	irregular := []store.MemberEvent{
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-60*time.Minute)),
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-59*time.Minute)),
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-45*time.Minute)),
		event(invited, uuid.New(), store.EventTypeLeave, now.Add(-42*time.Minute)),
	}
	eval = engine.Evaluate(Snapshot{Now: now, InvitedID: invited, InvitedEvents: irregular})
	if resultFor(t, eval, store.FraudTypeArtificialTiming).Triggered {
		t.Error("irregular gaps should not trigger")
	}

	// Too few actions to judge.
	short := regular[:2]
	eval = engine.Evaluate(Snapshot{Now: now, InvitedID: invited, InvitedEvents: short})
	if resultFor(t, eval, store.FraudTypeArtificialTiming).Triggered {
		t.Error("fewer than three actions should never trigger")
	}
}

func TestEvaluate_CoordinatedCluster(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()
	comp := uuid.New()
	inviter := uuid.New()
	minute := now.Truncate(time.Minute).Add(-10 * time.Minute)

	// Eleven distinct users joining in one minute, all from one inviter.
	var joins []store.MemberEvent
	for i := 0; i < 11; i++ {
		e := event(uuid.New(), comp, store.EventTypeJoin, minute.Add(time.Duration(i)*5*time.Second))
		e.InviterID = &inviter
		joins = append(joins, e)
	}

	eval := engine.Evaluate(Snapshot{
		Now:              now,
		InviterID:        inviter,
		InvitedID:        uuid.New(),
		CompetitionID:    comp,
		CompetitionJoins: joins,
	})

	if eval.InviterSignal == nil {
		t.Fatal("expected an inviter signal for the dominant burst")
	}
	if eval.InviterSignal.Rule != store.FraudTypeCoordinatedCluster {
		t.Errorf("unexpected signal rule %s", eval.InviterSignal.Rule)
	}
	if eval.InviterSignal.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", eval.InviterSignal.Confidence)
	}
	// The cluster signal targets the inviter; the invited relationship is
	// not rejected by it.
	if eval.Reject {
		t.Error("cluster signal must not reject the invited relationship")
	}
}

func TestEvaluate_CoordinatedCluster_OrganicJoinsDoNotFlag(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()
	comp := uuid.New()

	// Eleven distinct users in one minute with eleven distinct inviters:
	// no dominant burst and a unique ratio of 1.0.
	minute := now.Truncate(time.Minute).Add(-10 * time.Minute)
	var joins []store.MemberEvent
	for i := 0; i < 11; i++ {
		inviter := uuid.New()
		e := event(uuid.New(), comp, store.EventTypeJoin, minute.Add(time.Duration(i)*5*time.Second))
		e.InviterID = &inviter
		joins = append(joins, e)
	}

	eval := engine.Evaluate(Snapshot{Now: now, CompetitionID: comp, CompetitionJoins: joins})
	if eval.InviterSignal != nil {
		t.Errorf("organic joins should not produce an inviter signal, got %+v", eval.InviterSignal)
	}
}

func TestEvaluate_BotSignature(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()

	tests := []struct {
		name      string
		username  string
		clientID  string
		wantScore float64
		triggered bool
	}{
		{
			name:      "bot client and sequential keyword name",
			username:  "testuser48291",
			clientID:  "headless-agent/1.0",
			wantScore: 0.7,
			triggered: true,
		},
		{
			name:      "clean identity",
			username:  "maria",
			clientID:  "ios-app/3.2",
			wantScore: 0,
			triggered: false,
		},
		{
			name:      "keyword name alone stays below threshold",
			username:  "spamalot",
			clientID:  "android-app/5.1",
			wantScore: 0.2,
			triggered: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := engine.Evaluate(Snapshot{
				Now:             now,
				InvitedID:       uuid.New(),
				InvitedUsername: tt.username,
				ClientID:        tt.clientID,
			})
			result := resultFor(t, eval, store.FraudTypeBotSignature)
			if result.Triggered != tt.triggered {
				t.Errorf("expected triggered=%v, got %+v", tt.triggered, result)
			}
			if diff := result.Confidence - tt.wantScore; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected score %v, got %v", tt.wantScore, result.Confidence)
			}
		})
	}
}

func TestEvaluate_RecordsAllConfidences(t *testing.T) {
	engine := NewEngine(testHeuristicsConfig())
	now := time.Now()
	invited := uuid.New()
	comp := uuid.New()

	// Rapid join/leave cycles that also land a regular cadence, so multiple
	// rules trigger at once.
	events := []store.MemberEvent{
		event(invited, comp, store.EventTypeJoin, now.Add(-8*time.Minute)),
		event(invited, comp, store.EventTypeLeave, now.Add(-6*time.Minute)),
		event(invited, comp, store.EventTypeJoin, now.Add(-4*time.Minute)),
		event(invited, comp, store.EventTypeLeave, now.Add(-2*time.Minute)),
	}

	eval := engine.Evaluate(Snapshot{Now: now, InvitedID: invited, InvitedEvents: events})
	if len(eval.Results) != 5 {
		t.Fatalf("expected all five rule results recorded, got %d", len(eval.Results))
	}
	if !eval.Reject {
		t.Error("expected rejection")
	}
	// The highest-confidence triggered rule wins.
	if eval.RejectRule != store.FraudTypeRapidJoinLeave {
		t.Errorf("expected rapid join/leave to be the reject rule, got %s", eval.RejectRule)
	}
	if eval.Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %v", eval.Confidence)
	}
}
