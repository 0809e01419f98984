package blacklist

import (
	"context"
	"testing"
	"time"

	"inviteguard/internal/config"
	"inviteguard/internal/observability"
	"inviteguard/internal/store"
	"inviteguard/internal/store/memory"

	"github.com/google/uuid"
)

func testBlacklistConfig() config.BlacklistConfig {
	return config.BlacklistConfig{
		FraudAttemptsThreshold: 5,
		CoordinatedMinBuckets:  2,
		CoordinatedMinUsers:    10,
		CoordinatedBucketSize:  5,
		CoordinatedWindow:      24 * time.Hour,
		BotSignatureThreshold:  0.8,
		BotBlockDays:           30,
		RapidActionsPerHour:    20,
		RapidActionsPerTenMin:  10,
		RapidBlockDays:         7,
		CacheTTL:               5 * time.Minute,
		CacheMaxEntries:        100,
	}
}

func newTestManager(st Store) *Manager {
	return NewManager(st, testBlacklistConfig(), observability.NewNop())
}

// registerFraudAttempts builds up duplicate-pair fraud on one invited user.
func registerFraudAttempts(t *testing.T, st *memory.Store, invited uuid.UUID, attempts int) {
	t.Helper()
	ctx := context.Background()
	inviter := uuid.New()
	now := time.Now()
	for i := 0; i <= attempts; i++ {
		_, _, err := st.UpsertInviteRelationship(ctx, store.UpsertInviteRelationshipParams{
			InviterID:     inviter,
			InvitedID:     invited,
			CompetitionID: uuid.New(),
			LinkID:        uuid.New(),
			Now:           now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestEvaluate_MultipleFraudAttempts(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	invited := uuid.New()

	registerFraudAttempts(t, st, invited, 5)

	entry, err := mgr.Evaluate(ctx, invited, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a blacklist entry")
	}
	if entry.Reason != store.BlacklistReasonMultipleFraudAttempts {
		t.Errorf("expected reason %s, got %s", store.BlacklistReasonMultipleFraudAttempts, entry.Reason)
	}
	if entry.ExpiresAt != nil {
		t.Error("multiple fraud attempts should be a permanent block")
	}
	if entry.Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %v", entry.Confidence)
	}
	if !entry.AutoGenerated {
		t.Error("rule-generated entries must be marked auto-generated")
	}

	alerts, err := st.GetFraudAlertsByUser(ctx, invited)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected one fraud alert, got %d", len(alerts))
	}
	if alerts[0].ActionTaken != store.AlertActionBlacklisted {
		t.Errorf("expected action %s, got %s", store.AlertActionBlacklisted, alerts[0].ActionTaken)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	invited := uuid.New()

	registerFraudAttempts(t, st, invited, 5)

	first, err := mgr.Evaluate(ctx, invited, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := mgr.Evaluate(ctx, invited, nil, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Error("re-evaluating a blacklisted user must short-circuit to the existing entry")
	}

	alerts, _ := st.GetFraudAlertsByUser(ctx, invited)
	if len(alerts) != 1 {
		t.Errorf("expected one fraud alert after repeated evaluation, got %d", len(alerts))
	}
}

func TestEvaluate_CoordinatedSignalEscalates(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	inviter := uuid.New()
	comp := uuid.New()

	entry, err := mgr.Evaluate(ctx, inviter, &Signal{
		FraudType:     store.FraudTypeCoordinatedCluster,
		Confidence:    0.9,
		CompetitionID: &comp,
		Details:       store.Flags{store.FlagFlaggedUsers: "11"},
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a blacklist entry")
	}
	if entry.Reason != store.BlacklistReasonCoordinatedAttack {
		t.Errorf("expected reason %s, got %s", store.BlacklistReasonCoordinatedAttack, entry.Reason)
	}
	if entry.ExpiresAt != nil {
		t.Error("coordinated attack should be a permanent block")
	}

	blocked, err := mgr.IsBlacklisted(ctx, inviter, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !blocked {
		t.Error("inviter should report blacklisted after escalation")
	}
}

func TestEvaluate_CoordinatedAttackFromHistory(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	inviter := uuid.New()
	comp := uuid.New()

	// Two suspicious minute-buckets, six attributed joins each.
	for b := 0; b < 2; b++ {
		minute := now.Add(-time.Duration(b+1) * time.Hour).Truncate(time.Minute)
		for i := 0; i < 6; i++ {
			_, err := st.CreateMemberEvent(ctx, store.CreateMemberEventParams{
				UserID:        uuid.New(),
				CompetitionID: comp,
				EventType:     store.EventTypeJoin,
				InviterID:     &inviter,
				OccurredAt:    minute.Add(time.Duration(i) * 5 * time.Second),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	entry, err := mgr.Evaluate(ctx, inviter, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a blacklist entry")
	}
	if entry.Reason != store.BlacklistReasonCoordinatedAttack {
		t.Errorf("expected reason %s, got %s", store.BlacklistReasonCoordinatedAttack, entry.Reason)
	}
}

func TestEvaluate_BotSignal(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	userID := uuid.New()

	// Below the block threshold: no entry.
	entry, err := mgr.Evaluate(ctx, userID, &Signal{FraudType: store.FraudTypeBotSignature, Confidence: 0.7}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatal("bot score below the block threshold should not blacklist")
	}

	entry, err = mgr.Evaluate(ctx, userID, &Signal{FraudType: store.FraudTypeBotSignature, Confidence: 0.85}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a blacklist entry")
	}
	if entry.Reason != store.BlacklistReasonBotBehavior {
		t.Errorf("expected reason %s, got %s", store.BlacklistReasonBotBehavior, entry.Reason)
	}
	if entry.ExpiresAt == nil {
		t.Fatal("bot behavior should be a temporary block")
	}
	want := now.Add(30 * 24 * time.Hour)
	if !entry.ExpiresAt.Equal(want) {
		t.Errorf("expected 30-day expiry %v, got %v", want, entry.ExpiresAt)
	}
}

func TestEvaluate_RapidPattern(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	userID := uuid.New()

	for i := 0; i < 20; i++ {
		st.CreateMemberEvent(ctx, store.CreateMemberEventParams{
			UserID:        userID,
			CompetitionID: uuid.New(),
			EventType:     store.EventTypeJoin,
			OccurredAt:    now.Add(-time.Duration(i) * 2 * time.Minute),
		})
	}

	entry, err := mgr.Evaluate(ctx, userID, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a blacklist entry")
	}
	if entry.Reason != store.BlacklistReasonRapidPattern {
		t.Errorf("expected reason %s, got %s", store.BlacklistReasonRapidPattern, entry.Reason)
	}
	if entry.ExpiresAt == nil {
		t.Fatal("rapid pattern should be a temporary block")
	}
	want := now.Add(7 * 24 * time.Hour)
	if !entry.ExpiresAt.Equal(want) {
		t.Errorf("expected 7-day expiry %v, got %v", want, entry.ExpiresAt)
	}
}

func TestEvaluate_CleanUserNotBlacklisted(t *testing.T) {
	mgr := newTestManager(memory.New())
	entry, err := mgr.Evaluate(context.Background(), uuid.New(), nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("clean user should not be blacklisted, got %+v", entry)
	}
}

func TestIsBlacklisted_ExpiredEntryReportsClear(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	userID := uuid.New()

	expired := now.Add(-time.Minute)
	_, err := st.CreateBlacklistEntry(ctx, store.CreateBlacklistEntryParams{
		UserID:    userID,
		Reason:    store.BlacklistReasonRapidPattern,
		ExpiresAt: &expired,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocked, err := mgr.IsBlacklisted(ctx, userID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked {
		t.Error("expired entry must report not-blacklisted")
	}

	removed, err := mgr.Cleanup(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected cleanup to remove 1 entry, got %d", removed)
	}
}

func TestIsBlacklisted_CacheDoesNotOutliveBlock(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	userID := uuid.New()

	// Block lapses one minute from now, well inside the 5-minute cache TTL.
	expiry := now.Add(time.Minute)
	if _, err := st.CreateBlacklistEntry(ctx, store.CreateBlacklistEntryParams{
		UserID:    userID,
		Reason:    store.BlacklistReasonBotBehavior,
		ExpiresAt: &expiry,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocked, _ := mgr.IsBlacklisted(ctx, userID, now)
	if !blocked {
		t.Fatal("user should be blocked before expiry")
	}
	blocked, _ = mgr.IsBlacklisted(ctx, userID, now.Add(2*time.Minute))
	if blocked {
		t.Error("cached result must not outlive the block expiry")
	}
}

func TestManualBlacklistAndRemoval(t *testing.T) {
	st := memory.New()
	mgr := newTestManager(st)
	ctx := context.Background()
	now := time.Now()
	userID := uuid.New()
	adminID := uuid.New()

	entry, err := mgr.ManualBlacklist(ctx, userID, adminID, false, 14, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Reason != store.BlacklistReasonManual {
		t.Errorf("expected reason %s, got %s", store.BlacklistReasonManual, entry.Reason)
	}
	if entry.AutoGenerated {
		t.Error("manual entries must not be marked auto-generated")
	}
	if entry.CreatedBy == nil || *entry.CreatedBy != adminID {
		t.Error("manual entry should record the issuing admin")
	}
	if entry.ExpiresAt == nil {
		t.Fatal("expected a 14-day expiry")
	}

	blocked, _ := mgr.IsBlacklisted(ctx, userID, now)
	if !blocked {
		t.Fatal("user should be blocked after manual blacklist")
	}

	removed, err := mgr.RemoveBlacklist(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 entry removed, got %d", removed)
	}
	blocked, _ = mgr.IsBlacklisted(ctx, userID, now)
	if blocked {
		t.Error("user should be clear after removal")
	}
}

func TestManualBlacklist_TemporaryRequiresDuration(t *testing.T) {
	mgr := newTestManager(memory.New())
	if _, err := mgr.ManualBlacklist(context.Background(), uuid.New(), uuid.New(), false, 0, time.Now()); err == nil {
		t.Error("expected error for temporary block without duration")
	}
}
