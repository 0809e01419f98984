package heuristics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// rapidJoinLeave counts join→leave cycles for the invited user where the
// leave follows the join within the configured gap. Cycles are tracked per
// competition so an open join in one competition is not closed by a leave
// in another.
func (e *Engine) rapidJoinLeave(snap Snapshot) RuleResult {
	cutoff := snap.Now.Add(-e.cfg.RapidJoinLeaveWindow)
	pendingJoins := make(map[uuid.UUID]time.Time)
	var cycles int

	for _, event := range snap.InvitedEvents {
		if event.OccurredAt.Before(cutoff) {
			continue
		}
		switch event.EventType {
		case store.EventTypeJoin:
			pendingJoins[event.CompetitionID] = event.OccurredAt
		case store.EventTypeLeave:
			joinedAt, ok := pendingJoins[event.CompetitionID]
			if !ok {
				continue
			}
			delete(pendingJoins, event.CompetitionID)
			if event.OccurredAt.Sub(joinedAt) <= e.cfg.RapidJoinLeaveGap {
				cycles++
			}
		}
	}

	result := RuleResult{
		Rule: store.FraudTypeRapidJoinLeave,
		Details: store.Flags{
			store.FlagCycleCount: fmt.Sprintf("%d", cycles),
		},
	}
	if cycles >= e.cfg.RapidJoinLeaveMinCycles {
		result.Triggered = true
		result.Confidence = e.cfg.RapidJoinLeaveConfidence
	} else if e.cfg.RapidJoinLeaveMinCycles > 0 {
		result.Confidence = e.cfg.RapidJoinLeaveConfidence * float64(cycles) / float64(e.cfg.RapidJoinLeaveMinCycles)
	}
	return result
}

// highFrequency counts join and invite actions by the invited user within
// the configured window.
func (e *Engine) highFrequency(snap Snapshot) RuleResult {
	cutoff := snap.Now.Add(-e.cfg.HighFrequencyWindow)
	var actions int
	for _, event := range snap.InvitedEvents {
		if event.OccurredAt.Before(cutoff) {
			continue
		}
		if event.EventType == store.EventTypeJoin || event.EventType == store.EventTypeInvite {
			actions++
		}
	}

	result := RuleResult{
		Rule: store.FraudTypeHighFrequency,
		Details: store.Flags{
			store.FlagActionCount: fmt.Sprintf("%d", actions),
		},
	}
	if actions >= e.cfg.HighFrequencyMinActions {
		result.Triggered = true
		result.Confidence = e.cfg.HighFrequencyConfidence
	} else if e.cfg.HighFrequencyMinActions > 0 {
		result.Confidence = e.cfg.HighFrequencyConfidence * float64(actions) / float64(e.cfg.HighFrequencyMinActions)
	}
	return result
}

// artificialTiming flags a suspiciously regular cadence: with enough recent
// actions, a population variance of the inter-arrival gaps below the
// configured bound triggers.
func (e *Engine) artificialTiming(snap Snapshot) RuleResult {
	variance, samples := gapVariance(snap.InvitedEvents)

	result := RuleResult{
		Rule: store.FraudTypeArtificialTiming,
		Details: store.Flags{
			store.FlagActionCount: fmt.Sprintf("%d", samples),
			store.FlagGapVariance: fmt.Sprintf("%.2f", variance),
		},
	}
	if samples >= e.cfg.TimingMinActions && variance < e.cfg.TimingMaxVariance {
		result.Triggered = true
		result.Confidence = e.cfg.TimingConfidence
	}
	return result
}

// coordinatedCluster buckets competition joins by calendar minute. A bucket
// with more distinct invited users than the configured minimum is flagged
// when one inviter's burst exceeds the dominant-burst bound, or when the
// unique-to-total ratio drops below the configured ratio. The cumulative
// count of users across flagged buckets triggers the rule. The signal
// targets the inviter, not the invited relationship.
func (e *Engine) coordinatedCluster(snap Snapshot) RuleResult {
	type bucket struct {
		users    map[uuid.UUID]struct{}
		inviters map[uuid.UUID]int
		total    int
	}
	buckets := make(map[time.Time]*bucket)

	for _, event := range snap.CompetitionJoins {
		minute := event.OccurredAt.Truncate(time.Minute)
		b, ok := buckets[minute]
		if !ok {
			b = &bucket{
				users:    make(map[uuid.UUID]struct{}),
				inviters: make(map[uuid.UUID]int),
			}
			buckets[minute] = b
		}
		b.users[event.UserID] = struct{}{}
		b.total++
		if event.InviterID != nil {
			b.inviters[*event.InviterID]++
		}
	}

	var flaggedUsers, flaggedBuckets int
	for _, b := range buckets {
		if len(b.users) <= e.cfg.ClusterMinUniqueInvited {
			continue
		}
		dominant := 0
		for _, count := range b.inviters {
			if count > dominant {
				dominant = count
			}
		}
		ratio := float64(len(b.users)) / float64(b.total)
		if dominant > e.cfg.ClusterDominantBurst || ratio < e.cfg.ClusterMinUniqueRatio {
			flaggedBuckets++
			flaggedUsers += len(b.users)
		}
	}

	result := RuleResult{
		Rule: store.FraudTypeCoordinatedCluster,
		Details: store.Flags{
			store.FlagFlaggedUsers: fmt.Sprintf("%d", flaggedUsers),
			store.FlagBucketCount:  fmt.Sprintf("%d", flaggedBuckets),
		},
	}
	if flaggedUsers >= e.cfg.ClusterMinFlaggedUsers {
		result.Triggered = true
		result.Confidence = e.cfg.ClusterConfidence
	}
	return result
}

var (
	botClientPattern      = regexp.MustCompile(`(?i)(bot|auto|script|crawler|headless|selenium|puppeteer)`)
	sequentialNamePattern = regexp.MustCompile(`\d{4,}$`)
	keywordNamePattern    = regexp.MustCompile(`(?i)(test|fake|temp|bot|spam)`)
)

// botSignature sums weighted indicators: a bot-like client identifier, a
// sequential or keyword-bearing username, and low timing variance. The score
// is the confidence; crossing the threshold classifies the user as a bot.
func (e *Engine) botSignature(snap Snapshot) RuleResult {
	var score float64
	var indicators []string

	if snap.ClientID != "" && botClientPattern.MatchString(snap.ClientID) {
		score += e.cfg.BotClientWeight
		indicators = append(indicators, "client_id")
	}
	username := strings.TrimSpace(snap.InvitedUsername)
	if username != "" {
		if sequentialNamePattern.MatchString(username) {
			score += e.cfg.BotUsernameWeight
			indicators = append(indicators, "sequential_username")
		}
		if keywordNamePattern.MatchString(username) {
			score += e.cfg.BotUsernameWeight
			indicators = append(indicators, "username_keyword")
		}
	}
	variance, samples := gapVariance(snap.InvitedEvents)
	if samples >= e.cfg.BotTimingMinEvents && variance < e.cfg.BotTimingVariance {
		score += e.cfg.BotTimingWeight
		indicators = append(indicators, "low_timing_variance")
	}

	result := RuleResult{
		Rule:       store.FraudTypeBotSignature,
		Confidence: score,
		Details: store.Flags{
			store.FlagBotScore:      fmt.Sprintf("%.2f", score),
			store.FlagBotIndicators: strings.Join(indicators, ","),
		},
	}
	if score >= e.cfg.BotScoreThreshold {
		result.Triggered = true
	}
	return result
}

// gapVariance computes the population variance, in seconds squared, of the
// inter-arrival gaps between consecutive events. The second return value is
// the number of events contributing.
func gapVariance(events []store.MemberEvent) (float64, int) {
	if len(events) < 3 {
		return 0, len(events)
	}

	gaps := make([]float64, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		gaps = append(gaps, events[i].OccurredAt.Sub(events[i-1].OccurredAt).Seconds())
	}

	var sum float64
	for _, g := range gaps {
		sum += g
	}
	mean := sum / float64(len(gaps))

	var variance float64
	for _, g := range gaps {
		d := g - mean
		variance += d * d
	}
	return variance / float64(len(gaps)), len(events)
}
