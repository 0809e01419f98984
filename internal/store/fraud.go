package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateFraudAlertParams represents parameters for creating a fraud alert
type CreateFraudAlertParams struct {
	UserID        uuid.UUID
	CompetitionID *uuid.UUID
	FraudType     string
	Confidence    float64
	Details       Flags
	ActionTaken   string
}

const sqlCreateFraudAlert = `
INSERT INTO fraud_alerts (user_id, competition_id, fraud_type, confidence, details, action_taken)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, competition_id, fraud_type, confidence, details, action_taken, created_at
`

// CreateFraudAlert creates a new fraud alert record
func (s *Store) CreateFraudAlert(ctx context.Context, params CreateFraudAlertParams) (FraudAlert, error) {
	var alert FraudAlert
	err := s.db.GetContext(ctx, &alert, sqlCreateFraudAlert,
		params.UserID,
		params.CompetitionID,
		params.FraudType,
		params.Confidence,
		params.Details,
		params.ActionTaken)
	if err != nil {
		s.logger.Error(ctx, "failed to create fraud alert", err)
		return FraudAlert{}, fmt.Errorf("failed to create fraud alert: %w", err)
	}
	return alert, nil
}

const sqlGetFraudAlertsByUser = `
SELECT id, user_id, competition_id, fraud_type, confidence, details, action_taken, created_at
FROM fraud_alerts
WHERE user_id = $1
ORDER BY created_at DESC
`

// GetFraudAlertsByUser retrieves fraud alerts for a user
func (s *Store) GetFraudAlertsByUser(ctx context.Context, userID uuid.UUID) ([]FraudAlert, error) {
	var alerts []FraudAlert
	err := s.db.SelectContext(ctx, &alerts, sqlGetFraudAlertsByUser, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to get fraud alerts by user", err)
		return nil, fmt.Errorf("failed to get fraud alerts by user: %w", err)
	}
	return alerts, nil
}

const sqlCountFraudAlerts = `
SELECT COUNT(*)
FROM fraud_alerts
WHERE ($1::uuid IS NULL OR competition_id = $1)
`

// CountFraudAlerts counts alerts, optionally scoped to one competition
func (s *Store) CountFraudAlerts(ctx context.Context, competitionID *uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountFraudAlerts, competitionID)
	if err != nil {
		s.logger.Error(ctx, "failed to count fraud alerts", err)
		return 0, fmt.Errorf("failed to count fraud alerts: %w", err)
	}
	return count, nil
}
