package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sqlInsertAuditEntries = `
INSERT INTO audit_log_entries (id, user_id, action_type, level, message, details, correlation_id, occurred_at)
VALUES (:id, :user_id, :action_type, :level, :message, :details, :correlation_id, :occurred_at)
`

// InsertAuditEntries persists a batch of buffered audit entries in one
// statement. IDs are assigned by the caller when the entry is buffered.
func (s *Store) InsertAuditEntries(ctx context.Context, entries []AuditLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := s.db.NamedExecContext(ctx, sqlInsertAuditEntries, entries)
	if err != nil {
		s.logger.Error(ctx, "failed to insert audit entries", err)
		return fmt.Errorf("failed to insert audit entries: %w", err)
	}
	return nil
}

// AuditFilter narrows an audit query. Nil fields match everything.
type AuditFilter struct {
	UserID     *uuid.UUID
	ActionType *string
	Level      *string
	From       *time.Time
	To         *time.Time
}

// QueryAuditEntries reads durable audit entries matching the filter, newest
// first, with the total match count for pagination.
func (s *Store) QueryAuditEntries(ctx context.Context, filter AuditFilter, limit, offset int) ([]AuditLogEntry, int, error) {
	where, args := buildAuditWhere(filter)

	countQuery := "SELECT COUNT(*) FROM audit_log_entries" + where
	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		s.logger.Error(ctx, "failed to count audit entries", err)
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := "SELECT id, user_id, action_type, level, message, details, correlation_id, occurred_at FROM audit_log_entries" +
		where +
		" ORDER BY occurred_at DESC LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var entries []AuditLogEntry
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		s.logger.Error(ctx, "failed to query audit entries", err)
		return nil, 0, fmt.Errorf("failed to query audit entries: %w", err)
	}
	return entries, total, nil
}

func buildAuditWhere(filter AuditFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.ActionType != nil {
		add("action_type = $%d", *filter.ActionType)
	}
	if filter.Level != nil {
		add("level = $%d", *filter.Level)
	}
	if filter.From != nil {
		add("occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("occurred_at <= $%d", *filter.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const sqlDeleteAuditEntriesBefore = `
DELETE FROM audit_log_entries
WHERE level = $1 AND occurred_at < $2
`

// DeleteAuditEntriesBefore purges entries of one level older than the cutoff
func (s *Store) DeleteAuditEntriesBefore(ctx context.Context, level string, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, sqlDeleteAuditEntriesBefore, level, cutoff)
	if err != nil {
		s.logger.Error(ctx, "failed to delete expired audit entries", err)
		return 0, fmt.Errorf("failed to delete expired audit entries: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
