package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inviteguard/internal/config"
	"inviteguard/internal/observability"
	"inviteguard/internal/store"

	"github.com/google/uuid"
)

// Entry is one security decision to record.
type Entry struct {
	UserID        *uuid.UUID
	ActionType    string
	Level         string
	Message       string
	Details       store.Flags
	CorrelationID *string
}

// Logger buffers audit entries in memory and flushes them to durable
// storage from a background loop, so persistence latency never delays a
// decision. A failed flush keeps the entries buffered; only when the buffer
// exceeds its hard cap are the oldest entries dropped.
type Logger struct {
	store  Store
	cfg    config.AuditConfig
	logger *observability.Logger

	mu     sync.Mutex
	buffer []store.AuditLogEntry

	flushCh chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewLogger creates an audit logger. Call Start to begin background
// flushing.
func NewLogger(st Store, cfg config.AuditConfig, logger *observability.Logger) *Logger {
	return &Logger{
		store:   st,
		cfg:     cfg,
		logger:  logger,
		flushCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Log appends the entry to the buffer. It never performs durable I/O.
func (l *Logger) Log(entry Entry) {
	record := store.AuditLogEntry{
		ID:            uuid.New(),
		UserID:        entry.UserID,
		ActionType:    entry.ActionType,
		Level:         entry.Level,
		Message:       entry.Message,
		Details:       entry.Details,
		CorrelationID: entry.CorrelationID,
		OccurredAt:    time.Now(),
	}

	l.mu.Lock()
	l.buffer = append(l.buffer, record)
	l.enforceCapLocked()
	size := len(l.buffer)
	l.mu.Unlock()

	if size >= l.cfg.FlushSize {
		select {
		case l.flushCh <- struct{}{}:
		default:
		}
	}
}

// enforceCapLocked drops the oldest entries once the hard cap is exceeded.
// Caller holds l.mu.
func (l *Logger) enforceCapLocked() {
	if len(l.buffer) <= l.cfg.MaxBuffered {
		return
	}
	dropped := len(l.buffer) - l.cfg.MaxBuffered
	l.buffer = append(l.buffer[:0:0], l.buffer[dropped:]...)
	l.logger.Warn(context.Background(), "audit buffer over capacity, dropping oldest entries",
		observability.Field{Key: "dropped", Value: dropped},
		observability.Field{Key: "max_buffered", Value: l.cfg.MaxBuffered},
	)
}

// Start launches the background flush loop
func (l *Logger) Start() {
	go l.run()
}

func (l *Logger) run() {
	defer close(l.doneCh)
	ticker := time.NewTicker(l.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.flushOnce()
		case <-l.flushCh:
			l.flushOnce()
			ticker.Reset(l.cfg.FlushInterval)
		}
	}
}

func (l *Logger) flushOnce() {
	if err := l.Flush(context.Background()); err != nil {
		l.logger.Error(context.Background(), "audit flush failed, entries retained for retry", err)
	}
}

// Stop signals the flush loop to exit and performs a final flush.
func (l *Logger) Stop(ctx context.Context) error {
	close(l.stopCh)
	select {
	case <-l.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	return l.Flush(ctx)
}

// Flush writes all buffered entries to durable storage. On failure the
// entries stay buffered for the next attempt.
func (l *Logger) Flush(ctx context.Context) error {
	l.mu.Lock()
	if len(l.buffer) == 0 {
		l.mu.Unlock()
		return nil
	}
	pending := l.buffer
	l.buffer = nil
	l.mu.Unlock()

	if err := l.store.InsertAuditEntries(ctx, pending); err != nil {
		l.mu.Lock()
		l.buffer = append(pending, l.buffer...)
		l.enforceCapLocked()
		l.mu.Unlock()
		return fmt.Errorf("failed to flush audit entries: %w", err)
	}
	return nil
}

// Query forces a flush so just-buffered entries become visible, then reads
// durable storage. A failed flush does not fail the query; the retained
// entries simply stay invisible until the next successful flush.
func (l *Logger) Query(ctx context.Context, filter store.AuditFilter, limit, offset int) ([]store.AuditLogEntry, int, error) {
	if err := l.Flush(ctx); err != nil {
		l.logger.Error(ctx, "audit flush before query failed", err)
	}
	return l.store.QueryAuditEntries(ctx, filter, limit, offset)
}

// Purge enforces the level-scoped retention policy. Returns the number of
// entries removed.
func (l *Logger) Purge(ctx context.Context, now time.Time) (int64, error) {
	retentions := map[string]time.Duration{
		store.AuditLevelInfo:     l.cfg.RetentionInfo,
		store.AuditLevelWarning:  l.cfg.RetentionWarn,
		store.AuditLevelError:    l.cfg.RetentionError,
		store.AuditLevelCritical: l.cfg.RetentionCrit,
	}

	var total int64
	for level, retention := range retentions {
		removed, err := l.store.DeleteAuditEntriesBefore(ctx, level, now.Add(-retention))
		if err != nil {
			return total, fmt.Errorf("failed to purge %s audit entries: %w", level, err)
		}
		total += removed
	}
	return total, nil
}

// BufferedCount reports the number of entries awaiting flush.
func (l *Logger) BufferedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buffer)
}
