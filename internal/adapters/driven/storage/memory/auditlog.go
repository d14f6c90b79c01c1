package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure AuditLog implements the interface.
var _ driven.AuditLog = (*AuditLog)(nil)

// AuditLog is an in-memory implementation of driven.AuditLog.
type AuditLog struct {
	mu     sync.RWMutex
	events []domain.AuditEvent
}

// NewAuditLog creates an empty in-memory audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Append records an audit event.
func (l *AuditLog) Append(_ context.Context, event domain.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	l.events = append(l.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (l *AuditLog) Events() []domain.AuditEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]domain.AuditEvent, len(l.events))
	copy(copied, l.events)
	return copied
}
