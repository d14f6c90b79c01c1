package driven

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// AuditLog appends events to the organization's audit trail.
// Appends are fire-and-forget: the import core logs append failures but
// never fails an import because of them.
type AuditLog interface {
	// Append records an audit event.
	Append(ctx context.Context, event domain.AuditEvent) error
}
