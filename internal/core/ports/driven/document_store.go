package driven

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// DocumentStore creates persisted document records from imports.
// The wider document lifecycle is owned by the surrounding application.
type DocumentStore interface {
	// Create persists a new document and returns it with ID and CreatedAt set.
	Create(ctx context.Context, doc domain.Document) (*domain.Document, error)
}
