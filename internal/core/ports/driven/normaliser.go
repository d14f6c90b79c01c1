package driven

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// Normaliser converts raw provider content into the normalised HTML
// representation. Each normaliser handles specific MIME types.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred) when
	// several normalisers claim the same MIME type.
	Priority() int

	// Normalise converts raw content to an ImportedContent whose Content
	// field is always a non-empty HTML fragment.
	Normalise(ctx context.Context, raw *RawContent) (*domain.ImportedContent, error)
}

// NormaliserRegistry selects and runs the best normaliser for a MIME type.
type NormaliserRegistry interface {
	// Normalise converts raw content using the best matching normaliser.
	// Returns domain.ErrUnsupportedType when no normaliser claims the MIME type.
	Normalise(ctx context.Context, raw *RawContent) (*domain.ImportedContent, error)
}
