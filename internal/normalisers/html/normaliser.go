// Package html passes already-HTML content through unchanged.
// Drive exports and converted Notion pages arrive here.
package html

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML content.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise passes the content through unchanged, substituting the empty
// placeholder for empty bodies.
func (n *Normaliser) Normalise(_ context.Context, raw *driven.RawContent) (*domain.ImportedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)
	if content == "" {
		content = domain.EmptyContentHTML
	}

	return &domain.ImportedContent{
		Name:           raw.Name,
		Content:        content,
		SourceMIMEType: raw.MIMEType,
	}, nil
}
