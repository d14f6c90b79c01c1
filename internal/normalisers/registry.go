// Package normalisers converts provider-native content representations into
// the single normalised HTML form used downstream.
package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
	"github.com/clauseworks/importkit/internal/normalisers/docx"
	"github.com/clauseworks/importkit/internal/normalisers/html"
	"github.com/clauseworks/importkit/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry manages normaliser registrations and picks the best match per
// MIME type.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string][]driven.Normaliser
}

// NewRegistry creates a registry with the default normalisers.
func NewRegistry() *Registry {
	r := &Registry{
		byMIME: make(map[string][]driven.Normaliser),
	}

	r.Register(plaintext.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(docx.NewLegacy())

	return r
}

// Register adds a normaliser for all its supported MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mime := range n.SupportedMIMETypes() {
		r.byMIME[mime] = append(r.byMIME[mime], n)
		sort.SliceStable(r.byMIME[mime], func(i, j int) bool {
			return r.byMIME[mime][i].Priority() > r.byMIME[mime][j].Priority()
		})
	}
}

// Normalise converts raw content using the highest-priority normaliser
// registered for its MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *driven.RawContent) (*domain.ImportedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	candidates := r.byMIME[raw.MIMEType]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, raw.MIMEType)
	}

	return candidates[0].Normalise(ctx, raw)
}
