// Package plaintext converts plain-text and markdown sources to HTML.
// Exact markdown rendering fidelity is not required: content is escaped and
// wrapped in paragraphs on blank-line boundaries.
package plaintext

import (
	"context"
	"strings"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain-text family content.
type Normaliser struct{}

// New creates a new plaintext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise escapes the text and wraps blank-line separated chunks in
// paragraph tags. Empty input yields the safe "<p></p>" placeholder.
func (n *Normaliser) Normalise(_ context.Context, raw *driven.RawContent) (*domain.ImportedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.ImportedContent{
		Name:           raw.Name,
		Content:        ToHTML(string(raw.Content)),
		SourceMIMEType: raw.MIMEType,
	}, nil
}

// ToHTML converts plain text to a minimal HTML fragment.
func ToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		escaped := EscapeHTML(chunk)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		paragraphs = append(paragraphs, "<p>"+escaped+"</p>")
	}

	if len(paragraphs) == 0 {
		return domain.EmptyContentHTML
	}
	return strings.Join(paragraphs, "\n")
}

// EscapeHTML escapes the three characters that matter in text content.
// The ampersand goes first so already-escaped entities are not double-broken.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
