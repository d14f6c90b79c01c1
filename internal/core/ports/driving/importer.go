package driving

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// ImportOptions controls what ImportRemoteFile does with the fetched content.
type ImportOptions struct {
	// CreateDocument persists a document record when true. When false the
	// normalised content is returned without any writes (used to feed
	// downstream processes such as compliance checks).
	CreateDocument bool
	// DocumentType is the classification tag for the created document.
	// Defaults to "general" when empty.
	DocumentType string
	// UserID is the importing user, recorded on the document and audit event.
	UserID string
}

// ImportResult is the outcome of an import. Exactly one field is set:
// Content when no document was requested, Document when one was created.
type ImportResult struct {
	// Content is the normalised content (CreateDocument=false).
	Content *domain.ImportedContent `json:"content,omitempty"`
	// Document references the persisted record (CreateDocument=true).
	Document *domain.DocumentRef `json:"document,omitempty"`
}

// ImportService is the single entry point for browsing and importing remote
// provider content.
type ImportService interface {
	// ListRemoteEntries lists the browsable entries for an organization's
	// connection at the given provider path.
	ListRemoteEntries(ctx context.Context, orgID string, provider domain.Provider, path string) ([]domain.BrowseEntry, error)

	// ImportRemoteFile fetches and normalises one remote file, optionally
	// persisting a document record.
	ImportRemoteFile(ctx context.Context, orgID string, provider domain.Provider, fileID string, opts ImportOptions) (*ImportResult, error)
}
