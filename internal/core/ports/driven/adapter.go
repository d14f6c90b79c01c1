package driven

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// ProviderAdapter fetches browsable entries and raw content from one
// external provider. Each provider (dropbox, google-drive, notion)
// implements this interface.
//
// Adapters are stateless with respect to credentials: the access token is
// passed per call and clients are constructed per request, so one adapter
// instance serves every organization.
type ProviderAdapter interface {
	// Provider returns the provider this adapter serves.
	Provider() domain.Provider

	// List returns the browsable entries under path. The meaning of path is
	// provider-specific: a folder path for Dropbox ("" = root), a parent
	// folder id for Drive ("" = root), and ignored for Notion (workspace
	// search). A nonexistent path yields an empty list, not an error.
	List(ctx context.Context, accessToken, path string) ([]domain.BrowseEntry, error)

	// FetchContent downloads the raw content for a provider-native
	// identifier. Adapters that convert natively (Drive exports, Notion
	// blocks) return text/html content; others return raw bytes with a MIME
	// hint for the normaliser registry.
	FetchContent(ctx context.Context, accessToken, id string) (*RawContent, error)
}

// RawContent is provider content before normalisation.
type RawContent struct {
	// Name is the resolved source filename or page title.
	Name string

	// Content is the raw bytes (or already-converted HTML).
	Content []byte

	// MIMEType is the content type used to select a normaliser.
	MIMEType string
}
