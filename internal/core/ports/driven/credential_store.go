package driven

import (
	"context"
	"time"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// CredentialStore persists integration credentials.
//
// UpdateTokens and RecordSync are deliberately partial updates touching
// disjoint column sets, so a token refresh racing a sync-stat update cannot
// clobber the other's fields. Concurrent refreshes of the same credential
// are not serialised; last writer wins.
type CredentialStore interface {
	// Save creates or replaces a credential. At most one credential exists
	// per (organization, provider) pair; Save on an existing pair replaces it.
	Save(ctx context.Context, cred domain.IntegrationCredential) error

	// GetByOrgAndProvider retrieves the credential for an organization's
	// connection to a provider. Returns domain.ErrNotFound if none exists.
	GetByOrgAndProvider(ctx context.Context, orgID string, provider domain.Provider) (*domain.IntegrationCredential, error)

	// UpdateTokens applies a partial token update after a successful refresh.
	UpdateTokens(ctx context.Context, id string, update domain.TokenUpdate) error

	// RecordSync increments the credential's synced-items count by one and
	// sets the last-sync time.
	RecordSync(ctx context.Context, id string, at time.Time) error

	// Delete removes a credential.
	Delete(ctx context.Context, id string) error
}
