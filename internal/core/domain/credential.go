package domain

import "time"

// CredentialStatus is the connection state of an integration credential.
type CredentialStatus string

const (
	// StatusConnected means the organization has an active connection.
	StatusConnected CredentialStatus = "connected"
	// StatusDisconnected means the user disconnected the integration.
	StatusDisconnected CredentialStatus = "disconnected"
)

// RefreshMargin is the safety window before token expiry within which a
// token is treated as stale and refreshed before use.
const RefreshMargin = 5 * time.Minute

// IntegrationCredential is the stored OAuth token set for one organization's
// connection to one provider. At most one credential exists per
// (OrganizationID, Provider) pair.
type IntegrationCredential struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`
	// OrganizationID is the owning organization.
	OrganizationID string `json:"organization_id"`
	// Provider identifies the connected external system.
	Provider Provider `json:"provider"`

	// AccessToken is the bearer token for API access.
	// Non-empty while Status is StatusConnected.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	// Empty for providers that issue non-expiring tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenExpiresAt is when the access token expires.
	// Nil for non-expiring tokens.
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	// Status is the connection state.
	Status CredentialStatus `json:"status"`

	// LastSyncAt is when a document was last imported through this credential.
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	// SyncedItemsCount is the number of documents imported so far.
	SyncedItemsCount int `json:"synced_items_count"`

	// CreatedAt is when the credential was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the credential was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsConnected returns true if the credential is usable for API calls.
func (c *IntegrationCredential) IsConnected() bool {
	return c.Status == StatusConnected && c.AccessToken != ""
}

// IsStale reports whether the access token expires within RefreshMargin of
// now. Credentials without an expiry never go stale.
func (c *IntegrationCredential) IsStale(now time.Time) bool {
	if c.TokenExpiresAt == nil {
		return false
	}
	return c.TokenExpiresAt.Before(now.Add(RefreshMargin))
}

// HasRefreshToken returns true if a refresh token is available.
func (c *IntegrationCredential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// TokenUpdate is a partial update applied to a credential row after a
// successful token refresh. Only token fields are touched so concurrent
// sync-stat updates are not clobbered.
type TokenUpdate struct {
	// AccessToken is the new bearer token.
	AccessToken string
	// TokenExpiresAt is the new expiry instant.
	TokenExpiresAt *time.Time
	// RefreshToken replaces the stored refresh token only when non-nil
	// (providers rotate refresh tokens on some grants but not others).
	RefreshToken *string
}

// TokenGrant is the result of a token refresh call against a provider.
type TokenGrant struct {
	// AccessToken is the newly issued bearer token.
	AccessToken string `json:"access_token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
	// RefreshToken is set only when the provider rotated it.
	RefreshToken string `json:"refresh_token,omitempty"`
}
