package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
	"github.com/clauseworks/importkit/internal/logger"
)

// TokenService guarantees that adapter calls receive a currently-valid
// access token, refreshing stale tokens transparently.
type TokenService struct {
	store     driven.CredentialStore
	refresher driven.TokenRefresher
	now       func() time.Time
}

// NewTokenService creates a token service.
func NewTokenService(store driven.CredentialStore, refresher driven.TokenRefresher) *TokenService {
	return &TokenService{
		store:     store,
		refresher: refresher,
		now:       time.Now,
	}
}

// ValidAccessToken returns a usable access token for the credential.
//
// A token more than domain.RefreshMargin from expiry is returned unchanged
// with no network call. A stale token with a refresh token is refreshed and
// the credential row updated (partial update; concurrent refreshes are an
// accepted last-writer-wins race). A stale token without a refresh token is
// returned as-is; the provider rejects it if truly invalid.
//
// Returns domain.ErrAuthExpired when the refresh call fails, so callers can
// prompt re-authorization instead of retrying.
func (s *TokenService) ValidAccessToken(ctx context.Context, cred *domain.IntegrationCredential) (string, error) {
	now := s.now()
	if !cred.IsStale(now) {
		return cred.AccessToken, nil
	}

	if !cred.HasRefreshToken() {
		// Long-lived token provider (e.g. Notion); nothing to refresh.
		return cred.AccessToken, nil
	}

	grant, err := s.refresher.Refresh(ctx, cred.Provider, cred.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
	}

	expiresAt := now.Add(time.Duration(grant.ExpiresIn) * time.Second)
	update := domain.TokenUpdate{
		AccessToken:    grant.AccessToken,
		TokenExpiresAt: &expiresAt,
	}
	if grant.RefreshToken != "" {
		// Provider rotated the refresh token; keep the stored one otherwise.
		update.RefreshToken = &grant.RefreshToken
	}

	if err := s.store.UpdateTokens(ctx, cred.ID, update); err != nil {
		return "", fmt.Errorf("save refreshed tokens: %w", err)
	}

	// Keep the in-memory credential current for the rest of the request.
	cred.AccessToken = grant.AccessToken
	cred.TokenExpiresAt = &expiresAt
	if update.RefreshToken != nil {
		cred.RefreshToken = *update.RefreshToken
	}

	log := logger.For("tokens")
	log.Debug().
		Str("provider", string(cred.Provider)).
		Str("organization_id", cred.OrganizationID).
		Time("expires_at", expiresAt).
		Msg("access token refreshed")

	return grant.AccessToken, nil
}
