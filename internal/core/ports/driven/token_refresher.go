package driven

import (
	"context"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// TokenRefresher exchanges a refresh token for a new access token at the
// provider's token endpoint. Client id/secret are process-wide configuration
// held by the implementation, not request state.
type TokenRefresher interface {
	// Refresh performs a refresh_token grant against the provider.
	// Returns domain.ErrTokenRefreshFailed (wrapped) on any non-2xx response.
	Refresh(ctx context.Context, provider domain.Provider, refreshToken string) (*domain.TokenGrant, error)
}
