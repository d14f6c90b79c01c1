// Package oauth performs OAuth token refresh against provider token endpoints.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure Refresher implements the interface.
var _ driven.TokenRefresher = (*Refresher)(nil)

// ClientCredentials holds the OAuth application credentials for one provider.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// Refresher exchanges refresh tokens for fresh access tokens using the
// refresh_token grant.
type Refresher struct {
	credentials map[domain.Provider]ClientCredentials
	httpClient  *http.Client
}

// NewRefresher creates a refresher with per-provider client credentials.
func NewRefresher(credentials map[domain.Provider]ClientCredentials) *Refresher {
	return &Refresher{
		credentials: credentials,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Refresh performs the refresh_token grant against the provider's token
// endpoint. Any failure is wrapped in ErrTokenRefreshFailed so callers can
// treat refresh failures uniformly.
func (r *Refresher) Refresh(
	ctx context.Context, provider domain.Provider, refreshToken string,
) (*domain.TokenGrant, error) {
	info, ok := domain.LookupProvider(provider)
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrTokenRefreshFailed, provider)
	}
	if !info.SupportsRefresh {
		return nil, fmt.Errorf("%w: %s does not issue refresh tokens", domain.ErrTokenRefreshFailed, provider)
	}

	creds, ok := r.credentials[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no client credentials configured for %s", domain.ErrTokenRefreshFailed, provider)
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", creds.ClientID)
	data.Set("client_secret", creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, info.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrTokenRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token request: %w", domain.ErrTokenRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%w: %s - %s", domain.ErrTokenRefreshFailed, errResp.Error, errResp.Description)
		}
		return nil, fmt.Errorf("%w: token request failed with status %d", domain.ErrTokenRefreshFailed, resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %w", domain.ErrTokenRefreshFailed, err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", domain.ErrTokenRefreshFailed)
	}

	return &domain.TokenGrant{
		AccessToken:  tokenResp.AccessToken,
		ExpiresIn:    tokenResp.ExpiresIn,
		RefreshToken: tokenResp.RefreshToken,
	}, nil
}
