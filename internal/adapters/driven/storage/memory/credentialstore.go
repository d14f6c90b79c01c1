// Package memory provides in-memory store implementations for tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]domain.IntegrationCredential
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]domain.IntegrationCredential),
	}
}

// Save creates or replaces a credential. An existing credential for the same
// (organization, provider) pair is replaced.
func (s *CredentialStore) Save(_ context.Context, cred domain.IntegrationCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.creds {
		if existing.OrganizationID == cred.OrganizationID && existing.Provider == cred.Provider && id != cred.ID {
			delete(s.creds, id)
		}
	}

	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	s.creds[cred.ID] = cred
	return nil
}

// GetByOrgAndProvider retrieves the credential for an organization's
// connection to a provider.
func (s *CredentialStore) GetByOrgAndProvider(
	_ context.Context, orgID string, provider domain.Provider,
) (*domain.IntegrationCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cred := range s.creds {
		if cred.OrganizationID == orgID && cred.Provider == provider {
			copied := cred
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdateTokens applies a partial token update.
func (s *CredentialStore) UpdateTokens(_ context.Context, id string, update domain.TokenUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[id]
	if !ok {
		return domain.ErrNotFound
	}

	cred.AccessToken = update.AccessToken
	cred.TokenExpiresAt = update.TokenExpiresAt
	if update.RefreshToken != nil {
		cred.RefreshToken = *update.RefreshToken
	}
	cred.UpdatedAt = time.Now().UTC()

	s.creds[id] = cred
	return nil
}

// RecordSync bumps the synced-items count and last-sync time.
func (s *CredentialStore) RecordSync(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[id]
	if !ok {
		return domain.ErrNotFound
	}

	cred.SyncedItemsCount++
	cred.LastSyncAt = &at
	cred.UpdatedAt = time.Now().UTC()

	s.creds[id] = cred
	return nil
}

// Delete removes a credential.
func (s *CredentialStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.creds[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.creds, id)
	return nil
}
