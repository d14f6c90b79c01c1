package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauseworks/importkit/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testCredential(id, orgID string, provider domain.Provider) domain.IntegrationCredential {
	return domain.IntegrationCredential{
		ID:             id,
		OrganizationID: orgID,
		Provider:       provider,
		AccessToken:    "access-" + id,
		RefreshToken:   "refresh-" + id,
		Status:         domain.StatusConnected,
	}
}

func TestCredentialStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	expiry := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	cred := testCredential("c1", "org1", domain.ProviderDropbox)
	cred.TokenExpiresAt = &expiry

	require.NoError(t, creds.Save(ctx, cred))

	got, err := creds.GetByOrgAndProvider(ctx, "org1", domain.ProviderDropbox)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, domain.ProviderDropbox, got.Provider)
	assert.Equal(t, domain.StatusConnected, got.Status)
	assert.Equal(t, "access-c1", got.AccessToken)
	require.NotNil(t, got.TokenExpiresAt)
	assert.Equal(t, expiry, got.TokenExpiresAt.UTC())

	_, err = creds.GetByOrgAndProvider(ctx, "org1", domain.ProviderNotion)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialStore_SaveReplacesExistingPair(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Save(ctx, testCredential("c1", "org1", domain.ProviderDropbox)))
	require.NoError(t, creds.Save(ctx, testCredential("c2", "org1", domain.ProviderDropbox)))

	got, err := creds.GetByOrgAndProvider(ctx, "org1", domain.ProviderDropbox)
	require.NoError(t, err)
	assert.Equal(t, "c2", got.ID)
	assert.Equal(t, "access-c2", got.AccessToken)
}

func TestCredentialStore_UpdateTokens_PartialUpdate(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Save(ctx, testCredential("c1", "org1", domain.ProviderDropbox)))
	require.NoError(t, creds.RecordSync(ctx, "c1", time.Now().UTC()))

	expiry := time.Now().Add(4 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, creds.UpdateTokens(ctx, "c1", domain.TokenUpdate{
		AccessToken:    "new-access",
		TokenExpiresAt: &expiry,
	}))

	got, err := creds.GetByOrgAndProvider(ctx, "org1", domain.ProviderDropbox)
	require.NoError(t, err)
	assert.Equal(t, "new-access", got.AccessToken)
	// Refresh token kept, sync stats untouched.
	assert.Equal(t, "refresh-c1", got.RefreshToken)
	assert.Equal(t, 1, got.SyncedItemsCount)
}

func TestCredentialStore_UpdateTokens_RotatesRefreshToken(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Save(ctx, testCredential("c1", "org1", domain.ProviderDropbox)))

	rotated := "rotated"
	require.NoError(t, creds.UpdateTokens(ctx, "c1", domain.TokenUpdate{
		AccessToken:  "new-access",
		RefreshToken: &rotated,
	}))

	got, err := creds.GetByOrgAndProvider(ctx, "org1", domain.ProviderDropbox)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.RefreshToken)
	assert.Nil(t, got.TokenExpiresAt)
}

func TestCredentialStore_RecordSync(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Save(ctx, testCredential("c1", "org1", domain.ProviderDropbox)))

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, creds.RecordSync(ctx, "c1", at))
	require.NoError(t, creds.RecordSync(ctx, "c1", at.Add(time.Minute)))

	got, err := creds.GetByOrgAndProvider(ctx, "org1", domain.ProviderDropbox)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SyncedItemsCount)
	require.NotNil(t, got.LastSyncAt)
	assert.Equal(t, at.Add(time.Minute), got.LastSyncAt.UTC())
}

func TestCredentialStore_DeleteAndMissingRows(t *testing.T) {
	store := newTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Save(ctx, testCredential("c1", "org1", domain.ProviderDropbox)))
	require.NoError(t, creds.Delete(ctx, "c1"))

	assert.ErrorIs(t, creds.Delete(ctx, "c1"), domain.ErrNotFound)
	assert.ErrorIs(t, creds.RecordSync(ctx, "c1", time.Now()), domain.ErrNotFound)
	assert.ErrorIs(t, creds.UpdateTokens(ctx, "c1", domain.TokenUpdate{AccessToken: "x"}), domain.ErrNotFound)
}

func TestDocumentStore_Create(t *testing.T) {
	store := newTestStore(t)

	created, err := store.DocumentStore().Create(context.Background(), domain.Document{
		Title:          "Engagement Letter",
		Content:        "<p>body</p>",
		DocumentType:   "contract",
		Status:         domain.DocumentStatusDraft,
		OwnerID:        "user1",
		OrganizationID: "org1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestAuditLog_Append(t *testing.T) {
	store := newTestStore(t)

	err := store.AuditLog().Append(context.Background(), domain.AuditEvent{
		Action:         "document.imported",
		EntityType:     "document",
		EntityID:       "doc1",
		EntityName:     "Engagement Letter",
		OrganizationID: "org1",
		Metadata:       map[string]any{"provider": "dropbox"},
	})

	require.NoError(t, err)
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs the migration check again without error.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
