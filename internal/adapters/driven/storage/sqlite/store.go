// Package sqlite provides SQLite-backed store implementations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clauseworks/importkit/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// persistence ports through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".importkit")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "importkit.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CredentialStore returns a CredentialStore interface backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// AuditLog returns an AuditLog interface backed by this store.
func (s *Store) AuditLog() driven.AuditLog {
	return &auditLog{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Credential Store ====================

// credentialStore implements driven.CredentialStore.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Save creates or replaces a credential. The unique (organization, provider)
// index makes Save on an existing pair a full replacement.
func (s *credentialStore) Save(ctx context.Context, cred domain.IntegrationCredential) error {
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO integration_credentials
			(id, organization_id, provider, access_token, refresh_token,
			 token_expires_at, status, last_sync_at, synced_items_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(organization_id, provider) DO UPDATE SET
			id = excluded.id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expires_at = excluded.token_expires_at,
			status = excluded.status,
			last_sync_at = excluded.last_sync_at,
			synced_items_count = excluded.synced_items_count,
			updated_at = excluded.updated_at
	`, cred.ID, cred.OrganizationID, string(cred.Provider), cred.AccessToken,
		nullString(cred.RefreshToken), nullTime(cred.TokenExpiresAt), string(cred.Status),
		nullTime(cred.LastSyncAt), cred.SyncedItemsCount, cred.CreatedAt, cred.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// GetByOrgAndProvider retrieves the credential for an organization's
// connection to a provider.
func (s *credentialStore) GetByOrgAndProvider(
	ctx context.Context, orgID string, provider domain.Provider,
) (*domain.IntegrationCredential, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, organization_id, provider, access_token, refresh_token,
		       token_expires_at, status, last_sync_at, synced_items_count, created_at, updated_at
		FROM integration_credentials
		WHERE organization_id = ? AND provider = ?
	`, orgID, string(provider))

	var cred domain.IntegrationCredential
	var providerStr, statusStr string
	var refreshToken sql.NullString
	var tokenExpiresAt, lastSyncAt sql.NullTime

	err := row.Scan(&cred.ID, &cred.OrganizationID, &providerStr, &cred.AccessToken,
		&refreshToken, &tokenExpiresAt, &statusStr, &lastSyncAt,
		&cred.SyncedItemsCount, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning credential: %w", err)
	}

	cred.Provider = domain.Provider(providerStr)
	cred.Status = domain.CredentialStatus(statusStr)
	cred.RefreshToken = refreshToken.String
	if tokenExpiresAt.Valid {
		t := tokenExpiresAt.Time
		cred.TokenExpiresAt = &t
	}
	if lastSyncAt.Valid {
		t := lastSyncAt.Time
		cred.LastSyncAt = &t
	}

	return &cred, nil
}

// UpdateTokens applies a partial token update. Only token columns are
// touched so concurrent sync-stat updates are not clobbered.
func (s *credentialStore) UpdateTokens(ctx context.Context, id string, update domain.TokenUpdate) error {
	var result sql.Result
	var err error

	if update.RefreshToken != nil {
		result, err = s.store.db.ExecContext(ctx, `
			UPDATE integration_credentials
			SET access_token = ?, token_expires_at = ?, refresh_token = ?, updated_at = ?
			WHERE id = ?
		`, update.AccessToken, nullTime(update.TokenExpiresAt), *update.RefreshToken, time.Now().UTC(), id)
	} else {
		result, err = s.store.db.ExecContext(ctx, `
			UPDATE integration_credentials
			SET access_token = ?, token_expires_at = ?, updated_at = ?
			WHERE id = ?
		`, update.AccessToken, nullTime(update.TokenExpiresAt), time.Now().UTC(), id)
	}
	if err != nil {
		return fmt.Errorf("updating tokens: %w", err)
	}

	return requireRow(result)
}

// RecordSync bumps the synced-items count and last-sync time in one statement.
func (s *credentialStore) RecordSync(ctx context.Context, id string, at time.Time) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE integration_credentials
		SET synced_items_count = synced_items_count + 1, last_sync_at = ?, updated_at = ?
		WHERE id = ?
	`, at.UTC(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("recording sync: %w", err)
	}

	return requireRow(result)
}

// Delete removes a credential.
func (s *credentialStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM integration_credentials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}

	return requireRow(result)
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Create persists a new document.
func (s *documentStore) Create(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, document_type, status, owner_id, organization_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, doc.Content, doc.DocumentType, string(doc.Status),
		doc.OwnerID, doc.OrganizationID, doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	return &doc, nil
}

// ==================== Audit Log ====================

// auditLog implements driven.AuditLog.
type auditLog struct {
	store *Store
}

var _ driven.AuditLog = (*auditLog)(nil)

// Append records an audit event.
func (l *auditLog) Append(ctx context.Context, event domain.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var metadataJSON sql.NullString
	if len(event.Metadata) > 0 {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO audit_events
			(id, action, entity_type, entity_id, entity_name, organization_id, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Action, event.EntityType, event.EntityID, event.EntityName,
		event.OrganizationID, nullString(event.UserID), metadataJSON, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending audit event: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil time pointer to a SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// requireRow maps a zero-row update to ErrNotFound.
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
