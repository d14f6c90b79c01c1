package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
	"github.com/clauseworks/importkit/internal/core/ports/driving"
	"github.com/clauseworks/importkit/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// DefaultDocumentType is used when the caller supplies no classification tag.
const DefaultDocumentType = "general"

// ImportService is the single entry point tying credentials, tokens,
// adapters and normalisers together. Each call is an independent
// request-response cycle: validate, refresh-if-needed, fetch, normalise,
// persist, strictly in that order.
type ImportService struct {
	credentials driven.CredentialStore
	tokens      *TokenService
	adapters    map[domain.Provider]driven.ProviderAdapter
	normalisers driven.NormaliserRegistry
	documents   driven.DocumentStore
	audit       driven.AuditLog
	now         func() time.Time
}

// NewImportService creates the import orchestrator. Adapters are registered
// by their Provider(); the provider set is closed, so plain map dispatch is
// used instead of an open registry.
func NewImportService(
	credentials driven.CredentialStore,
	tokens *TokenService,
	adapters []driven.ProviderAdapter,
	normalisers driven.NormaliserRegistry,
	documents driven.DocumentStore,
	audit driven.AuditLog,
) *ImportService {
	byProvider := make(map[domain.Provider]driven.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}

	return &ImportService{
		credentials: credentials,
		tokens:      tokens,
		adapters:    byProvider,
		normalisers: normalisers,
		documents:   documents,
		audit:       audit,
		now:         time.Now,
	}
}

// ListRemoteEntries lists the browsable entries for an organization's
// connection at the given provider path.
func (s *ImportService) ListRemoteEntries(
	ctx context.Context, orgID string, provider domain.Provider, path string,
) ([]domain.BrowseEntry, error) {
	adapter, _, token, err := s.resolve(ctx, orgID, provider)
	if err != nil {
		return nil, err
	}

	entries, err := adapter.List(ctx, token, path)
	if err != nil {
		if isClientFacing(err) {
			return nil, err
		}
		return nil, fmt.Errorf("list %s entries: %w", provider, err)
	}
	return entries, nil
}

// ImportRemoteFile fetches and normalises one remote file, optionally
// persisting a document record. No partial state is committed on failure:
// document creation, sync-stat updates and audit logging happen only after
// fetch and normalisation fully succeed.
func (s *ImportService) ImportRemoteFile(
	ctx context.Context, orgID string, provider domain.Provider, fileID string, opts driving.ImportOptions,
) (*driving.ImportResult, error) {
	adapter, cred, token, err := s.resolve(ctx, orgID, provider)
	if err != nil {
		return nil, err
	}

	raw, err := adapter.FetchContent(ctx, token, fileID)
	if err != nil {
		if isClientFacing(err) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch %s content: %w", provider, err)
	}

	content, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise content: %w", err)
	}
	content.Name = domain.DeriveTitle(content.Name)

	if !opts.CreateDocument {
		return &driving.ImportResult{Content: content}, nil
	}

	docType := opts.DocumentType
	if docType == "" {
		docType = DefaultDocumentType
	}

	doc, err := s.documents.Create(ctx, domain.Document{
		ID:             uuid.New().String(),
		Title:          content.Name,
		Content:        content.Content,
		DocumentType:   docType,
		Status:         domain.DocumentStatusDraft,
		OwnerID:        opts.UserID,
		OrganizationID: orgID,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if err := s.credentials.RecordSync(ctx, cred.ID, s.now()); err != nil {
		// The document exists; a lost stat update is not worth failing the import.
		lg := logger.For("importer")
		lg.Warn().Err(err).
			Str("credential_id", cred.ID).
			Msg("record sync stats failed")
	}

	s.appendAudit(ctx, orgID, provider, raw.Name, doc, opts.UserID)

	return &driving.ImportResult{
		Document: &domain.DocumentRef{
			ID:     doc.ID,
			Title:  doc.Title,
			Status: doc.Status,
		},
	}, nil
}

// isClientFacing reports whether an adapter error already carries a
// taxonomy sentinel whose message is returned to the caller verbatim.
// Wrapping those would leak the internal call-site prefix into 4xx bodies.
func isClientFacing(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedType) ||
		errors.Is(err, domain.ErrAuthExpired) ||
		errors.Is(err, domain.ErrNotFound)
}

// resolve validates the provider, loads the organization's credential and
// obtains a valid access token.
func (s *ImportService) resolve(
	ctx context.Context, orgID string, provider domain.Provider,
) (driven.ProviderAdapter, *domain.IntegrationCredential, string, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return nil, nil, "", fmt.Errorf("%w: unsupported provider %q", domain.ErrUnsupportedType, provider)
	}

	cred, err := s.credentials.GetByOrgAndProvider(ctx, orgID, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, "", fmt.Errorf("%w: %s", domain.ErrNotConnected, provider)
		}
		return nil, nil, "", fmt.Errorf("load credential: %w", err)
	}
	if !cred.IsConnected() {
		return nil, nil, "", fmt.Errorf("%w: %s", domain.ErrNotConnected, provider)
	}

	token, err := s.tokens.ValidAccessToken(ctx, cred)
	if err != nil {
		return nil, nil, "", err
	}

	return adapter, cred, token, nil
}

// appendAudit records the import in the audit trail. Append failures are
// logged, never returned.
func (s *ImportService) appendAudit(
	ctx context.Context, orgID string, provider domain.Provider, sourceName string, doc *domain.Document, userID string,
) {
	event := domain.AuditEvent{
		ID:             uuid.New().String(),
		Action:         "document.imported",
		EntityType:     "document",
		EntityID:       doc.ID,
		EntityName:     doc.Title,
		OrganizationID: orgID,
		UserID:         userID,
		Metadata: map[string]any{
			"provider":    string(provider),
			"source_name": sourceName,
		},
		CreatedAt: s.now(),
	}

	if err := s.audit.Append(ctx, event); err != nil {
		lg := logger.For("importer")
		lg.Warn().Err(err).
			Str("document_id", doc.ID).
			Msg("audit append failed")
	}
}
