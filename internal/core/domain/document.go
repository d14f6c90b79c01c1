package domain

import "time"

// DocumentStatus is the lifecycle state of a persisted document.
type DocumentStatus string

const (
	// DocumentStatusDraft is the initial state of imported documents.
	DocumentStatusDraft DocumentStatus = "draft"
)

// Document is a persisted document record created from an import.
// Ownership of the wider document lifecycle (editing, compliance checks,
// publication) belongs to the surrounding application; the import core only
// creates rows in draft state.
type Document struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`
	// Title is the derived display title.
	Title string `json:"title"`
	// Content is the normalised HTML body.
	Content string `json:"content"`
	// DocumentType is a caller-supplied classification tag (e.g. "contract").
	DocumentType string `json:"document_type"`
	// Status is the lifecycle state.
	Status DocumentStatus `json:"status"`
	// OwnerID is the importing user.
	OwnerID string `json:"owner_id"`
	// OrganizationID is the owning organization.
	OrganizationID string `json:"organization_id"`
	// CreatedAt is when the document was created.
	CreatedAt time.Time `json:"created_at"`
}

// DocumentRef is the caller-facing reference to a persisted document.
type DocumentRef struct {
	// ID is the document identifier.
	ID string `json:"id"`
	// Title is the document title.
	Title string `json:"title"`
	// Status is the document lifecycle state.
	Status DocumentStatus `json:"status"`
}

// AuditEvent records a user-visible action for the organization's audit trail.
// Appends are fire-and-forget from the import core's perspective.
type AuditEvent struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`
	// Action is the event name (e.g. "document.imported").
	Action string `json:"action"`
	// EntityType is the affected entity kind (e.g. "document").
	EntityType string `json:"entity_type"`
	// EntityID is the affected entity identifier.
	EntityID string `json:"entity_id"`
	// EntityName is the affected entity's display name.
	EntityName string `json:"entity_name"`
	// OrganizationID is the owning organization.
	OrganizationID string `json:"organization_id"`
	// UserID is the acting user, where known.
	UserID string `json:"user_id,omitempty"`
	// Metadata carries event-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
	// CreatedAt is when the event was recorded.
	CreatedAt time.Time `json:"created_at"`
}
