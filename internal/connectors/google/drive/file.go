package drive

import (
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeHTML = "text/html"
	ExportMimeText = "text/plain"
)

// MaxContentSize is the maximum size for fetched content (5MB).
const MaxContentSize = 5 * 1024 * 1024

// importableMimeTypes are the regular-file MIME types a normaliser can
// handle. Workspace documents are handled separately via export.
var importableMimeTypes = map[string]bool{
	"text/plain":         true,
	"text/markdown":      true,
	"text/html":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// unsupportedFileTypeError carries the client-facing message for a fetch of
// a MIME type no normaliser handles, while still matching
// domain.ErrUnsupportedType for status mapping.
type unsupportedFileTypeError struct {
	mimeType string
}

func (e *unsupportedFileTypeError) Error() string {
	return "Unsupported file type: " + e.mimeType
}

func (e *unsupportedFileTypeError) Unwrap() error {
	return domain.ErrUnsupportedType
}

// isImportableMime reports whether a listed file can be imported: folders
// (browsable), Workspace documents (exportable) and the text/word formats
// the normalisers handle.
func isImportableMime(mimeType string) bool {
	if mimeType == MimeTypeFolder || importableMimeTypes[mimeType] {
		return true
	}
	_, _, isWorkspaceFile := exportPlan(mimeType)
	return isWorkspaceFile
}

// entryFromFile converts a Drive file to a browse entry. Drive has no real
// paths, so the file ID doubles as the path.
func entryFromFile(file *drive.File) domain.BrowseEntry {
	entry := domain.BrowseEntry{
		Type: domain.EntryTypeFile,
		ID:   file.Id,
		Name: file.Name,
		Path: file.Id,
		Size: file.Size,
	}

	if file.MimeType == MimeTypeFolder {
		entry.Type = domain.EntryTypeFolder
		entry.Size = 0
	}

	if file.ModifiedTime != "" {
		if modified, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
			entry.ModifiedAt = &modified
		}
	}

	return entry
}

// exportPlan decides how a file's content is fetched. Workspace documents
// must be exported; the returned result MIME type is the type of the
// exported content.
func exportPlan(mimeType string) (exportMime, resultMime string, isWorkspaceFile bool) {
	switch mimeType {
	case MimeTypeGoogleDoc:
		return ExportMimeHTML, ExportMimeHTML, true
	case MimeTypeGoogleSheet, MimeTypeGoogleSlides:
		return ExportMimeText, ExportMimeText, true
	default:
		return "", "", false
	}
}
