package dropbox

import (
	"path"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// MaxContentSize is the maximum file size to download (5MB).
const MaxContentSize = 5 * 1024 * 1024

// entriesFromMetadata converts a listing batch to browse entries.
// Deleted items and files without an importable extension are skipped.
func entriesFromMetadata(metadata []files.IsMetadata) []domain.BrowseEntry {
	entries := make([]domain.BrowseEntry, 0, len(metadata))
	for _, item := range metadata {
		switch e := item.(type) {
		case *files.FileMetadata:
			if !IsImportable(e.Name) {
				continue
			}
			modified := e.ServerModified
			entries = append(entries, domain.BrowseEntry{
				Type:       domain.EntryTypeFile,
				ID:         e.Id,
				Name:       e.Name,
				Path:       e.PathDisplay,
				Size:       int64(e.Size),
				ModifiedAt: &modified,
			})
		case *files.FolderMetadata:
			entries = append(entries, domain.BrowseEntry{
				Type: domain.EntryTypeFolder,
				ID:   e.Id,
				Name: e.Name,
				Path: e.PathDisplay,
			})
		}
	}
	return entries
}

// mimeTypes maps file extensions to MIME types.
var mimeTypes = map[string]string{
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".doc":      "application/msword",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// MIMETypeForName guesses MIME type from the file extension.
// Dropbox doesn't report MIME types, so the extension is all we have.
func MIMETypeForName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType
	}
	return "application/octet-stream"
}

// IsImportable reports whether the filename carries an extension a
// normaliser can handle.
func IsImportable(filename string) bool {
	_, ok := mimeTypes[strings.ToLower(path.Ext(filename))]
	return ok
}
