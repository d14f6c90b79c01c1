package domain

import "time"

// EntryType distinguishes browsable folders from importable files.
type EntryType string

const (
	// EntryTypeFolder is a browsable container.
	EntryTypeFolder EntryType = "folder"
	// EntryTypeFile is an importable document.
	EntryTypeFile EntryType = "file"
)

// BrowseEntry is a transient projection of a remote file or folder.
// Entries are built fresh on every list call and never persisted.
type BrowseEntry struct {
	// Type is folder or file.
	Type EntryType `json:"type"`
	// ID is the provider-native identifier (file id, path, page id).
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Path is the provider path, where the provider has one.
	Path string `json:"path,omitempty"`
	// Size is the file size in bytes, where the provider reports one.
	Size int64 `json:"size,omitempty"`
	// ModifiedAt is the last modification time, where the provider reports one.
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}
