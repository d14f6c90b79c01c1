package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"

	"github.com/clauseworks/importkit/internal/core/domain"
)

func TestEntryFromFile(t *testing.T) {
	file := &drive.File{
		Id:           "file123",
		Name:         "agreement.docx",
		MimeType:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:         2048,
		ModifiedTime: "2025-04-10T09:30:00Z",
	}

	entry := entryFromFile(file)

	assert.Equal(t, domain.EntryTypeFile, entry.Type)
	assert.Equal(t, "file123", entry.ID)
	assert.Equal(t, "agreement.docx", entry.Name)
	assert.Equal(t, int64(2048), entry.Size)
	require.NotNil(t, entry.ModifiedAt)
	assert.Equal(t, time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC), *entry.ModifiedAt)
}

func TestEntryFromFile_Folder(t *testing.T) {
	file := &drive.File{
		Id:       "folder456",
		Name:     "Case Files",
		MimeType: MimeTypeFolder,
		Size:     1, // Drive sometimes reports a size for folders
	}

	entry := entryFromFile(file)

	assert.Equal(t, domain.EntryTypeFolder, entry.Type)
	assert.Equal(t, int64(0), entry.Size)
	assert.Nil(t, entry.ModifiedAt)
}

func TestEntryFromFile_BadModifiedTime(t *testing.T) {
	entry := entryFromFile(&drive.File{Id: "f", Name: "x", ModifiedTime: "not-a-time"})
	assert.Nil(t, entry.ModifiedAt)
}

func TestIsImportableMime(t *testing.T) {
	importable := []string{
		MimeTypeFolder,
		MimeTypeGoogleDoc,
		MimeTypeGoogleSheet,
		"text/plain",
		"text/html",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, mime := range importable {
		assert.True(t, isImportableMime(mime), mime)
	}

	assert.False(t, isImportableMime("application/pdf"))
	assert.False(t, isImportableMime("image/png"))
	assert.False(t, isImportableMime("video/mp4"))
}

func TestExportPlan(t *testing.T) {
	tests := []struct {
		mimeType    string
		exportMime  string
		resultMime  string
		isWorkspace bool
	}{
		{MimeTypeGoogleDoc, ExportMimeHTML, ExportMimeHTML, true},
		{MimeTypeGoogleSheet, ExportMimeText, ExportMimeText, true},
		{MimeTypeGoogleSlides, ExportMimeText, ExportMimeText, true},
		{"text/plain", "", "", false},
		{"application/pdf", "", "", false},
	}

	for _, tt := range tests {
		exportMime, resultMime, isWorkspace := exportPlan(tt.mimeType)
		assert.Equal(t, tt.exportMime, exportMime, tt.mimeType)
		assert.Equal(t, tt.resultMime, resultMime, tt.mimeType)
		assert.Equal(t, tt.isWorkspace, isWorkspace, tt.mimeType)
	}
}
