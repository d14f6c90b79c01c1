package dropbox

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// fakeFilesClient overrides the handful of calls the adapter makes.
type fakeFilesClient struct {
	files.Client

	listResult  *files.ListFolderResult
	listErr     error
	listArg     *files.ListFolderArg
	downloadRes *files.FileMetadata
	downloadErr error
	content     string
}

func (f *fakeFilesClient) ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error) {
	f.listArg = arg
	return f.listResult, f.listErr
}

func (f *fakeFilesClient) Download(_ *files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error) {
	if f.downloadErr != nil {
		return nil, nil, f.downloadErr
	}
	return f.downloadRes, io.NopCloser(strings.NewReader(f.content)), nil
}

func newFakeAdapter(fake *fakeFilesClient) *Adapter {
	a := New()
	a.newClient = func(string) files.Client { return fake }
	return a
}

func TestAdapter_Provider(t *testing.T) {
	assert.Equal(t, domain.ProviderDropbox, New().Provider())
}

func TestAdapter_List(t *testing.T) {
	modified := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeFilesClient{
		listResult: &files.ListFolderResult{
			Entries: []files.IsMetadata{
				&files.FolderMetadata{
					Metadata: files.Metadata{Name: "Contracts", PathDisplay: "/Contracts"},
					Id:       "id:folder1",
				},
				&files.FileMetadata{
					Metadata:       files.Metadata{Name: "notes.txt", PathDisplay: "/notes.txt"},
					Id:             "id:file1",
					Size:           42,
					ServerModified: modified,
				},
				&files.FileMetadata{
					Metadata: files.Metadata{Name: "scan.png", PathDisplay: "/scan.png"},
					Id:       "id:file2",
				},
			},
		},
	}

	entries, err := newFakeAdapter(fake).List(context.Background(), "token", "/")

	require.NoError(t, err)
	// The png has no importable extension and is filtered out.
	require.Len(t, entries, 2)

	assert.Equal(t, domain.EntryTypeFolder, entries[0].Type)
	assert.Equal(t, "id:folder1", entries[0].ID)
	assert.Equal(t, "/Contracts", entries[0].Path)

	assert.Equal(t, domain.EntryTypeFile, entries[1].Type)
	assert.Equal(t, "notes.txt", entries[1].Name)
	assert.Equal(t, int64(42), entries[1].Size)
	require.NotNil(t, entries[1].ModifiedAt)
	assert.Equal(t, modified, *entries[1].ModifiedAt)

	// Root must be requested as the empty string.
	assert.Equal(t, "", fake.listArg.Path)
}

func TestAdapter_List_MissingPathYieldsEmptyListing(t *testing.T) {
	fake := &fakeFilesClient{
		listErr: files.ListFolderAPIError{
			EndpointError: &files.ListFolderError{Path: &files.LookupError{}},
		},
	}

	entries, err := newFakeAdapter(fake).List(context.Background(), "token", "/gone")

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdapter_List_ProviderErrorPropagates(t *testing.T) {
	fake := &fakeFilesClient{listErr: errors.New("too_many_requests")}

	_, err := newFakeAdapter(fake).List(context.Background(), "token", "/docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list folder")
}

func TestAdapter_List_ExpiredTokenIsAuthExpired(t *testing.T) {
	fake := &fakeFilesClient{listErr: errors.New("expired_access_token/...")}

	_, err := newFakeAdapter(fake).List(context.Background(), "token", "/docs")

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestAdapter_FetchContent_ExpiredTokenIsAuthExpired(t *testing.T) {
	fake := &fakeFilesClient{downloadErr: errors.New("invalid_access_token/...")}

	_, err := newFakeAdapter(fake).FetchContent(context.Background(), "token", "id:file1")

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestAdapter_FetchContent(t *testing.T) {
	fake := &fakeFilesClient{
		downloadRes: &files.FileMetadata{
			Metadata: files.Metadata{Name: "brief.md"},
		},
		content: "# Brief",
	}

	raw, err := newFakeAdapter(fake).FetchContent(context.Background(), "token", "id:file1")

	require.NoError(t, err)
	assert.Equal(t, "brief.md", raw.Name)
	assert.Equal(t, []byte("# Brief"), raw.Content)
	assert.Equal(t, "text/markdown", raw.MIMEType)
}

func TestNormalisePath(t *testing.T) {
	assert.Equal(t, "", normalisePath(""))
	assert.Equal(t, "", normalisePath("/"))
	assert.Equal(t, "/docs", normalisePath("/docs"))
	assert.Equal(t, "/docs", normalisePath("docs"))
}

func TestMIMETypeForName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"notes.txt", "text/plain"},
		{"README.MD", "text/markdown"},
		{"page.html", "text/html"},
		{"old.doc", "application/msword"},
		{"new.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"image.png", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MIMETypeForName(tt.filename), tt.filename)
	}
}

func TestIsImportable(t *testing.T) {
	assert.True(t, IsImportable("brief.DOCX"))
	assert.True(t, IsImportable("notes.md"))
	assert.False(t, IsImportable("scan.png"))
	assert.False(t, IsImportable("noextension"))
}

func TestIsUnauthorized(t *testing.T) {
	assert.False(t, isUnauthorized(nil))
	assert.False(t, isUnauthorized(errors.New("too_many_requests")))
	assert.True(t, isUnauthorized(errors.New("expired_access_token/")))
	assert.True(t, isUnauthorized(errors.New("invalid_access_token/")))
}

func TestIsPathNotFound(t *testing.T) {
	assert.False(t, isPathNotFound(nil))
	assert.False(t, isPathNotFound(errors.New("network down")))
	assert.True(t, isPathNotFound(errors.New("path/not_found/...")))
	assert.True(t, isPathNotFound(files.ListFolderAPIError{
		EndpointError: &files.ListFolderError{Path: &files.LookupError{}},
	}))
	assert.False(t, isPathNotFound(files.ListFolderAPIError{
		EndpointError: &files.ListFolderError{},
	}))
}
