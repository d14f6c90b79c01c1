// Package drive browses and fetches files from Google Drive.
package drive

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/clauseworks/importkit/internal/connectors/google"
	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// pageSize is the listing page size.
const pageSize = 100

// listFields are the file fields requested from the Drive API.
const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"

// Adapter fetches documents from Google Drive.
type Adapter struct {
	rateLimiter *google.RateLimiter
	newService  func(ctx context.Context, accessToken string) (*drive.Service, error)
}

// New creates a new Google Drive adapter.
func New() *Adapter {
	return &Adapter{
		rateLimiter: google.NewRateLimiter(google.DefaultDriveLimits),
		newService:  newDriveService,
	}
}

// Provider returns the provider identifier.
func (a *Adapter) Provider() domain.Provider {
	return domain.ProviderGoogleDrive
}

// List returns the entries of a folder. The path is a Drive folder ID;
// the empty path lists the root folder.
func (a *Adapter) List(ctx context.Context, accessToken, folderPath string) ([]domain.BrowseEntry, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	folderID := folderPath
	if folderID == "" {
		folderID = "root"
	}

	var entries []domain.BrowseEntry
	var pageToken string

	for {
		if err := a.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		req := svc.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
			PageSize(pageSize).
			Fields(googleapi.Field(listFields))
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		result, err := req.Context(ctx).Do()
		if err != nil {
			if google.IsNotFound(err) {
				return []domain.BrowseEntry{}, nil
			}
			if google.IsUnauthorized(err) {
				return nil, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
			}
			a.noteRateLimit(err)
			return nil, fmt.Errorf("list files: %w", google.WrapError(err))
		}

		for _, file := range result.Files {
			if !isImportableMime(file.MimeType) {
				continue
			}
			entries = append(entries, entryFromFile(file))
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if entries == nil {
		entries = []domain.BrowseEntry{}
	}
	return entries, nil
}

// FetchContent retrieves a single file. Google Workspace documents are
// exported (Docs to HTML, Sheets and Slides to plain text); regular files
// are downloaded as stored.
func (a *Adapter) FetchContent(ctx context.Context, accessToken, id string) (*driven.RawContent, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	file, err := svc.Files.Get(id).Fields("id, name, mimeType, size").Context(ctx).Do()
	if err != nil {
		if google.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
		}
		a.noteRateLimit(err)
		return nil, fmt.Errorf("get file: %w", google.WrapError(err))
	}

	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	exportMime, resultMime, isWorkspaceFile := exportPlan(file.MimeType)
	if !isWorkspaceFile && !importableMimeTypes[file.MimeType] {
		return nil, &unsupportedFileTypeError{mimeType: file.MimeType}
	}

	var body io.ReadCloser
	if isWorkspaceFile {
		resp, err := svc.Files.Export(id, exportMime).Context(ctx).Download()
		if err != nil {
			a.noteRateLimit(err)
			return nil, fmt.Errorf("export file: %w", google.WrapError(err))
		}
		body = resp.Body
	} else {
		resp, err := svc.Files.Get(id).Context(ctx).Download()
		if err != nil {
			a.noteRateLimit(err)
			return nil, fmt.Errorf("download file: %w", google.WrapError(err))
		}
		body = resp.Body
		resultMime = file.MimeType
	}
	defer body.Close()

	content, err := io.ReadAll(io.LimitReader(body, MaxContentSize))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	return &driven.RawContent{
		Name:     file.Name,
		Content:  content,
		MIMEType: resultMime,
	}, nil
}

// noteRateLimit feeds provider 429s into the limiter's backoff window so
// subsequent calls wait out the Retry-After period.
func (a *Adapter) noteRateLimit(err error) {
	if google.IsRateLimited(err) {
		a.rateLimiter.RecordRateLimitError(google.RetryAfterSeconds(err))
	}
}

// newDriveService creates a Drive service bound to the given access token.
func newDriveService(ctx context.Context, accessToken string) (*drive.Service, error) {
	return google.NewDriveService(ctx, google.StaticTokenSource(accessToken))
}
