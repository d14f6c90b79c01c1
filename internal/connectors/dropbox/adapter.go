// Package dropbox browses and fetches files from Dropbox.
package dropbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter fetches files from Dropbox.
type Adapter struct {
	rateLimiter *RateLimiter
	newClient   func(accessToken string) files.Client
}

// New creates a new Dropbox adapter.
func New() *Adapter {
	return &Adapter{
		rateLimiter: NewRateLimiter(),
		newClient:   newFilesClient,
	}
}

// Provider returns the provider identifier.
func (a *Adapter) Provider() domain.Provider {
	return domain.ProviderDropbox
}

// List returns the entries of a folder. A path that no longer exists yields
// an empty listing rather than an error, so stale paths degrade gracefully.
func (a *Adapter) List(ctx context.Context, accessToken, folderPath string) ([]domain.BrowseEntry, error) {
	client := a.newClient(accessToken)

	arg := files.NewListFolderArg(normalisePath(folderPath))
	arg.Recursive = false
	arg.IncludeDeleted = false

	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := client.ListFolder(arg)
	if err != nil {
		if isPathNotFound(err) {
			return []domain.BrowseEntry{}, nil
		}
		if isUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
		}
		return nil, fmt.Errorf("list folder: %w", err)
	}

	entries := entriesFromMetadata(result.Entries)

	for result.HasMore {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := a.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err = client.ListFolderContinue(files.NewListFolderContinueArg(result.Cursor))
		if err != nil {
			if isUnauthorized(err) {
				return nil, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
			}
			return nil, fmt.Errorf("list folder continue: %w", err)
		}
		entries = append(entries, entriesFromMetadata(result.Entries)...)
	}

	return entries, nil
}

// FetchContent downloads a single file by its Dropbox file ID.
func (a *Adapter) FetchContent(ctx context.Context, accessToken, id string) (*driven.RawContent, error) {
	client := a.newClient(accessToken)

	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	metadata, reader, err := client.Download(files.NewDownloadArg(id))
	if err != nil {
		if isUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
		}
		return nil, fmt.Errorf("download: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(io.LimitReader(reader, MaxContentSize))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	return &driven.RawContent{
		Name:     metadata.Name,
		Content:  content,
		MIMEType: MIMETypeForName(metadata.Name),
	}, nil
}

// newFilesClient creates a Dropbox files client with the given access token.
func newFilesClient(accessToken string) files.Client {
	config := dropbox.Config{
		Token: accessToken,
	}
	return files.New(config)
}

// normalisePath maps the root path to the empty string the Dropbox API
// expects; any other path must start with a slash.
func normalisePath(folderPath string) string {
	if folderPath == "" || folderPath == "/" {
		return ""
	}
	if !strings.HasPrefix(folderPath, "/") {
		return "/" + folderPath
	}
	return folderPath
}

// isPathNotFound checks whether the error is the API's path lookup failure.
func isPathNotFound(err error) bool {
	if err == nil {
		return false
	}

	var apiErr files.ListFolderAPIError
	if errors.As(err, &apiErr) {
		return apiErr.EndpointError != nil && apiErr.EndpointError.Path != nil
	}

	// The SDK sometimes surfaces the raw API error string instead.
	return strings.Contains(err.Error(), "path/not_found")
}

// isUnauthorized checks whether the error is an access-token failure.
// The SDK reports these through the error summary, not a typed error the
// files client exposes.
func isUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "invalid_access_token") ||
		strings.Contains(msg, "expired_access_token")
}
