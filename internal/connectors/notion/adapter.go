// Package notion browses and fetches pages from a Notion workspace.
package notion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
	notionhtml "github.com/clauseworks/importkit/internal/normalisers/notion"
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter fetches pages from Notion.
type Adapter struct {
	rateLimiter *RateLimiter
	httpClient  *http.Client
	newAPI      func(accessToken string) pageAPI
}

// New creates a new Notion adapter.
func New() *Adapter {
	return &Adapter{
		rateLimiter: NewRateLimiter(),
		httpClient:  defaultHTTPClient(),
		newAPI:      newAPIClient,
	}
}

// Provider returns the provider identifier.
func (a *Adapter) Provider() domain.Provider {
	return domain.ProviderNotion
}

// List returns the pages the integration has been granted access to.
// Notion workspaces have no folder hierarchy, so the path is ignored and
// only the first search page (100 results) is returned.
func (a *Adapter) List(ctx context.Context, accessToken, _ string) ([]domain.BrowseEntry, error) {
	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := searchPages(ctx, a.httpClient, accessToken)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	entries := make([]domain.BrowseEntry, 0, len(resp.Results))
	for _, result := range resp.Results {
		page, ok := result.(*notionapi.Page)
		if !ok {
			continue
		}

		modified := page.LastEditedTime
		entries = append(entries, domain.BrowseEntry{
			Type:       domain.EntryTypeFile,
			ID:         string(page.ID),
			Name:       PageTitle(page),
			ModifiedAt: &modified,
		})
	}

	return entries, nil
}

// FetchContent retrieves a page and renders its block tree as HTML.
func (a *Adapter) FetchContent(ctx context.Context, accessToken, id string) (*driven.RawContent, error) {
	api := a.newAPI(accessToken)

	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := api.GetPage(ctx, notionapi.PageID(id))
	if err != nil {
		return nil, err
	}

	blocks, err := a.fetchAllBlocks(ctx, api, notionapi.BlockID(id))
	if err != nil {
		return nil, err
	}

	return &driven.RawContent{
		Name:     PageTitle(page),
		Content:  []byte(notionhtml.BlocksToHTML(blocks)),
		MIMEType: "text/html",
	}, nil
}

// fetchAllBlocks pages through all top-level blocks of a page.
func (a *Adapter) fetchAllBlocks(
	ctx context.Context, api pageAPI, blockID notionapi.BlockID,
) ([]notionapi.Block, error) {
	var blocks []notionapi.Block
	var cursor notionapi.Cursor

	for {
		if err := a.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := api.GetBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return blocks, nil
}

// PageTitle extracts the title from a page's properties.
func PageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if p, ok := prop.(*notionapi.TitleProperty); ok {
			return notionhtml.ExtractTitle(p.Title)
		}
	}
	return "Untitled"
}
