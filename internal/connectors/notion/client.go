package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jomei/notionapi"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// notionAPIVersion is the pinned Notion API version.
const notionAPIVersion = "2022-06-28"

// searchURL is the workspace search endpoint.
const searchURL = "https://api.notion.com/v1/search"

// pageSize is the search and block listing page size.
const pageSize = 100

// searchRequest is a custom struct for the Notion search API that properly
// handles filter serialisation with omitempty on all fields.
type searchRequest struct {
	Query       string           `json:"query,omitempty"`
	Filter      *searchFilter    `json:"filter,omitempty"`
	StartCursor notionapi.Cursor `json:"start_cursor,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}

// searchFilter is a custom struct with omitempty to avoid serialising empty values.
type searchFilter struct {
	Value    string `json:"value,omitempty"`
	Property string `json:"property,omitempty"`
}

// searchPages searches the workspace for pages the integration can see.
// Uses a custom HTTP implementation to avoid the notionapi library's
// SearchFilter serialisation issue where empty filter fields cause API errors.
func searchPages(
	ctx context.Context, httpClient *http.Client, accessToken string,
) (*notionapi.SearchResponse, error) {
	req := &searchRequest{
		Filter: &searchFilter{
			Value:    "page",
			Property: "object",
		},
		PageSize: pageSize,
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Notion-Version", notionAPIVersion)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Notion tokens never refresh; a 401 means the integration was revoked.
		return nil, fmt.Errorf("%w: search failed with status %d: %s",
			domain.ErrAuthExpired, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp notionapi.SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &searchResp, nil
}

// pageAPI is the slice of the Notion client the adapter uses.
type pageAPI interface {
	GetPage(ctx context.Context, pageID notionapi.PageID) (*notionapi.Page, error)
	GetBlockChildren(
		ctx context.Context, blockID notionapi.BlockID, startCursor notionapi.Cursor,
	) (*notionapi.GetChildrenResponse, error)
}

// apiClient wraps the notionapi client behind pageAPI.
type apiClient struct {
	client *notionapi.Client
}

func newAPIClient(accessToken string) pageAPI {
	return &apiClient{client: notionapi.NewClient(notionapi.Token(accessToken))}
}

func (c *apiClient) GetPage(ctx context.Context, pageID notionapi.PageID) (*notionapi.Page, error) {
	page, err := c.client.Page.Get(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", pageID, classifyError(err))
	}
	return page, nil
}

func (c *apiClient) GetBlockChildren(
	ctx context.Context, blockID notionapi.BlockID, startCursor notionapi.Cursor,
) (*notionapi.GetChildrenResponse, error) {
	pagination := &notionapi.Pagination{
		PageSize: pageSize,
	}
	if startCursor != "" {
		pagination.StartCursor = startCursor
	}

	resp, err := c.client.Block.GetChildren(ctx, blockID, pagination)
	if err != nil {
		return nil, fmt.Errorf("get block children %s: %w", blockID, classifyError(err))
	}
	return resp, nil
}

// classifyError maps the API's authorization failures to the domain sentinel
// so callers can prompt re-authorization instead of retrying.
func classifyError(err error) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
	}
	return err
}

// defaultHTTPClient is used for the custom search endpoint.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
