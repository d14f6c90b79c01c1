package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauseworks/importkit/internal/core/domain"
)

// cannedTransport serves a fixed response for every request and records the
// last request seen.
type cannedTransport struct {
	status  int
	body    string
	lastReq *http.Request
	lastBdy []byte
}

func (t *cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.lastReq = req
	if req.Body != nil {
		t.lastBdy, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(t.body))),
		Header:     make(http.Header),
	}, nil
}

type fakePageAPI struct {
	page   *notionapi.Page
	blocks []notionapi.Block
}

func (f *fakePageAPI) GetPage(_ context.Context, _ notionapi.PageID) (*notionapi.Page, error) {
	return f.page, nil
}

func (f *fakePageAPI) GetBlockChildren(
	_ context.Context, _ notionapi.BlockID, _ notionapi.Cursor,
) (*notionapi.GetChildrenResponse, error) {
	return &notionapi.GetChildrenResponse{Results: f.blocks}, nil
}

func titledPage(id, title string) *notionapi.Page {
	return &notionapi.Page{
		ID:             notionapi.ObjectID(id),
		LastEditedTime: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC),
		Properties: notionapi.Properties{
			"title": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: title}},
			},
		},
	}
}

func TestAdapter_Provider(t *testing.T) {
	assert.Equal(t, domain.ProviderNotion, New().Provider())
}

func TestAdapter_List(t *testing.T) {
	searchBody, err := json.Marshal(map[string]any{
		"object": "list",
		"results": []map[string]any{
			{
				"object":           "page",
				"id":               "page-1",
				"last_edited_time": "2025-05-02T08:00:00Z",
				"properties": map[string]any{
					"title": map[string]any{
						"id":   "title",
						"type": "title",
						"title": []map[string]any{
							{"type": "text", "plain_text": "Engagement Letter"},
						},
					},
				},
			},
		},
		"has_more": false,
	})
	require.NoError(t, err)

	transport := &cannedTransport{status: http.StatusOK, body: string(searchBody)}
	adapter := New()
	adapter.httpClient = &http.Client{Transport: transport}

	entries, err := adapter.List(context.Background(), "secret-token", "")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryTypeFile, entries[0].Type)
	assert.Equal(t, "page-1", entries[0].ID)
	assert.Equal(t, "Engagement Letter", entries[0].Name)

	// The request must carry the auth token, the pinned API version, and a
	// page filter.
	assert.Equal(t, "Bearer secret-token", transport.lastReq.Header.Get("Authorization"))
	assert.Equal(t, notionAPIVersion, transport.lastReq.Header.Get("Notion-Version"))
	assert.Contains(t, string(transport.lastBdy), `"value":"page"`)
	assert.Contains(t, string(transport.lastBdy), `"property":"object"`)
}

func TestAdapter_List_SearchFailure(t *testing.T) {
	adapter := New()
	adapter.httpClient = &http.Client{
		Transport: &cannedTransport{status: http.StatusServiceUnavailable, body: "{}"},
	}

	_, err := adapter.List(context.Background(), "token", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestAdapter_List_RevokedTokenIsAuthExpired(t *testing.T) {
	adapter := New()
	adapter.httpClient = &http.Client{
		Transport: &cannedTransport{
			status: http.StatusUnauthorized,
			body:   `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`,
		},
	}

	_, err := adapter.List(context.Background(), "revoked-token", "")

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestClassifyError(t *testing.T) {
	revoked := &notionapi.Error{Status: http.StatusUnauthorized, Code: "unauthorized"}
	assert.ErrorIs(t, classifyError(revoked), domain.ErrAuthExpired)

	rateLimited := &notionapi.Error{Status: http.StatusTooManyRequests}
	assert.NotErrorIs(t, classifyError(rateLimited), domain.ErrAuthExpired)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classifyError(plain))
}

func TestAdapter_FetchContent(t *testing.T) {
	fake := &fakePageAPI{
		page: titledPage("page-1", "Title"),
		blocks: []notionapi.Block{
			&notionapi.Heading1Block{Heading1: notionapi.Heading{
				RichText: []notionapi.RichText{{PlainText: "Title"}},
			}},
			&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{{
					PlainText:   "Hello",
					Annotations: &notionapi.Annotations{Bold: true},
				}},
			}},
		},
	}

	adapter := New()
	adapter.newAPI = func(string) pageAPI { return fake }

	raw, err := adapter.FetchContent(context.Background(), "token", "page-1")

	require.NoError(t, err)
	assert.Equal(t, "Title", raw.Name)
	assert.Equal(t, "text/html", raw.MIMEType)
	assert.Equal(t, "<h1>Title</h1>\n<p><strong>Hello</strong></p>", string(raw.Content))
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "My Page", PageTitle(titledPage("id", "My Page")))
	assert.Equal(t, "Untitled", PageTitle(&notionapi.Page{Properties: notionapi.Properties{}}))
}
