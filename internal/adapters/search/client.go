package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"campusblog/internal/core/post"
	searchPort "campusblog/internal/ports/search"

	"github.com/pkg/errors"
)

const defaultTimeout = 5 * time.Second

// Client talks to the external search-index collaborator over its REST
// surface (an Elasticsearch-compatible document API). The core only keeps
// the index in step and asks for matching ids; relevance lives on the other
// side of this boundary.
type Client struct {
	BaseURL    string
	Index      string
	HTTPClient *http.Client
}

func NewClient(baseURL, index string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Index:      index,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ searchPort.SearchIndexer = (*Client)(nil)

type document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Topic   string `json:"topic"`
	Author  string `json:"author"`
}

func (c *Client) IndexPost(ctx context.Context, p *post.Post) error {
	doc := document{Title: p.Title, Content: p.Content, Topic: p.Topic, Author: p.Author}
	url := fmt.Sprintf("%s/%s/_doc/%s", c.BaseURL, c.Index, p.ID.String())
	return c.do(ctx, http.MethodPut, url, doc, nil)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/%s/_doc/%s", c.BaseURL, c.Index, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "content"},
			},
		},
	}
	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	url := fmt.Sprintf("%s/%s/_search", c.BaseURL, c.Index)
	if err := c.do(ctx, http.MethodPost, url, body, &result); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling search index")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.Errorf("search index returned status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response")
		}
	}
	return nil
}

// Noop stands in when no search index is configured: indexing quietly does
// nothing and searching reports the collaborator as unavailable.
type Noop struct{}

var _ searchPort.SearchIndexer = (*Noop)(nil)

func (Noop) IndexPost(ctx context.Context, p *post.Post) error { return nil }

func (Noop) DeletePost(ctx context.Context, id string) error { return nil }

func (Noop) Search(ctx context.Context, query string) ([]string, error) {
	return nil, errors.New("no search index configured")
}
