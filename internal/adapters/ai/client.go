package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	aiPort "campusblog/internal/ports/ai"

	"github.com/pkg/errors"
)

const (
	defaultTimeout = 15 * time.Second
	defaultModel   = "gpt-3.5-turbo"
)

// Client talks to the external completion-service collaborator over an
// OpenAI-compatible chat completions endpoint.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      defaultModel,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ aiPort.ReplyGenerator = (*Client)(nil)

func (c *Client) GenerateReply(ctx context.Context, prompt, tone string) (string, error) {
	if tone != "" {
		prompt += " Respond in a " + tone + " tone."
	} else {
		prompt += " Be concise and avoid extra details."
	}

	payload, err := json.Marshal(map[string]interface{}{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling completion service")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", errors.Errorf("completion service returned status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "decoding response")
	}
	if len(result.Choices) == 0 {
		return "", errors.New("completion service returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// Disabled stands in when no completion service is configured.
type Disabled struct{}

var _ aiPort.ReplyGenerator = (*Disabled)(nil)

func (Disabled) GenerateReply(ctx context.Context, prompt, tone string) (string, error) {
	return "", errors.New("no completion service configured")
}
