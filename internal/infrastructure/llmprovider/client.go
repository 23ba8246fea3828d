package llmprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"split-server/internal/domain/llm"
)

// Client implements the llm.Provider interface against an OpenAI-compatible
// inference endpoint.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(token).
			SetTimeout(75 * time.Second),
	}
}

// CreateChatCompletion calls /chat/completions.
func (c *Client) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var completion llm.ChatCompletionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		Post("/chat/completions")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("llm api error: %s", resp.String())
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("llm api returned no choices")
	}
	return &completion, nil
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)
