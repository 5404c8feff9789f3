package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/PabloGalante/spiralite/internal/domain"
)

const (
	DefaultCompletionURL = "https://toolkit.rork.com/text/llm/"
	defaultTimeout       = 60 * time.Second
)

// ToolkitClient posts the chat payload to a plain completion endpoint that
// answers with {"completion": "..."}. It makes exactly one attempt.
type ToolkitClient struct {
	url  string
	http *resty.Client
}

type completionRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// NewToolkitClient creates a completer for url. An empty url selects
// DefaultCompletionURL.
func NewToolkitClient(url string, timeout time.Duration) *ToolkitClient {
	if url == "" {
		url = DefaultCompletionURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &ToolkitClient{url: url, http: client}
}

// Complete implements domain.Completer.
func (c *ToolkitClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(completionRequest{Messages: messages}).
		Post(c.url)
	if err != nil {
		return "", &domain.NetworkError{Reason: "completion request failed", Err: err}
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return "", &domain.NetworkError{
			Status: resp.StatusCode(),
			Reason: "completion endpoint returned an error",
		}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return "", &domain.NetworkError{
			Status: resp.StatusCode(),
			Reason: "completion response is not JSON",
		}
	}

	completion := gjson.GetBytes(body, "completion")
	if completion.Type != gjson.String || completion.Str == "" {
		return "", &domain.NetworkError{
			Status: resp.StatusCode(),
			Reason: "completion response has no completion",
			Err:    fmt.Errorf("completion field is %s", completion.Type),
		}
	}

	return completion.Str, nil
}
