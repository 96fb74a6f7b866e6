package ai

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter is a text-only Backend over an OpenAI-compatible chat completions API.
type OpenRouter struct {
	client *req.Client
	model  string
}

func NewOpenRouter(apiKey, model, baseURL string, timeout time.Duration) (*OpenRouter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "openrouter: set OPENROUTER_API_KEY")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("openrouter: model is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	c := req.C().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetCommonBearerAuthToken(apiKey).
		SetCommonHeader("Accept", "application/json").
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &OpenRouter{client: c, model: model}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenRouter) Complete(ctx context.Context, r Request) (string, error) {
	if len(r.Attachments) > 0 {
		return "", ErrAttachmentsUnsupported
	}
	body := chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: r.Prompt}},
	}
	if r.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out chatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(&body).
		SetSuccessResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", errors.Wrap(err, "openrouter request failed")
	}
	if !resp.IsSuccessState() {
		return "", errors.Errorf("openrouter error: status %d: %s", resp.GetStatusCode(), strings.TrimSpace(resp.String()))
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}
