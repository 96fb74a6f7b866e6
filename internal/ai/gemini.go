package ai

import (
	"context"
	"log"

	"github.com/pkg/errors"
	genai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini is a Backend over the Gemini API. It accepts PDF attachments, so it
// can also serve as the OCR fallback for scanned documents.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini backend. baseURL is optional and only used to
// point the client at a proxy or a test server.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "gemini: set GOOGLE_API_KEY")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "gemini: new client")
	}
	return &Gemini{client: c, model: model}, nil
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	for _, a := range req.Attachments {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: a.MIMEType, Data: a.Data}})
	}
	content := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	var cfg *genai.GenerateContentConfig
	if req.JSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, content, cfg)
	if err != nil {
		return "", errors.Wrap(err, "gemini API call failed")
	}
	text := res.Text()
	log.Printf("gemini: %s response, %d bytes", req.Flow, len(text))
	return text, nil
}
