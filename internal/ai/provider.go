package ai

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewBackend builds the Backend named by pc.Provider.
func NewBackend(ctx context.Context, pc ProviderConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(pc.Provider)) {
	case ProviderGemini, "":
		return NewGemini(ctx, pc.APIKey, pc.Model, pc.BaseURL)
	case ProviderOpenRouter:
		return NewOpenRouter(pc.APIKey, pc.Model, pc.BaseURL, pc.Timeout)
	default:
		return nil, errors.Wrapf(ErrUnsupportedProvider, "%q", pc.Provider)
	}
}

// SupportsAttachments reports whether b can read PDF attachments (OCR).
func SupportsAttachments(b Backend) bool {
	_, ok := b.(*Gemini)
	return ok
}
