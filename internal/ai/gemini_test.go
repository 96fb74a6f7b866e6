package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeminiComplete(t *testing.T) {
	paths := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"extracted words"}]}}]}`)
	}))
	t.Cleanup(server.Close)

	g, err := NewGemini(context.Background(), "key", "", server.URL)
	require.NoError(t, err)
	require.True(t, SupportsAttachments(g))

	out, err := g.Complete(context.Background(), Request{
		Flow:        FlowExtractText,
		Prompt:      "extract",
		Attachments: []Attachment{{MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}},
	})
	require.NoError(t, err)
	require.Equal(t, "extracted words", out)
	require.True(t, strings.HasSuffix(<-paths, defaultGeminiModel+":generateContent"))
}
