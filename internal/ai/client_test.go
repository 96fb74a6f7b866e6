package ai

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	reply    string
	err      error
	requests []Request
}

func (f *fakeBackend) Complete(_ context.Context, req Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func TestGenerateNotesStripsFences(t *testing.T) {
	b := &fakeBackend{reply: "```markdown\n# Cells\n- **Mitochondria** make energy\n```"}
	notes, err := NewClient(b).GenerateNotes(context.Background(), "cell biology text")
	require.NoError(t, err)
	require.Equal(t, "# Cells\n- **Mitochondria** make energy", notes.Notes)
	require.Equal(t, notesProgress, notes.Progress)
	require.Len(t, b.requests, 1)
	require.Equal(t, FlowNotes, b.requests[0].Flow)
	require.Contains(t, b.requests[0].Prompt, "Document Text: cell biology text")
}

func TestCreateFlashcards(t *testing.T) {
	b := &fakeBackend{reply: "Here you go:\n{\"flashcards\":[{\"front\":\" H2O? \",\"back\":\"Water\"},{\"front\":\"\",\"back\":\"dropped\"}]}"}
	cards, err := NewClient(b).CreateFlashcards(context.Background(), "chemistry")
	require.NoError(t, err)
	require.Equal(t, []Flashcard{{Front: "H2O?", Back: "Water"}}, cards)
	require.True(t, b.requests[0].JSON)
}

func TestCreateFlashcardsEmptyIsGenerationError(t *testing.T) {
	b := &fakeBackend{reply: `{"flashcards":[]}`}
	_, err := NewClient(b).CreateFlashcards(context.Background(), "chemistry")
	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, FlowFlashcards, gerr.Flow)
	require.Equal(t, "Failed to generate flashcards. Please try again.", gerr.UserMessage())
}

func TestGenerateQuizReturnsRawText(t *testing.T) {
	raw := "```json\n{\"questions\":[]}\n```"
	b := &fakeBackend{reply: raw}
	got, err := NewClient(b).GenerateQuiz(context.Background(), "doc")
	require.NoError(t, err)
	require.Equal(t, raw, got)
	require.Contains(t, b.requests[0].Prompt, "exactly 4 distinct options")
}

func TestBackendFailureIsGenerationError(t *testing.T) {
	boom := errors.New("quota exceeded")
	b := &fakeBackend{err: boom}
	_, err := NewClient(b).GenerateQuiz(context.Background(), "doc")
	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, FlowQuiz, gerr.Flow)
	require.ErrorIs(t, err, boom)
}

func TestEmptyResponseIsGenerationError(t *testing.T) {
	b := &fakeBackend{reply: "   "}
	_, err := NewClient(b).ExplainAnswer(context.Background(), ExplainRequest{})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestExplainAnswerPrompt(t *testing.T) {
	b := &fakeBackend{reply: " Because 2+2 is 4. "}
	out, err := NewClient(b).ExplainAnswer(context.Background(), ExplainRequest{
		Question:      "What is 2+2?",
		Options:       []string{"3", "4", "5", "6"},
		UserAnswer:    "5",
		CorrectAnswer: "4",
	})
	require.NoError(t, err)
	require.Equal(t, "Because 2+2 is 4.", out)
	prompt := b.requests[0].Prompt
	require.Contains(t, prompt, "\"What is 2+2?\"")
	require.Contains(t, prompt, "- 3\n- 4\n- 5\n- 6\n")
	require.Contains(t, prompt, "The user answered: \"5\"")
	require.Contains(t, prompt, "The correct answer is: \"4\"")
}

func TestExtractTextSendsAttachment(t *testing.T) {
	b := &fakeBackend{reply: "page one text"}
	out, err := NewClient(b).ExtractText(context.Background(), "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "page one text", out)
	require.Equal(t, []Attachment{{MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}}, b.requests[0].Attachments)
}

func TestNewBackendRejectsUnknownProvider(t *testing.T) {
	_, err := NewBackend(context.Background(), ProviderConfig{Provider: "llama-local", APIKey: "k"})
	require.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = NewBackend(context.Background(), ProviderConfig{Provider: ProviderGemini})
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewBackend(context.Background(), ProviderConfig{Provider: ProviderOpenRouter, Model: "m"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
