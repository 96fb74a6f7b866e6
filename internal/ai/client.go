package ai

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/thywilljoshua/docu-learn/internal/quiz"
)

const notesProgress = "Generated a summary of the document and extracted key notes."

// Client runs the study flows against a Backend. It implements Generator.
type Client struct {
	backend Backend
}

func NewClient(b Backend) *Client {
	return &Client{backend: b}
}

func (c *Client) complete(ctx context.Context, req Request) (string, error) {
	out, err := c.backend.Complete(ctx, req)
	if err != nil {
		return "", generationFailed(req.Flow, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", generationFailed(req.Flow, ErrEmptyResponse)
	}
	return out, nil
}

func (c *Client) ExtractText(ctx context.Context, mimeType string, data []byte) (string, error) {
	prompt, err := render(extractTextPrompt, nil)
	if err != nil {
		return "", generationFailed(FlowExtractText, err)
	}
	out, err := c.complete(ctx, Request{
		Flow:        FlowExtractText,
		Prompt:      prompt,
		Attachments: []Attachment{{MIMEType: mimeType, Data: data}},
	})
	if err != nil {
		return "", err
	}
	return quiz.StripCodeFences(out), nil
}

func (c *Client) GenerateNotes(ctx context.Context, documentText string) (Notes, error) {
	prompt, err := render(notesPrompt, documentInput{DocumentText: documentText})
	if err != nil {
		return Notes{}, generationFailed(FlowNotes, err)
	}
	out, err := c.complete(ctx, Request{Flow: FlowNotes, Prompt: prompt})
	if err != nil {
		return Notes{}, err
	}
	return Notes{Notes: quiz.StripCodeFences(out), Progress: notesProgress}, nil
}

func (c *Client) CreateFlashcards(ctx context.Context, documentText string) ([]Flashcard, error) {
	prompt, err := render(flashcardsPrompt, documentInput{DocumentText: documentText})
	if err != nil {
		return nil, generationFailed(FlowFlashcards, err)
	}
	out, err := c.complete(ctx, Request{Flow: FlowFlashcards, Prompt: prompt, JSON: true})
	if err != nil {
		return nil, err
	}
	cards, err := decodeFlashcards(out)
	if err != nil {
		return nil, generationFailed(FlowFlashcards, err)
	}
	return cards, nil
}

func decodeFlashcards(out string) ([]Flashcard, error) {
	var doc struct {
		Flashcards []Flashcard `json:"flashcards"`
	}
	js := quiz.StripCodeFences(out)
	if err := json.Unmarshal([]byte(js), &doc); err != nil {
		s := quiz.FindFirstJSON(js)
		if s == "" {
			return nil, errors.Wrap(err, "decode flashcards")
		}
		if err2 := json.Unmarshal([]byte(s), &doc); err2 != nil {
			return nil, errors.Wrapf(err2, "decode flashcards (original error: %v)", err)
		}
	}
	cards := make([]Flashcard, 0, len(doc.Flashcards))
	for _, fc := range doc.Flashcards {
		fc.Front, fc.Back = strings.TrimSpace(fc.Front), strings.TrimSpace(fc.Back)
		if fc.Front == "" || fc.Back == "" {
			continue
		}
		cards = append(cards, fc)
	}
	if len(cards) == 0 {
		return nil, errNoFlashcards
	}
	return cards, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, documentText string) (string, error) {
	prompt, err := render(quizPrompt, documentInput{DocumentText: documentText})
	if err != nil {
		return "", generationFailed(FlowQuiz, err)
	}
	return c.complete(ctx, Request{Flow: FlowQuiz, Prompt: prompt})
}

func (c *Client) ExplainAnswer(ctx context.Context, req ExplainRequest) (string, error) {
	prompt, err := render(explainPrompt, req)
	if err != nil {
		return "", generationFailed(FlowExplain, err)
	}
	out, err := c.complete(ctx, Request{Flow: FlowExplain, Prompt: prompt})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(quiz.StripCodeFences(out)), nil
}
