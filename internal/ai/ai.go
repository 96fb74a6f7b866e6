package ai

import "context"

// Flow names one prompt template and the result it produces.
type Flow string

const (
	FlowExtractText Flow = "text extraction"
	FlowNotes       Flow = "notes"
	FlowFlashcards  Flow = "flashcards"
	FlowQuiz        Flow = "quiz"
	FlowExplain     Flow = "explanation"
)

type Notes struct {
	Notes    string `json:"notes"`
	Progress string `json:"progress"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ExplainRequest describes an incorrectly answered quiz question.
type ExplainRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	UserAnswer    string   `json:"userAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Generator is the text-generation capability the study service depends on.
// GenerateQuiz returns the model's raw text; callers parse it with quiz.Parse.
type Generator interface {
	ExtractText(ctx context.Context, mimeType string, data []byte) (string, error)
	GenerateNotes(ctx context.Context, documentText string) (Notes, error)
	CreateFlashcards(ctx context.Context, documentText string) ([]Flashcard, error)
	GenerateQuiz(ctx context.Context, documentText string) (string, error)
	ExplainAnswer(ctx context.Context, req ExplainRequest) (string, error)
}

type Attachment struct {
	MIMEType string
	Data     []byte
}

// Request is a single prompt sent to a Backend.
type Request struct {
	Flow        Flow
	Prompt      string
	Attachments []Attachment
	// JSON asks the backend for a JSON response when it supports doing so.
	JSON bool
}

// Backend sends one prompt to a hosted model and returns its text response.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}
