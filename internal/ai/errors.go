package ai

import "github.com/pkg/errors"

var (
	ErrEmptyResponse          = errors.New("model returned an empty response")
	ErrAttachmentsUnsupported = errors.New("backend does not accept file attachments")
	ErrMissingAPIKey          = errors.New("missing API key")
	ErrUnsupportedProvider    = errors.New("unsupported AI provider")
	errNoFlashcards           = errors.New("response contains no flashcards")
)

// GenerationError wraps any failure of a text-generation call.
type GenerationError struct {
	Flow Flow
	Err  error
}

func (e *GenerationError) Error() string {
	return "generate " + string(e.Flow) + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage is the generic text shown to end users.
func (e *GenerationError) UserMessage() string {
	return "Failed to generate " + string(e.Flow) + ". Please try again."
}

func generationFailed(flow Flow, err error) error {
	if err == nil {
		return nil
	}
	var gerr *GenerationError
	if errors.As(err, &gerr) {
		return err
	}
	return &GenerationError{Flow: flow, Err: err}
}
