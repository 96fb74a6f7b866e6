package study

import "github.com/pkg/errors"

var (
	// ErrSessionNotFound is returned when a session never existed, expired, or was deleted.
	ErrSessionNotFound = errors.New("study session not found")
	// ErrActivityInFlight is returned when an activity is already being generated.
	ErrActivityInFlight = errors.New("activity is already being generated")
	// ErrStaleResult indicates a generation finished after its activity was reset.
	ErrStaleResult = errors.New("activity was reset while generating")
	// ErrUnknownActivity indicates an activity name other than notes, flashcards or quiz.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrQuizNotReady is returned by quiz operations before a quiz has been generated.
	ErrQuizNotReady = errors.New("quiz has not been generated")
	// ErrQuestionNotFound indicates a question index outside the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidOption indicates an answer that is not one of the question's options.
	ErrInvalidOption = errors.New("answer is not one of the options")
	// ErrAnswerCorrect is returned when an explanation is requested for a correct answer.
	ErrAnswerCorrect = errors.New("answer is correct")
)
