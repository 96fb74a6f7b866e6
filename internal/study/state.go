package study

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/thywilljoshua/docu-learn/internal/ai"
	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/quiz"
)

// Activity is one study aid generated from a session's document.
type Activity string

const (
	ActivityNotes      Activity = "notes"
	ActivityFlashcards Activity = "flashcards"
	ActivityQuiz       Activity = "quiz"
)

// Activities lists every activity in display order.
var Activities = []Activity{ActivityNotes, ActivityFlashcards, ActivityQuiz}

// ParseActivity accepts an activity name in any case.
func ParseActivity(s string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Activities {
		if a == known {
			return a, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownActivity, "%q", s)
}

type Status string

const (
	StatusNotGenerated Status = "not_generated"
	StatusLoading      Status = "loading"
	StatusReady        Status = "ready"
	StatusFailed       Status = "failed"
)

// FailureKind tells clients which error taxonomy entry ended a generation.
type FailureKind string

const (
	FailureExtraction FailureKind = "extraction"
	FailureGeneration FailureKind = "generation"
	FailureQuizParse  FailureKind = "quiz_parse"
	FailureInternal   FailureKind = "internal"
)

type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// Result holds the output of exactly one activity.
type Result struct {
	Notes      *ai.Notes      `json:"notes,omitempty"`
	Flashcards []ai.Flashcard `json:"flashcards,omitempty"`
	Quiz       *quiz.Quiz     `json:"quiz,omitempty"`
}

// State is the lifecycle of one activity. Result is set only when Status is
// ready and Failure only when it is failed. Attempt increases every time a
// generation starts so that late results of an abandoned attempt can be told
// apart from the current one.
type State struct {
	Status    Status    `json:"status"`
	Attempt   int       `json:"attempt"`
	Result    *Result   `json:"result,omitempty"`
	Failure   *Failure  `json:"failure,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Action is an input to Transition.
type Action interface{ action() }

// Request asks for an activity's data. Without Regenerate a ready activity
// is served from cache.
type Request struct{ Regenerate bool }

// Succeed completes the generation started by Attempt.
type Succeed struct {
	Attempt int
	Result  Result
}

// Fail ends the generation started by Attempt with an error.
type Fail struct {
	Attempt int
	Err     error
}

// Reset discards the activity's data ("Upload New" or "Back").
type Reset struct{}

func (Request) action() {}
func (Succeed) action() {}
func (Fail) action()    {}
func (Reset) action()   {}

// Transition applies a to s. It never touches UpdatedAt.
func Transition(s State, a Action) (State, error) {
	if s.Status == "" {
		s.Status = StatusNotGenerated
	}
	switch a := a.(type) {
	case Request:
		switch s.Status {
		case StatusLoading:
			return s, ErrActivityInFlight
		case StatusReady:
			if !a.Regenerate {
				return s, nil
			}
		}
		return State{Status: StatusLoading, Attempt: s.Attempt + 1}, nil
	case Succeed:
		if s.Status != StatusLoading || s.Attempt != a.Attempt {
			return s, ErrStaleResult
		}
		result := a.Result
		return State{Status: StatusReady, Attempt: s.Attempt, Result: &result}, nil
	case Fail:
		if s.Status != StatusLoading || s.Attempt != a.Attempt {
			return s, ErrStaleResult
		}
		failure := failureOf(a.Err)
		return State{Status: StatusFailed, Attempt: s.Attempt, Failure: &failure}, nil
	case Reset:
		return State{Status: StatusNotGenerated, Attempt: s.Attempt}, nil
	default:
		return s, errors.Errorf("unknown action %T", a)
	}
}

func failureOf(err error) Failure {
	var (
		xerr *extract.Error
		gerr *ai.GenerationError
		perr *quiz.ParseError
	)
	switch {
	case errors.As(err, &xerr):
		return Failure{Kind: FailureExtraction, Message: xerr.Error()}
	case errors.As(err, &perr):
		return Failure{Kind: FailureQuizParse, Message: perr.Error()}
	case errors.As(err, &gerr):
		return Failure{Kind: FailureGeneration, Message: gerr.UserMessage()}
	default:
		return Failure{Kind: FailureInternal, Message: "Something went wrong. Please try again."}
	}
}
