package study

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/docu-learn/internal/ai"
	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/quiz"
)

func TestTransitionTable(t *testing.T) {
	notes := Result{Notes: &ai.Notes{Notes: "n"}}
	notGenerated := State{Status: StatusNotGenerated, Attempt: 1}
	loading := State{Status: StatusLoading, Attempt: 2}
	ready := State{Status: StatusReady, Attempt: 2, Result: &notes}
	failed := State{Status: StatusFailed, Attempt: 2, Failure: &Failure{Kind: FailureInternal}}

	cases := []struct {
		name   string
		from   State
		action Action
		want   Status
		err    error
	}{
		{"not generated request", notGenerated, Request{}, StatusLoading, nil},
		{"not generated regenerate", notGenerated, Request{Regenerate: true}, StatusLoading, nil},
		{"not generated succeed", notGenerated, Succeed{Attempt: 1, Result: notes}, StatusNotGenerated, ErrStaleResult},
		{"not generated fail", notGenerated, Fail{Attempt: 1}, StatusNotGenerated, ErrStaleResult},
		{"not generated reset", notGenerated, Reset{}, StatusNotGenerated, nil},

		{"loading request", loading, Request{}, StatusLoading, ErrActivityInFlight},
		{"loading regenerate", loading, Request{Regenerate: true}, StatusLoading, ErrActivityInFlight},
		{"loading succeed", loading, Succeed{Attempt: 2, Result: notes}, StatusReady, nil},
		{"loading fail", loading, Fail{Attempt: 2, Err: errors.New("x")}, StatusFailed, nil},
		{"loading reset", loading, Reset{}, StatusNotGenerated, nil},
		{"loading succeed old attempt", loading, Succeed{Attempt: 1, Result: notes}, StatusLoading, ErrStaleResult},

		{"ready request", ready, Request{}, StatusReady, nil},
		{"ready regenerate", ready, Request{Regenerate: true}, StatusLoading, nil},
		{"ready succeed", ready, Succeed{Attempt: 2, Result: notes}, StatusReady, ErrStaleResult},
		{"ready fail", ready, Fail{Attempt: 2}, StatusReady, ErrStaleResult},
		{"ready reset", ready, Reset{}, StatusNotGenerated, nil},

		{"failed request", failed, Request{}, StatusLoading, nil},
		{"failed regenerate", failed, Request{Regenerate: true}, StatusLoading, nil},
		{"failed succeed", failed, Succeed{Attempt: 2}, StatusFailed, ErrStaleResult},
		{"failed fail", failed, Fail{Attempt: 2}, StatusFailed, ErrStaleResult},
		{"failed reset", failed, Reset{}, StatusNotGenerated, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.from, tc.action)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, got.Status)
		})
	}
}

func TestTransitionShapes(t *testing.T) {
	started, err := Transition(State{}, Request{})
	require.NoError(t, err)
	require.Equal(t, State{Status: StatusLoading, Attempt: 1}, started)

	cards := Result{Flashcards: []ai.Flashcard{{Front: "f", Back: "b"}}}
	done, err := Transition(started, Succeed{Attempt: 1, Result: cards})
	require.NoError(t, err)
	require.Equal(t, &cards, done.Result)
	require.Nil(t, done.Failure)

	cached, err := Transition(done, Request{})
	require.NoError(t, err)
	require.Equal(t, done, cached)

	again, err := Transition(done, Request{Regenerate: true})
	require.NoError(t, err)
	require.Equal(t, 2, again.Attempt)
	require.Nil(t, again.Result)

	reset, err := Transition(again, Reset{})
	require.NoError(t, err)
	require.Equal(t, State{Status: StatusNotGenerated, Attempt: 2}, reset)

	// A reset followed by a new request must not accept the old attempt's result.
	restarted, err := Transition(reset, Request{})
	require.NoError(t, err)
	_, err = Transition(restarted, Succeed{Attempt: 2, Result: cards})
	require.ErrorIs(t, err, ErrStaleResult)
}

func TestFailureKinds(t *testing.T) {
	cases := []struct {
		err     error
		kind    FailureKind
		message string
	}{
		{&extract.Error{Reason: "No text could be extracted from the document."}, FailureExtraction, "No text could be extracted from the document."},
		{&ai.GenerationError{Flow: ai.FlowNotes, Err: errors.New("quota")}, FailureGeneration, "Failed to generate notes. Please try again."},
		{&quiz.ParseError{Reason: "no questions"}, FailureQuizParse, (&quiz.ParseError{}).Error()},
		{errors.New("disk on fire"), FailureInternal, "Something went wrong. Please try again."},
	}
	for _, tc := range cases {
		st, err := Transition(State{Status: StatusLoading, Attempt: 1}, Fail{Attempt: 1, Err: errors.Wrap(tc.err, "context")})
		require.NoError(t, err)
		require.Equal(t, StatusFailed, st.Status)
		require.Equal(t, tc.kind, st.Failure.Kind)
		require.Equal(t, tc.message, st.Failure.Message)
	}
}

func TestParseActivity(t *testing.T) {
	a, err := ParseActivity(" Quiz ")
	require.NoError(t, err)
	require.Equal(t, ActivityQuiz, a)

	_, err = ParseActivity("mindmap")
	require.ErrorIs(t, err, ErrUnknownActivity)
}
