package http

import (
	"log"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/thywilljoshua/docu-learn/internal/ai"
	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/quiz"
	"github.com/thywilljoshua/docu-learn/internal/study"
)

// errBadRequest marks malformed client input.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return errors.Wrapf(errBadRequest, format, args...)
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

// writeFailure converts a service error into the response users see. This is
// the only place the error taxonomy becomes user-visible text.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		xerr  *extract.Error
		perr  *quiz.ParseError
		gerr  *ai.GenerationError
		mberr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &xerr):
		log.Printf("%s %s: extraction failed: %v", r.Method, r.URL.Path, xerr.Err)
		writeErr(w, http.StatusUnprocessableEntity, xerr.Error())
	case errors.As(err, &perr):
		log.Printf("%s %s: %s", r.Method, r.URL.Path, perr.Detail())
		writeErr(w, http.StatusUnprocessableEntity, perr.Error())
	case errors.As(err, &gerr):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, gerr)
		writeErr(w, http.StatusBadGateway, gerr.UserMessage())
	case errors.As(err, &mberr):
		writeErr(w, http.StatusRequestEntityTooLarge, "The uploaded file is too large.")
	case errors.Is(err, study.ErrSessionNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, study.ErrActivityInFlight),
		errors.Is(err, study.ErrStaleResult),
		errors.Is(err, study.ErrQuizNotReady):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, errBadRequest),
		errors.Is(err, study.ErrUnknownActivity),
		errors.Is(err, study.ErrQuestionNotFound),
		errors.Is(err, study.ErrInvalidOption),
		errors.Is(err, study.ErrAnswerCorrect):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeErr(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
