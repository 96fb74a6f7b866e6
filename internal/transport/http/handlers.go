package http

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/study"
)

// Handler serves the study REST API.
type Handler struct {
	service   *study.Service
	maxUpload int64
}

func NewHandler(service *study.Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = extract.DefaultMaxBytes
	}
	return &Handler{service: service, maxUpload: maxUpload}
}

type sessionResponse struct {
	ID           string                         `json:"id"`
	DocumentName string                         `json:"documentName"`
	TextLength   int                            `json:"textLength"`
	CreatedAt    time.Time                      `json:"createdAt"`
	Activities   map[study.Activity]study.State `json:"activities"`
}

func toSessionResponse(s study.Session) sessionResponse {
	activities := make(map[study.Activity]study.State, len(study.Activities))
	for _, a := range study.Activities {
		activities[a] = s.State(a)
	}
	return sessionResponse{
		ID:           s.ID,
		DocumentName: s.DocumentName,
		TextLength:   len(s.DocumentText),
		CreatedAt:    s.CreatedAt,
		Activities:   activities,
	}
}

// POST /api/sessions (multipart: file=document.pdf, or JSON {name, dataUri})
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	// base64 data URIs are a third larger than the file they carry.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload*4/3+1<<20)
	doc, err := h.readDocument(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	session, err := h.service.CreateSession(r.Context(), doc)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

type uploadRequest struct {
	Name    string `json:"name"`
	DataURI string `json:"dataUri"`
}

func (h *Handler) readDocument(r *http.Request) (extract.Document, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			var mberr *http.MaxBytesError
			if errors.As(err, &mberr) {
				return extract.Document{}, err
			}
			return extract.Document{}, badRequest("file required")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return extract.Document{}, err
		}
		return extract.Document{Name: hdr.Filename, MIMEType: hdr.Header.Get("Content-Type"), Data: data}, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return extract.Document{}, errors.Wrap(err, "read upload")
	}
	var body uploadRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		return extract.Document{}, badRequest("invalid JSON body")
	}
	if body.DataURI == "" {
		return extract.Document{}, badRequest("dataUri required")
	}
	mimeType, data, err := extract.DecodeDataURI(body.DataURI)
	if err != nil {
		return extract.Document{}, err
	}
	return extract.Document{Name: body.Name, MIMEType: mimeType, Data: data}, nil
}

// GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sessions/{id}/activities/{activity}?regenerate=true
func (h *Handler) GenerateActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := study.ParseActivity(chi.URLParam(r, "activity"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	regenerate, _ := strconv.ParseBool(r.URL.Query().Get("regenerate"))
	st, err := h.service.Generate(r.Context(), chi.URLParam(r, "id"), activity, regenerate)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GET /api/sessions/{id}/activities/{activity}
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := study.ParseActivity(chi.URLParam(r, "activity"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	session, err := h.service.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session.State(activity))
}

// DELETE /api/sessions/{id}/activities/{activity}
func (h *Handler) ResetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := study.ParseActivity(chi.URLParam(r, "activity"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	st, err := h.service.ResetActivity(r.Context(), chi.URLParam(r, "id"), activity)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type gradeRequest struct {
	// Answers maps a question index ("0", "1", ...) to the selected option.
	Answers map[string]string `json:"answers"`
}

// POST /api/sessions/{id}/quiz/grade
func (h *Handler) GradeQuiz(w http.ResponseWriter, r *http.Request) {
	var body gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, r, badRequest("invalid JSON body"))
		return
	}
	answers := make(map[int]string, len(body.Answers))
	for k, v := range body.Answers {
		i, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			writeFailure(w, r, badRequest("invalid question index %q", k))
			return
		}
		answers[i] = v
	}
	score, err := h.service.Grade(r.Context(), chi.URLParam(r, "id"), answers)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

type explainRequest struct {
	QuestionIndex *int   `json:"questionIndex"`
	UserAnswer    string `json:"userAnswer"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// POST /api/sessions/{id}/quiz/explain
func (h *Handler) ExplainAnswer(w http.ResponseWriter, r *http.Request) {
	var body explainRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, r, badRequest("invalid JSON body"))
		return
	}
	if body.QuestionIndex == nil {
		writeFailure(w, r, badRequest("questionIndex required"))
		return
	}
	out, err := h.service.Explain(r.Context(), chi.URLParam(r, "id"), *body.QuestionIndex, body.UserAnswer)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{Explanation: out})
}
