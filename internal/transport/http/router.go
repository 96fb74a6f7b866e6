package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thywilljoshua/docu-learn/internal/study"
)

type RouterOptions struct {
	CORSOrigins    []string
	MaxUploadBytes int64
	// RequestTimeout bounds every API request except the event stream. It
	// must exceed the generation timeout.
	RequestTimeout time.Duration
}

// NewRouter mounts the study API:
//
//	GET    /healthz
//	POST   /api/sessions
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	GET    /api/sessions/{id}/events                    (websocket)
//	POST   /api/sessions/{id}/activities/{activity}     (?regenerate=true)
//	GET    /api/sessions/{id}/activities/{activity}
//	DELETE /api/sessions/{id}/activities/{activity}
//	POST   /api/sessions/{id}/quiz/grade
//	POST   /api/sessions/{id}/quiz/explain
func NewRouter(service *study.Service, opts RouterOptions) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = study.DefaultGenerationTimeout + 30*time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	h := NewHandler(service, opts.MaxUploadBytes)
	ws := NewWSHandler(service, opts.CORSOrigins)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/{id}/events", ws.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(opts.RequestTimeout))
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Post("/{id}/activities/{activity}", h.GenerateActivity)
			r.Get("/{id}/activities/{activity}", h.GetActivity)
			r.Delete("/{id}/activities/{activity}", h.ResetActivity)
			r.Post("/{id}/quiz/grade", h.GradeQuiz)
			r.Post("/{id}/quiz/explain", h.ExplainAnswer)
		})
	})
	return r
}
