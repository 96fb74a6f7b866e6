package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/thywilljoshua/docu-learn/internal/study"
)

// WSHandler streams activity state changes so clients can show progress.
type WSHandler struct {
	service  *study.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *study.Service, origins []string) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigins(origins),
		},
	}
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ServeWS sends a "state" message per activity on connect, then one per
// change, and "closed" when the session is deleted.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	events, cancel, err := h.service.Subscribe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Clients never send anything; reading detects when they go away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = writeMessage(conn, outboundMessage{Type: "closed"})
				return
			}
			if err := writeMessage(conn, outboundMessage{Type: "state", Payload: ev}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-gone:
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg outboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func allowOrigins(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
