package study

import "sync"

// Event reports the new state of one activity.
type Event struct {
	SessionID string   `json:"sessionId"`
	Activity  Activity `json:"activity"`
	State     State    `json:"state"`
}

// hub fans state changes out to per-session subscribers in this process.
type hub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subscribers: make(map[string]map[chan Event]struct{})}
}

// subscribe registers a buffered channel and primes it with initial. The
// returned cancel is idempotent and closes the channel.
func (h *hub) subscribe(sessionID string, initial []Event) (<-chan Event, func()) {
	ch := make(chan Event, len(initial)+8)
	for _, ev := range initial {
		ch <- ev
	}

	h.mu.Lock()
	subs, ok := h.subscribers[sessionID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[sessionID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[sessionID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, sessionID)
		}
	}
	return ch, cancel
}

// publish never blocks: a full subscriber loses its oldest pending event.
func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[ev.SessionID] {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// closeSession ends every subscription of a deleted session.
func (h *hub) closeSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[sessionID] {
		close(ch)
	}
	delete(h.subscribers, sessionID)
}
