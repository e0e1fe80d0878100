package preview

import (
	"context"
	"sync"
)

// ReloadEvent is pushed to connected preview clients after a completed
// rebuild.
type ReloadEvent struct {
	BuildID   string `json:"build_id"`
	Languages int    `json:"languages"`
	Artifacts int    `json:"artifacts"`
}

const subscriberBuffer = 8

// hub fans reload events out to SSE subscribers. Sends never block: a
// subscriber that cannot keep up is dropped and its channel closed, the
// EventSource client reconnects on its own.
type hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool
	cleanup     sync.WaitGroup
}

type subscriber struct {
	ch     chan ReloadEvent
	closed bool
	mu     sync.Mutex
}

func newHub() *hub {
	return &hub{subscribers: make(map[*subscriber]struct{})}
}

// subscribe registers a new subscriber. The subscription is cleaned up when
// ctx is canceled, which for SSE clients is the end of the request.
func (h *hub) subscribe(ctx context.Context) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan ReloadEvent, subscriberBuffer)}
	if h.closed {
		sub.close()
		return sub
	}
	h.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanup.Add(1)
		go func() {
			defer h.cleanup.Done()
			<-ctx.Done()
			h.unsubscribe(sub)
		}()
	}
	return sub
}

func (h *hub) broadcast(ev ReloadEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for sub := range h.subscribers {
		if !sub.send(ev) {
			// Asynchronous so a full subscriber cannot stall the broadcast
			// under the read lock.
			go h.unsubscribe(sub)
		}
	}
}

func (h *hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
	sub.close()
}

// closeAll closes every subscriber channel, which ends their SSE handlers,
// then waits for the context cleanup goroutines those handlers release.
func (h *hub) closeAll() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		sub.close()
	}
	clear(h.subscribers)
	h.mu.Unlock()

	h.cleanup.Wait()
}

func (s *subscriber) events() <-chan ReloadEvent { return s.ch }

func (s *subscriber) send(ev ReloadEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}
