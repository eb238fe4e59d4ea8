package feed

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("feed closed")

// Hub fans out change events to websocket subscribers and keeps a short
// backlog for replay to late joiners. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*Subscriber
	backlog backlog
	closed  bool
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		subs:    make(map[string]*Subscriber),
		backlog: backlog{max: maxBacklog},
		now:     time.Now,
	}
}

// Subscribe registers a new subscriber and returns it with a copy of the
// backlog taken atomically with the registration.
func (h *Hub) Subscribe() (*Subscriber, []Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, nil, ErrClosed
	}
	s := &Subscriber{
		ID:          uuid.New().String(),
		ConnectedAt: h.now(),
		out:         make(chan Event, subscriberCh),
		done:        make(chan struct{}),
	}
	h.subs[s.ID] = s
	return s, h.backlog.snapshot(), nil
}

// Unsubscribe removes the subscriber and closes its channels. Unknown ids
// are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	s, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if ok {
		s.stop()
	}
}

// Publish stamps e with an id and time if missing, records it in the
// backlog and delivers it to every subscriber.
func (h *Hub) Publish(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = h.now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return e
	}
	h.backlog.add(e)
	for _, s := range h.subs {
		select {
		case s.out <- e:
		default:
		}
	}
	return e
}

func (h *Hub) List() []*Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		list = append(list, s)
	}
	return list
}

func (h *Hub) Backlog() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.backlog.snapshot()
}

// Close removes every subscriber; later Subscribe calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*Subscriber)
	h.closed = true
	h.mu.Unlock()
	for _, s := range subs {
		s.stop()
	}
}
