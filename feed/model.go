package feed

import (
	"sync"
	"time"
)

const (
	maxBacklog   = 64
	subscriberCh = 32
)

// Event types published after a successful store mutation.
const (
	TypeSaved   = "saved"
	TypeCreated = "created"
)

// Event describes one change to the prompt document.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Name        string    `json:"prompt_name"`
	NewCategory bool      `json:"new_category"`
	At          time.Time `json:"at"`
}

// Subscriber receives events until it is removed from the hub or displaced.
type Subscriber struct {
	ID          string    `json:"id"`
	ConnectedAt time.Time `json:"connected_at"`

	out      chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// Events returns the channel live events are delivered on. It is closed
// when the subscriber is removed.
func (s *Subscriber) Events() <-chan Event {
	return s.out
}

// Done is closed when the subscriber is removed, including by Hub.Close.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

func (s *Subscriber) stop() {
	s.doneOnce.Do(func() {
		close(s.done)
		close(s.out)
	})
}

type backlog struct {
	events []Event
	max    int
}

func (b *backlog) add(e Event) {
	b.events = append(b.events, e)
	if len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
}

func (b *backlog) snapshot() []Event {
	if len(b.events) == 0 {
		return nil
	}
	cp := make([]Event, len(b.events))
	copy(cp, b.events)
	return cp
}
