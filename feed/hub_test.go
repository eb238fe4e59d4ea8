package feed

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSubscribeAndPublish(t *testing.T) {
	h := NewHub()
	s, backlog, err := h.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if len(backlog) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(backlog))
	}

	sent := h.Publish(Event{Type: TypeSaved, Category: "poses", Name: "x"})
	if sent.ID == "" || sent.At.IsZero() {
		t.Fatalf("Publish did not stamp the event: %+v", sent)
	}

	select {
	case got := <-s.Events():
		if got.ID != sent.ID || got.Category != "poses" {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBacklogReplayAndCap(t *testing.T) {
	h := NewHub()
	for i := 0; i < maxBacklog+5; i++ {
		h.Publish(Event{Type: TypeCreated, Name: fmt.Sprintf("n%d", i)})
	}

	_, backlog, err := h.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if len(backlog) != maxBacklog {
		t.Fatalf("expected backlog of %d, got %d", maxBacklog, len(backlog))
	}
	if backlog[0].Name != "n5" {
		t.Fatalf("expected oldest kept event n5, got %q", backlog[0].Name)
	}
	if last := backlog[len(backlog)-1].Name; last != fmt.Sprintf("n%d", maxBacklog+4) {
		t.Fatalf("unexpected newest event %q", last)
	}
}

func TestUnsubscribeClosesChannels(t *testing.T) {
	h := NewHub()
	s, _, _ := h.Subscribe()

	h.Unsubscribe(s.ID)
	h.Unsubscribe(s.ID) // second call is a no-op

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Unsubscribe")
	}
	if _, ok := <-s.Events(); ok {
		t.Fatal("Events channel still open")
	}
	if n := len(h.List()); n != 0 {
		t.Fatalf("expected 0 subscribers, got %d", n)
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	h.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberCh*4; i++ {
			h.Publish(Event{Type: TypeSaved})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestCloseStopsSubscribers(t *testing.T) {
	h := NewHub()
	s, _, _ := h.Subscribe()
	h.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("subscriber not stopped by Close")
	}
	if _, _, err := h.Subscribe(); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	h.Publish(Event{Type: TypeSaved}) // must not panic
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s, _, err := h.Subscribe()
			if err != nil {
				return
			}
			h.Unsubscribe(s.ID)
		}()
		go func() {
			defer wg.Done()
			h.Publish(Event{Type: TypeSaved})
		}()
	}
	wg.Wait()
}
