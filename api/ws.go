package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"prompt-db/feed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type   string      `json:"type"`
	Replay bool        `json:"replay,omitempty"`
	Event  *feed.Event `json:"event,omitempty"`
}

func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.Error(w, "event feed disabled", http.StatusNotFound)
		return
	}
	// Subscribe before upgrading so nothing published in between is lost.
	sub, backlog, err := h.hub.Subscribe()
	if err != nil {
		http.Error(w, "event feed closed", http.StatusServiceUnavailable)
		return
	}
	defer h.hub.Unsubscribe(sub.ID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Serialise all WebSocket writes; gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	for i := range backlog {
		if err := writeMsg(wsMessage{Type: "change", Replay: true, Event: &backlog[i]}); err != nil {
			h.log.Debug("ws backlog replay failed", "subscriber", sub.ID, "error", err)
			return
		}
	}

	// Pump live events. The channel closes when the subscriber is removed,
	// either by this handler returning or by the hub shutting down.
	go func() {
		for e := range sub.Events() {
			if err := writeMsg(wsMessage{Type: "change", Event: &e}); err != nil {
				conn.Close()
				return
			}
		}
		writeMsg(wsMessage{Type: "closed"}) //nolint:errcheck
		conn.Close()
	}()

	// Clients only listen; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
