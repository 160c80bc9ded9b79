package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// event is one SSE frame.
type event struct {
	Name string
	Data string
}

// subscriber is a single SSE connection.
type subscriber struct {
	ch        chan event
	sessionID string
}

// Broadcaster fans events out to SSE subscribers grouped by game session.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*subscriber]struct{})}
}

// Register adds a subscriber for a session.
func (b *Broadcaster) Register(sessionID string) *subscriber {
	c := &subscriber{ch: make(chan event, sseChannelBuffer), sessionID: sessionID}
	b.mu.Lock()
	b.subs[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a subscriber and closes its channel.
func (b *Broadcaster) Unregister(c *subscriber) {
	b.mu.Lock()
	if _, ok := b.subs[c]; ok {
		delete(b.subs, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// CloseAll drops every subscriber, ending their streams.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	for c := range b.subs {
		delete(b.subs, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Publish sends v, JSON-encoded, as event name to a session's subscribers.
// Slow subscribers miss events rather than block the game.
func (b *Broadcaster) Publish(sessionID, name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("event", name).Msg("encode event")
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.subs {
		if c.sessionID != sessionID {
			continue
		}
		select {
		case c.ch <- event{Name: name, Data: string(data)}:
		default:
		}
	}
}

// Count returns the number of subscribers for a session.
func (b *Broadcaster) Count(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for c := range b.subs {
		if c.sessionID == sessionID {
			n++
		}
	}
	return n
}

// Notifier returns a game.Notifier that publishes solved events, plus a
// "complete" event once the whole grid is solved.
func (b *Broadcaster) Notifier() game.Notifier {
	return game.NotifierFunc(func(ev game.SolvedEvent) {
		b.Publish(ev.SessionID, "solved", ev)
		if ev.Complete {
			b.Publish(ev.SessionID, "complete", map[string]string{"sessionId": ev.SessionID})
		}
	})
}

// ServeSSE streams a session's events until the client disconnects.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, sessionID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	c := b.Register(sessionID)
	defer b.Unregister(c)
	hlog.FromRequest(r).Debug().Str("gameId", sessionID).Msg("events subscribed")

	fmt.Fprintf(w, "event: hello\ndata: {\"gameId\":%q}\n\n", sessionID)
	flusher.Flush()

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

// handleEvents serves GET /game/events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.events.ServeSSE(w, r, recordFrom(r).ID())
}
