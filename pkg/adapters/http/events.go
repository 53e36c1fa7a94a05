package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/oapi-codegen/runtime"
)

// StreamManager fans session diffs out to SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // session id -> channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for sessionID. The returned func
// unregisters it and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast delivers msg to every listener of sessionID. Full buffers drop
// the message.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// SubscribeEvents handles GET /events. With session_id it streams quiz
// diffs of that session, otherwise the sequence change feed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var sessionID, watch string
	if err := runtime.BindQueryParameter("form", true, false, "session_id", r.URL.Query(), &sessionID); err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &watch); err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	if sessionID == "" {
		s.streamSequences(w, r, flusher)
		return
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	startStream(w, flusher)
	s.logger.Info("SSE subscribed", "session_id", sessionID)

	var fields []string
	if watch != "" {
		fields = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(fields) > 0 && !diffTouches(msg, fields) {
				continue
			}
			fmt.Fprintf(w, "event: quiz\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) streamSequences(w http.ResponseWriter, r *http.Request, flusher http.Flusher) {
	changes, err := s.Service.Watch(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	startStream(w, flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			payload, err := json.Marshal(change)
			if err != nil {
				s.logger.Error("change encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: sequence\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func startStream(w http.ResponseWriter, flusher http.Flusher) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
}

// diffTouches reports whether the encoded diff changes any of fields.
// Undecodable payloads pass through.
func diffTouches(msg string, fields []string) bool {
	var diff domain.QuizDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "node":
			if diff.CurrentNodeID != nil {
				return true
			}
		case "status":
			if diff.Status != nil || diff.Finisher != nil {
				return true
			}
		case "candidate":
			if diff.Candidate != nil || diff.CandidateCleared {
				return true
			}
		case "history":
			if diff.History != nil {
				return true
			}
		case "malformed":
			if diff.Malformed != nil {
				return true
			}
		}
	}
	return false
}
