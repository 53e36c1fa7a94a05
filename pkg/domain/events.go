package domain

import (
	"context"
	"time"
)

// EventType defines the category of a quiz event.
type EventType string

const (
	EventQuizStart          EventType = "quiz_start"
	EventNodeEnter          EventType = "node_enter"
	EventFinisherReached    EventType = "finisher_reached"
	EventMalformedReference EventType = "malformed_reference"
	EventQuizEnd            EventType = "quiz_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// QuizEvent is emitted by the traversal engine on every transition.
type QuizEvent struct {
	EventBase
	SequenceID string `json:"sequence_id"`
	NodeID     string `json:"node_id,omitempty"`
	// Edge is the edge the user followed, if any.
	Edge *Edge `json:"edge,omitempty"`
}

// QuizHooks defines callbacks for engine observability.
type QuizHooks struct {
	OnStart              func(context.Context, *QuizEvent)
	OnNodeEnter          func(context.Context, *QuizEvent)
	OnFinisher           func(context.Context, *QuizEvent)
	OnMalformedReference func(context.Context, *QuizEvent)
	OnEnd                func(context.Context, *QuizEvent)
}

// MergeHooks returns hooks that call each of hs in order.
func MergeHooks(hs ...QuizHooks) QuizHooks {
	pick := func(get func(QuizHooks) func(context.Context, *QuizEvent)) func(context.Context, *QuizEvent) {
		var fns []func(context.Context, *QuizEvent)
		for _, h := range hs {
			if fn := get(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, ev *QuizEvent) {
			for _, fn := range fns {
				fn(ctx, ev)
			}
		}
	}
	return QuizHooks{
		OnStart:              pick(func(h QuizHooks) func(context.Context, *QuizEvent) { return h.OnStart }),
		OnNodeEnter:          pick(func(h QuizHooks) func(context.Context, *QuizEvent) { return h.OnNodeEnter }),
		OnFinisher:           pick(func(h QuizHooks) func(context.Context, *QuizEvent) { return h.OnFinisher }),
		OnMalformedReference: pick(func(h QuizHooks) func(context.Context, *QuizEvent) { return h.OnMalformedReference }),
		OnEnd:                pick(func(h QuizHooks) func(context.Context, *QuizEvent) { return h.OnEnd }),
	}
}
