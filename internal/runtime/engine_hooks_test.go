package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tatami/internal/runtime"
	"github.com/aretw0/tatami/pkg/domain"
)

func TestEngine_QuizHooks(t *testing.T) {
	var started, entered, finished, malformed, ended []string

	hooks := domain.QuizHooks{
		OnStart: func(ctx context.Context, e *domain.QuizEvent) {
			started = append(started, e.NodeID)
		},
		OnNodeEnter: func(ctx context.Context, e *domain.QuizEvent) {
			entered = append(entered, e.NodeID)
		},
		OnFinisher: func(ctx context.Context, e *domain.QuizEvent) {
			finished = append(finished, e.NodeID)
		},
		OnMalformedReference: func(ctx context.Context, e *domain.QuizEvent) {
			malformed = append(malformed, e.NodeID)
		},
		OnEnd: func(ctx context.Context, e *domain.QuizEvent) {
			ended = append(ended, e.SessionID)
		},
	}

	ctx := context.Background()
	g := sampleGraph()
	engine := runtime.NewEngine(runtime.WithHooks(hooks), runtime.WithRandSource(fixed(0)))

	step, err := engine.Start(ctx, g, domain.NewQuizState("sess", "hb"))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(started) != 1 || started[0] != "HUB" {
		t.Errorf("Expected start at 'HUB', got: %v", started)
	}
	if len(entered) != 1 || entered[0] != "HUB" {
		t.Errorf("Expected enter 'HUB' on Start(), got: %v", entered)
	}

	step, err = engine.ChooseIndex(ctx, g, step.State, 0) // -> B1
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	step, err = engine.ChooseIndex(ctx, g, step.State, 1) // -> GHOST
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	engine.Stop(ctx, step.State)

	if len(entered) != 2 || entered[1] != "B1" {
		t.Errorf("Expected enter [HUB B1], got: %v", entered)
	}
	if len(malformed) != 1 || malformed[0] != "GHOST" {
		t.Errorf("Expected malformed reference to 'GHOST', got: %v", malformed)
	}
	if len(finished) != 1 || finished[0] != "GHOST" {
		t.Errorf("Expected finisher 'GHOST', got: %v", finished)
	}
	if len(ended) != 1 || ended[0] != "sess" {
		t.Errorf("Expected end for 'sess', got: %v", ended)
	}
}
