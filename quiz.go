package tatami

import (
	"context"
	"fmt"

	"github.com/aretw0/tatami/pkg/domain"
)

// StartQuiz opens a new session positioned on the hub of sequenceID.
func (l *Library) StartQuiz(ctx context.Context, sequenceID string) (*domain.QuizView, error) {
	g, err := l.graph(ctx, sequenceID)
	if err != nil {
		return nil, err
	}

	sessionID := l.newID()
	step, err := l.engine.Start(ctx, g, domain.NewQuizState(sessionID, sequenceID))
	if err != nil {
		return nil, err
	}
	if err := l.sessions.Save(ctx, sessionID, step.State); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	l.logger.Info("quiz started", "session_id", sessionID, "sequence_id", sequenceID, "node_id", step.State.CurrentNodeID)
	return domain.NewQuizView(g, step.State), nil
}

// OpenQuiz resumes sessionID when it exists. Otherwise it starts a session
// under that id on sequenceID. The bool reports whether it was resumed; a
// resumed session keeps its own sequence.
func (l *Library) OpenQuiz(ctx context.Context, sessionID, sequenceID string) (*domain.QuizView, bool, error) {
	state, err := l.sessions.LoadOrStart(ctx, sessionID, sequenceID)
	if err != nil {
		return nil, false, err
	}
	if state.Status != domain.QuizIdle {
		g, err := l.graph(ctx, state.SequenceID)
		if err != nil {
			return nil, false, err
		}
		return domain.NewQuizView(g, state), true, nil
	}

	view, err := l.RestartQuiz(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	l.logger.Info("quiz started", "session_id", sessionID, "sequence_id", sequenceID, "node_id", view.State.CurrentNodeID)
	return view, false, nil
}

// Choose follows the option-th outgoing edge of the current node.
func (l *Library) Choose(ctx context.Context, sessionID string, option int) (*domain.QuizView, error) {
	var g *domain.Graph
	state, err := l.sessions.Update(ctx, sessionID, func(current *domain.QuizState) (*domain.QuizState, error) {
		var err error
		if g, err = l.graph(ctx, current.SequenceID); err != nil {
			return nil, err
		}
		step, err := l.engine.ChooseIndex(ctx, g, current, option)
		if err != nil {
			return nil, err
		}
		return step.State, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NewQuizView(g, state), nil
}

// Quiz returns the current view of a session.
func (l *Library) Quiz(ctx context.Context, sessionID string) (*domain.QuizView, error) {
	state, err := l.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	g, err := l.graph(ctx, state.SequenceID)
	if err != nil {
		return nil, err
	}
	return domain.NewQuizView(g, state), nil
}

// RestartQuiz puts the session back on the hub with a fresh history.
func (l *Library) RestartQuiz(ctx context.Context, sessionID string) (*domain.QuizView, error) {
	var g *domain.Graph
	state, err := l.sessions.Update(ctx, sessionID, func(current *domain.QuizState) (*domain.QuizState, error) {
		var err error
		if g, err = l.graph(ctx, current.SequenceID); err != nil {
			return nil, err
		}
		step, err := l.engine.Start(ctx, g, current)
		if err != nil {
			return nil, err
		}
		return step.State, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NewQuizView(g, state), nil
}

// EndQuiz switches the session to view mode.
func (l *Library) EndQuiz(ctx context.Context, sessionID string) (*domain.QuizView, error) {
	var g *domain.Graph
	state, err := l.sessions.Update(ctx, sessionID, func(current *domain.QuizState) (*domain.QuizState, error) {
		var err error
		if g, err = l.graph(ctx, current.SequenceID); err != nil {
			return nil, err
		}
		return l.engine.Stop(ctx, current), nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NewQuizView(g, state), nil
}

// DeleteQuiz discards a session.
func (l *Library) DeleteQuiz(ctx context.Context, sessionID string) error {
	return l.sessions.Delete(ctx, sessionID)
}

// ListQuizzes returns the ids of stored sessions.
func (l *Library) ListQuizzes(ctx context.Context) ([]string, error) {
	return l.sessions.List(ctx)
}

// QuizState returns the raw session state.
func (l *Library) QuizState(ctx context.Context, sessionID string) (*domain.QuizState, error) {
	return l.sessions.Load(ctx, sessionID)
}

// graph loads the sequence fresh so edits are visible to running sessions.
func (l *Library) graph(ctx context.Context, sequenceID string) (*domain.Graph, error) {
	seq, err := l.sequences.Load(ctx, sequenceID)
	if err != nil {
		return nil, err
	}
	return domain.NewGraph(seq), nil
}
