package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/tatami/internal/logging"
	"github.com/aretw0/tatami/pkg/domain"
)

// Engine is the quiz state machine. It holds no session state itself:
// every call takes a QuizState and returns the next one, so a single
// Engine can serve any number of sessions.
type Engine struct {
	rand   RandSource
	logger *slog.Logger
	hooks  domain.QuizHooks
	now    func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithRandSource injects the randomness used for the suggested reaction.
func WithRandSource(src RandSource) Option {
	return func(e *Engine) {
		e.rand = src
	}
}

// WithLogger configures the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.QuizHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the time source used to stamp states.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a quiz engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rand:   DefaultSource,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step is the outcome of a transition.
type Step struct {
	State *domain.QuizState

	// FinisherReached is set when the entered node has no outgoing edges.
	// It is a normal end of round, not an error.
	FinisherReached bool

	// MalformedReference is set when the followed edge points at a node that
	// does not exist. The session is parked there as a finisher.
	MalformedReference bool
}

// Start positions state on the hub of g and presents the first reaction.
// It returns domain.ErrEmptySequence or domain.ErrNoHubResolvable when no
// starting node exists. History is reset. A nil state starts an anonymous
// session.
func (e *Engine) Start(ctx context.Context, g *domain.Graph, state *domain.QuizState) (*Step, error) {
	hub, err := g.Hub()
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = domain.NewQuizState("", "")
	}

	next := state.Clone()
	next.History = []string{}
	next.StartedAt = e.now()
	e.emit(ctx, e.hooks.OnStart, domain.EventQuizStart, next, hub.ID, nil)

	return e.enter(ctx, g, next, hub.ID, nil), nil
}

// Choose follows edge, which must be one of the outgoing edges of the
// current node. The choice is the user's: no weighting is applied to it.
func (e *Engine) Choose(ctx context.Context, g *domain.Graph, state *domain.QuizState, edge domain.Edge) (*Step, error) {
	if state == nil || state.Status != domain.QuizAtNode {
		return nil, domain.ErrQuizNotStarted
	}
	if !e.isOption(g, state.CurrentNodeID, edge) {
		return nil, domain.ErrInvalidChoice
	}
	return e.enter(ctx, g, state.Clone(), edge.ToID, &edge), nil
}

// ChooseIndex follows the option-th outgoing edge of the current node.
func (e *Engine) ChooseIndex(ctx context.Context, g *domain.Graph, state *domain.QuizState, option int) (*Step, error) {
	if state == nil || state.Status != domain.QuizAtNode {
		return nil, domain.ErrQuizNotStarted
	}
	options := g.EdgesFrom(state.CurrentNodeID)
	if option < 0 || option >= len(options) {
		return nil, domain.ErrInvalidChoice
	}
	return e.Choose(ctx, g, state, options[option])
}

// Stop switches the session to view mode.
func (e *Engine) Stop(ctx context.Context, state *domain.QuizState) *domain.QuizState {
	if state == nil {
		state = domain.NewQuizState("", "")
	}
	next := state.Clone()
	next.Status = domain.QuizFinished
	next.Candidate = nil
	next.UpdatedAt = e.now()
	e.emit(ctx, e.hooks.OnEnd, domain.EventQuizEnd, next, next.CurrentNodeID, nil)
	return next
}

// Suggest draws the suggested opponent reaction at nodeID.
func (e *Engine) Suggest(g *domain.Graph, nodeID string) (domain.Edge, bool) {
	return PickWeighted(g.EdgesFrom(nodeID), e.rand)
}

func (e *Engine) isOption(g *domain.Graph, nodeID string, edge domain.Edge) bool {
	for _, o := range g.EdgesFrom(nodeID) {
		if o.Same(edge) {
			return true
		}
	}
	return false
}
