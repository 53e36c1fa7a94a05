package tatami

import (
	"log/slog"
	"time"

	"github.com/aretw0/tatami/internal/logging"
	"github.com/aretw0/tatami/internal/runtime"
	"github.com/aretw0/tatami/pkg/adapters/memory"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/aretw0/tatami/pkg/session"
	"github.com/google/uuid"
)

// Library is the entry point for hosts (CLI, HTTP, MCP). It owns the
// sequence catalogue, the curriculum records and the quiz sessions.
type Library struct {
	sequences ports.SequenceStore
	curricula ports.CurriculumStore
	sessions  *session.Manager
	engine    *runtime.Engine

	sessionStore ports.SessionStore
	locker       ports.DistributedLocker
	runtimeOpts  []runtime.Option
	hooks        domain.QuizHooks
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
}

var (
	_ ports.SequenceService = (*Library)(nil)
	_ ports.QuizService     = (*Library)(nil)
)

// Option defines a functional option for configuring the Library.
type Option func(*Library)

// WithSequenceStore sets where sequences are persisted (default: memory).
func WithSequenceStore(s ports.SequenceStore) Option {
	return func(l *Library) {
		l.sequences = s
	}
}

// WithCurriculumStore sets where curricula are persisted (default: memory).
func WithCurriculumStore(s ports.CurriculumStore) Option {
	return func(l *Library) {
		l.curricula = s
	}
}

// WithSessionStore sets where quiz sessions are persisted (default: memory).
func WithSessionStore(s ports.SessionStore) Option {
	return func(l *Library) {
		l.sessionStore = s
	}
}

// WithLocker serializes quiz sessions across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(l *Library) {
		l.locker = locker
	}
}

// WithHooks registers quiz observability hooks.
func WithHooks(hooks domain.QuizHooks) Option {
	return func(l *Library) {
		l.hooks = domain.MergeHooks(l.hooks, hooks)
	}
}

// WithRandSource injects the randomness behind suggested reactions.
func WithRandSource(src runtime.RandSource) Option {
	return func(l *Library) {
		l.runtimeOpts = append(l.runtimeOpts, runtime.WithRandSource(src))
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		l.now = now
	}
}

// WithIDGenerator overrides how session ids and sequence id suffixes are minted.
func WithIDGenerator(fn func() string) Option {
	return func(l *Library) {
		l.newID = fn
	}
}

// New creates a Library. Without options everything lives in memory.
func New(opts ...Option) *Library {
	l := &Library{
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.sequences == nil {
		l.sequences = memory.NewSequenceStore()
	}
	if l.curricula == nil {
		l.curricula = memory.NewCurriculumStore()
	}
	if l.sessionStore == nil {
		l.sessionStore = memory.NewStore()
	}

	managerOpts := []session.Option{session.WithLogger(l.logger)}
	if l.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(l.locker))
	}
	l.sessions = session.NewManager(l.sessionStore, managerOpts...)

	l.engine = runtime.NewEngine(append([]runtime.Option{
		runtime.WithLogger(l.logger),
		runtime.WithHooks(l.hooks),
		runtime.WithClock(l.now),
	}, l.runtimeOpts...)...)

	return l
}

// Sequences returns the underlying sequence store.
func (l *Library) Sequences() ports.SequenceStore {
	return l.sequences
}

// Sessions returns the quiz session manager.
func (l *Library) Sessions() *session.Manager {
	return l.sessions
}

func (l *Library) nowMillis() int64 {
	return l.now().UnixMilli()
}
