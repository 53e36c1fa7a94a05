package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/internal/config"
	"github.com/aretw0/tatami/internal/metrics"
	"github.com/aretw0/tatami/pkg/adapters/file"
	"github.com/aretw0/tatami/pkg/adapters/loam"
	"github.com/aretw0/tatami/pkg/adapters/redis"
	"github.com/aretw0/tatami/pkg/adapters/sqlite"
	"github.com/aretw0/tatami/pkg/domain"
)

// Options tunes how Open wires the library.
type Options struct {
	// FileSessions keeps quiz sessions in cfg.SessionDir unless the redis
	// driver is selected. Used by the interactive quiz so sessions survive
	// between runs.
	FileSessions bool

	// Metrics registers Prometheus collectors fed by quiz hooks.
	Metrics bool

	// Debug forces debug logging regardless of cfg.LogLevel.
	Debug bool

	// SkipImport opens cfg.LibraryDir as Env.Source without copying it
	// into the store.
	SkipImport bool
}

// Env is a wired library plus the resources it holds.
type Env struct {
	Library *tatami.Library
	Logger  *slog.Logger
	Metrics *metrics.Registry

	// Source is the authoring directory, nil when cfg.LibraryDir is empty.
	Source *loam.Loader

	closers []func() error
}

// Close releases every backend opened by Open.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

// Open builds a Library for cfg: stores are chosen by cfg.Store, and
// sequences found in cfg.LibraryDir are imported into the store.
func Open(ctx context.Context, cfg config.Config, opts Options) (*Env, error) {
	logger, err := createLogger(cfg.LogLevel, opts.Debug)
	if err != nil {
		return nil, err
	}

	env := &Env{Logger: logger}
	libOpts := []tatami.Option{tatami.WithLogger(logger)}

	switch cfg.Store {
	case config.DriverMemory, "":
		// Library defaults.
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, store.Close)
		libOpts = append(libOpts,
			tatami.WithSequenceStore(store),
			tatami.WithCurriculumStore(store),
		)
	case config.DriverRedis:
		client := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		env.closers = append(env.closers, client.Close)
		libOpts = append(libOpts,
			tatami.WithSequenceStore(redis.NewSequenceStore(client,
				redis.WithSequencePrefix(cfg.Redis.Prefix),
				redis.WithLogger(logger),
			)),
			tatami.WithSessionStore(redis.NewFromClient(client,
				redis.WithTTL(cfg.SessionTTL),
				redis.WithPrefix(cfg.Redis.Prefix),
			)),
			tatami.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix+"lock:")),
		)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store)
	}

	if opts.FileSessions && cfg.Store != config.DriverRedis {
		libOpts = append(libOpts, tatami.WithSessionStore(file.New(cfg.SessionDir)))
	}

	if opts.Metrics {
		env.Metrics = metrics.NewRegistry()
		libOpts = append(libOpts, tatami.WithHooks(domain.MergeHooks(env.Metrics.Hooks(), debugHooks(logger))))
	} else {
		libOpts = append(libOpts, tatami.WithHooks(debugHooks(logger)))
	}

	env.Library = tatami.New(libOpts...)

	if cfg.LibraryDir == "" {
		return env, nil
	}

	source, err := loam.Open(cfg.LibraryDir, loam.WithLogger(logger))
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Source = source

	if !opts.SkipImport {
		n, err := env.Library.ImportSequences(ctx, source)
		if err != nil {
			env.Close()
			return nil, err
		}
		logger.Info("library imported", "dir", cfg.LibraryDir, "sequences", n)
	}

	return env, nil
}

func debugHooks(logger *slog.Logger) domain.QuizHooks {
	return domain.QuizHooks{
		OnStart: func(ctx context.Context, e *domain.QuizEvent) {
			logger.Debug("quiz start", "session_id", e.SessionID, "sequence_id", e.SequenceID, "node_id", e.NodeID)
		},
		OnNodeEnter: func(ctx context.Context, e *domain.QuizEvent) {
			logger.Debug("enter node", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnFinisher: func(ctx context.Context, e *domain.QuizEvent) {
			logger.Debug("finisher reached", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnEnd: func(ctx context.Context, e *domain.QuizEvent) {
			logger.Debug("quiz end", "session_id", e.SessionID)
		},
	}
}
