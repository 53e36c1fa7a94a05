package ports

import (
	"context"

	"github.com/aretw0/tatami/pkg/domain"
)

// SequenceService is the sequence catalogue as seen by driving adapters (HTTP, MCP).
type SequenceService interface {
	ListSequences(ctx context.Context, opts ListOptions) ([]*domain.Sequence, error)
	GetSequence(ctx context.Context, id string) (*domain.Sequence, error)

	// CreateSequence fills defaults, stamps timestamps and persists.
	// Reference problems are returned as warnings alongside the stored sequence.
	CreateSequence(ctx context.Context, seq *domain.Sequence) (*domain.Sequence, *domain.ReferenceErrors, error)

	// SaveSequence replaces an existing sequence and bumps UpdatedAt.
	SaveSequence(ctx context.Context, seq *domain.Sequence) (*domain.Sequence, *domain.ReferenceErrors, error)

	ArchiveSequence(ctx context.Context, id string, archived bool) error
	DeleteSequence(ctx context.Context, id string) error
}

// QuizService drives quiz sessions. Sessions are addressed by id so the
// host can stay stateless between requests.
type QuizService interface {
	// StartQuiz opens a session positioned on the hub of the sequence.
	StartQuiz(ctx context.Context, sequenceID string) (*domain.QuizView, error)

	// Choose follows the option-th outgoing edge of the current node.
	Choose(ctx context.Context, sessionID string, option int) (*domain.QuizView, error)

	// Quiz returns the current view without changing the session.
	Quiz(ctx context.Context, sessionID string) (*domain.QuizView, error)

	// RestartQuiz puts the session back on the hub.
	RestartQuiz(ctx context.Context, sessionID string) (*domain.QuizView, error)

	// EndQuiz switches the session to view mode.
	EndQuiz(ctx context.Context, sessionID string) (*domain.QuizView, error)

	DeleteQuiz(ctx context.Context, sessionID string) error
	ListQuizzes(ctx context.Context) ([]string, error)
}
