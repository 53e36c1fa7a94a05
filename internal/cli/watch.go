package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
)

// Mirror is the part of the library a directory sync writes to.
type Mirror interface {
	SaveSequence(ctx context.Context, seq *domain.Sequence) (*domain.Sequence, *domain.ReferenceErrors, error)
	DeleteSequence(ctx context.Context, id string) error
}

// SyncLibrary copies every change reported by source into lib until ctx is
// done or the source closes its feed. Edits that fail validation are logged
// and skipped so a half-written file does not stop the sync.
func SyncLibrary(ctx context.Context, lib Mirror, source ports.Watchable, logger *slog.Logger) error {
	changes, err := source.Watch(ctx)
	if err != nil {
		return err
	}

	logger.Info("watching library for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			applyChange(ctx, lib, change, logger)
		}
	}
}

func applyChange(ctx context.Context, lib Mirror, change domain.SequenceChange, logger *slog.Logger) {
	if change.Deleted() {
		err := lib.DeleteSequence(ctx, change.ID)
		switch {
		case err == nil:
			logger.Info("sequence removed", "sequence_id", change.ID)
		case errors.Is(err, domain.ErrSequenceNotFound):
			logger.Debug("sequence already absent", "sequence_id", change.ID)
		default:
			logger.Error("failed to remove sequence", "sequence_id", change.ID, "err", err)
		}
		return
	}

	_, refs, err := lib.SaveSequence(ctx, change.Sequence)
	if err != nil {
		logger.Warn("sequence change rejected", "sequence_id", change.ID, "err", err)
		return
	}
	warnings := 0
	if refs != nil {
		warnings = len(refs.Errors)
	}
	logger.Info("sequence reloaded", "sequence_id", change.ID, "warnings", warnings)
}
