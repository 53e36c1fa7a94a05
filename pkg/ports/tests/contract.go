package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
)

// SequenceSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.SequenceSource.
// want maps each id the source must serve to the sequence name it must carry.
func SequenceSourceContractTest(t *testing.T, source ports.SequenceSource, want map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("FetchSequence_Success", func(t *testing.T) {
		for id, name := range want {
			seq, err := source.FetchSequence(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error fetching sequence %s: %v", id, err)
			}
			if seq.ID != id {
				t.Errorf("id mismatch: got %q, want %q", seq.ID, id)
			}
			if seq.Name != name {
				t.Errorf("name mismatch for %s. got %q, want %q", id, seq.Name, name)
			}
			if seq.StorageMode != domain.StorageModeEmbedded {
				t.Errorf("sequence %s not canonicalized: storageMode %q", id, seq.StorageMode)
			}
		}
	})

	t.Run("FetchSequence_NotFound", func(t *testing.T) {
		_, err := source.FetchSequence(ctx, "non-existent-sequence")
		if !errors.Is(err, domain.ErrSequenceNotFound) {
			t.Errorf("expected ErrSequenceNotFound, got %v", err)
		}
	})

	t.Run("ListSequenceIDs", func(t *testing.T) {
		ids, err := source.ListSequenceIDs(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing sequences: %v", err)
		}

		if len(ids) != len(want) {
			t.Errorf("expected %d sequences, got %d", len(want), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range want {
			if !lookup[id] {
				t.Errorf("sequence %s missing from list", id)
			}
		}
	})
}
