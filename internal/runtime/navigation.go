package runtime

import (
	"context"

	"github.com/aretw0/tatami/pkg/domain"
)

// enter moves next onto nodeID and computes the new candidate.
func (e *Engine) enter(ctx context.Context, g *domain.Graph, next *domain.QuizState, nodeID string, via *domain.Edge) *Step {
	next.Status = domain.QuizAtNode
	next.CurrentNodeID = nodeID
	next.History = append(next.History, nodeID)
	next.Candidate = nil
	next.Malformed = false
	next.UpdatedAt = e.now()

	step := &Step{State: next}

	if _, ok := g.NodeByID(nodeID); !ok {
		next.Malformed = true
		step.MalformedReference = true
		step.FinisherReached = true
		e.logger.Warn("edge points at unknown node",
			"sequence_id", next.SequenceID,
			"session_id", next.SessionID,
			"to_id", nodeID,
		)
		e.emit(ctx, e.hooks.OnMalformedReference, domain.EventMalformedReference, next, nodeID, via)
		e.emit(ctx, e.hooks.OnFinisher, domain.EventFinisherReached, next, nodeID, via)
		return step
	}

	e.emit(ctx, e.hooks.OnNodeEnter, domain.EventNodeEnter, next, nodeID, via)

	if candidate, ok := e.Suggest(g, nodeID); ok {
		next.Candidate = &candidate
		e.logger.Debug("node entered", "session_id", next.SessionID, "node_id", nodeID, "candidate", candidate.OpponentReaction)
		return step
	}

	step.FinisherReached = true
	e.logger.Debug("finisher reached", "session_id", next.SessionID, "node_id", nodeID)
	e.emit(ctx, e.hooks.OnFinisher, domain.EventFinisherReached, next, nodeID, via)
	return step
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.QuizEvent), typ domain.EventType, state *domain.QuizState, nodeID string, via *domain.Edge) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.QuizEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      typ,
			SessionID: state.SessionID,
		},
		SequenceID: state.SequenceID,
		NodeID:     nodeID,
		Edge:       via,
	})
}
