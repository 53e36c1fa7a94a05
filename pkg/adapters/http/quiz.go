package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aretw0/tatami/pkg/domain"
)

// ListQuizzes handles GET /quizzes.
func (s *Server) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.ListQuizzes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, ids)
}

// StartQuiz handles POST /quizzes.
func (s *Server) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SequenceID string `json:"sequence_id"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.SequenceID == "" {
		badRequest(w, s.logger, "sequence_id is required")
		return
	}

	view, err := s.Service.StartQuiz(r.Context(), body.SequenceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(nil, view.State)
	writeJSON(w, s.logger, http.StatusCreated, view)
}

// GetQuiz handles GET /quizzes/{session_id}.
func (s *Server) GetQuiz(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathParam(r, "session_id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	view, err := s.Service.Quiz(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, view)
}

// DeleteQuiz handles DELETE /quizzes/{session_id}.
func (s *Server) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathParam(r, "session_id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	if err := s.Service.DeleteQuiz(r.Context(), sessionID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChooseResponse handles POST /quizzes/{session_id}/choose.
func (s *Server) ChooseResponse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Option *int `json:"option"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Option == nil {
		badRequest(w, s.logger, "option is required")
		return
	}
	s.transition(w, r, func(ctx context.Context, id string) (*domain.QuizView, error) {
		return s.Service.Choose(ctx, id, *body.Option)
	})
}

// RestartQuiz handles POST /quizzes/{session_id}/restart.
func (s *Server) RestartQuiz(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.Service.RestartQuiz)
}

// EndQuiz handles POST /quizzes/{session_id}/end.
func (s *Server) EndQuiz(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.Service.EndQuiz)
}

// transition applies a session move and broadcasts the resulting diff to
// subscribers of that session.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, move func(context.Context, string) (*domain.QuizView, error)) {
	sessionID, err := pathParam(r, "session_id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}

	before, err := s.Service.QuizState(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := move(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.broadcast(before, view.State)
	writeJSON(w, s.logger, http.StatusOK, view)
}

func (s *Server) broadcast(before, after *domain.QuizState) {
	diff := domain.Diff(before, after)
	if diff == nil {
		s.logger.Debug("no diff calculated", "session_id", after.SessionID)
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(after.SessionID, string(payload))
}
