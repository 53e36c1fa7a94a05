package http

import (
	"net/http"

	"github.com/aretw0/tatami/internal/presentation/graph"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type sequenceWrite struct {
	Sequence *domain.Sequence `json:"sequence"`
	Warnings []string         `json:"warnings"`
}

func newSequenceWrite(seq *domain.Sequence, refs *domain.ReferenceErrors) sequenceWrite {
	out := sequenceWrite{Sequence: seq, Warnings: []string{}}
	if refs != nil {
		for _, e := range refs.Errors {
			out.Warnings = append(out.Warnings, e.Error())
		}
	}
	return out
}

// pathParam binds a simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	return v, err
}

// ListSequences handles GET /sequences.
func (s *Server) ListSequences(w http.ResponseWriter, r *http.Request) {
	var opts ports.ListOptions
	if err := runtime.BindQueryParameter("form", true, false, "tag", r.URL.Query(), &opts.Tag); err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "include_archived", r.URL.Query(), &opts.IncludeArchived); err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}

	seqs, err := s.Service.ListSequences(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if seqs == nil {
		seqs = []*domain.Sequence{}
	}
	writeJSON(w, s.logger, http.StatusOK, seqs)
}

// CreateSequence handles POST /sequences.
func (s *Server) CreateSequence(w http.ResponseWriter, r *http.Request) {
	in, err := decodeSequence(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	seq, refs, err := s.Service.CreateSequence(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, newSequenceWrite(seq, refs))
}

// GetSequence handles GET /sequences/{id}.
func (s *Server) GetSequence(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	seq, err := s.Service.GetSequence(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, seq)
}

// SaveSequence handles PUT /sequences/{id}. The path id wins over the body.
func (s *Server) SaveSequence(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	in, err := decodeSequence(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in.ID = id

	seq, refs, err := s.Service.SaveSequence(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, newSequenceWrite(seq, refs))
}

// DeleteSequence handles DELETE /sequences/{id}.
func (s *Server) DeleteSequence(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	if err := s.Service.DeleteSequence(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveSequence handles POST /sequences/{id}/archive.
func (s *Server) ArchiveSequence(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	var body struct {
		Archived bool `json:"archived"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Service.ArchiveSequence(r.Context(), id, body.Archived); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSequenceGraph handles GET /sequences/{id}/graph.
func (s *Server) GetSequenceGraph(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	var sessionID string
	if err := runtime.BindQueryParameter("form", true, false, "session_id", r.URL.Query(), &sessionID); err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}

	seq, err := s.Service.GetSequence(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var overlay *graph.GraphOverlay
	if sessionID != "" {
		state, err := s.Service.QuizState(r.Context(), sessionID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		overlay = graph.OverlayFromState(state)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(seq, overlay)))
}

// LintSequence handles GET /sequences/{id}/lint.
func (s *Server) LintSequence(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	report, err := s.Service.Lint(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	warnings := report.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"warnings": warnings})
}
