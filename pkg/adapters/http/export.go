package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/export"
	"github.com/aretw0/tatami/pkg/tags"
	"github.com/oapi-codegen/runtime"
)

// NormalizeTags handles POST /tags/normalize. The tags field may be a
// list or a comma-separated string.
func (s *Server) NormalizeTags(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tags any `json:"tags"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"tags": tags.NormalizeTags(body.Tags)})
}

var exportKinds = map[string]string{
	"sequences": "sequences_",
	"nodes":     "sequence_nodes_",
	"edges":     "sequence_edges_",
}

// ExportSequences handles GET /export/sequences/{kind}.
func (s *Server) ExportSequences(w http.ResponseWriter, r *http.Request) {
	kind, err := pathParam(r, "kind")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	prefix, ok := exportKinds[kind]
	if !ok {
		badRequest(w, s.logger, fmt.Sprintf("unknown export kind %q", kind))
		return
	}

	files, err := s.Service.ExportSequences(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, f := range files {
		if strings.HasPrefix(f.Name, prefix) {
			s.sendFile(w, f, "text/csv; charset=utf-8")
			return
		}
	}
	s.writeError(w, r, fmt.Errorf("export %s produced no file", kind))
}

// ListCurricula handles GET /curricula.
func (s *Server) ListCurricula(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Service.ListCurricula(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cs == nil {
		cs = []*domain.Curriculum{}
	}
	writeJSON(w, s.logger, http.StatusOK, cs)
}

// ExportCurriculum handles GET /curricula/{id}/export.
func (s *Server) ExportCurriculum(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	format := "csv"
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		badRequest(w, s.logger, err.Error())
		return
	}
	if format != "csv" && format != "json" {
		badRequest(w, s.logger, fmt.Sprintf("unknown format %q", format))
		return
	}

	files, err := s.Service.ExportCurriculum(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	contentType := map[string]string{"csv": "text/csv; charset=utf-8", "json": "application/json"}[format]
	for _, f := range files {
		if strings.HasSuffix(f.Name, "."+format) {
			s.sendFile(w, f, contentType)
			return
		}
	}
	s.writeError(w, r, fmt.Errorf("curriculum export produced no %s file", format))
}

func (s *Server) sendFile(w http.ResponseWriter, f export.File, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	if _, err := w.Write(f.Data); err != nil {
		s.logger.Error("export write failed", "file", f.Name, "err", err)
	}
}
