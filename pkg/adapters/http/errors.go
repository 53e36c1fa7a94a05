package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/internal/validator"
	"github.com/aretw0/tatami/pkg/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	var shapeErr *validator.ShapeError
	switch {
	case errors.Is(err, domain.ErrSequenceNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrCurriculumNotFound),
		errors.Is(err, domain.ErrLessonNotFound),
		errors.Is(err, domain.ErrTechniqueNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrEmptySequence),
		errors.Is(err, domain.ErrNoHubResolvable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQuizNotStarted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &shapeErr), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, tatami.ErrWatchUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, s.logger, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, logger *slog.Logger, msg string) {
	writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

// maxBodyBytes leaves room for JSON overhead around a full-size document.
const maxBodyBytes = 2 * domain.MaxDocumentBytes

// decodeBody reads a JSON request body. Oversized bodies fail with
// domain.ErrDocumentTooLarge, malformed ones with errBadBody.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ErrDocumentTooLarge
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// decodeSequence reads a sequence document in either the current or the
// legacy shape and returns it canonicalized.
func decodeSequence(w http.ResponseWriter, r *http.Request) (*domain.Sequence, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrDocumentTooLarge
		}
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	seq, err := domain.ParseSequenceJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return seq, nil
}

var errBadBody = errors.New("invalid request body")
