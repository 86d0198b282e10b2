package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func mapErrorToHTTPStatus(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrMalformedDocument),
		domain.IsKind(err, domain.ErrNotLegalDocument),
		domain.IsKind(err, domain.ErrNoClausesFound):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	stage := domain.StageOf(err)

	attrs := []any{
		"request_id", requestIDFromContext(r.Context()),
		"status", status,
		"stage", stage,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed", attrs...)
	} else {
		slog.Warn("request_rejected", attrs...)
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Stage: stage})
}
