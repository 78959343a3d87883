package server

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/vango-dev/hxstate/internal/errors"
	"github.com/vango-dev/hxstate/pkg/middleware"
	"github.com/vango-dev/hxstate/pkg/state"
)

// classify maps a handler error to its coded form. Anything unrecognized is
// treated as the store being unavailable.
func classify(err error) *apperrors.AppError {
	var ae *apperrors.AppError
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, state.ErrItemNotFound):
		return apperrors.New(apperrors.CodeItemNotFound).Wrap(err)
	case errors.Is(err, state.ErrNoSession):
		return apperrors.New(apperrors.CodeNoSession).Wrap(err)
	default:
		return apperrors.FromError(err, apperrors.CodeStoreUnavailable)
	}
}

func malformed(field, reason string) error {
	return apperrors.New(apperrors.CodeMalformedInput).WithDetail(field + ": " + reason)
}

func renderError(err error) error {
	return apperrors.New(apperrors.CodeRenderFailed).Wrap(err)
}

// fail answers the request with the status for err. Server faults get a
// generic body and are logged at Error; client faults are logged at Debug.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	ae := classify(err)
	status := ae.HTTPStatus()
	s.metrics.RecordActionError(action, string(ae.Category))

	attrs := []slog.Attr{
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.String("action", action),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("code", ae.Code),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		middleware.RecordError(r.Context(), err)
		s.logger.LogAttrs(r.Context(), slog.LevelError, "action failed", attrs...)
	} else {
		if ae.Detail != "" {
			attrs = append(attrs, slog.String("detail", ae.Detail))
		}
		s.logger.LogAttrs(r.Context(), slog.LevelDebug, "action rejected", attrs...)
	}

	http.Error(w, ae.Message, status)
}
