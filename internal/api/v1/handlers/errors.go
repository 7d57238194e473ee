package handlers

import (
	"errors"
	"net/http"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/pkg/httpext"
	"github.com/deepgram/airelay/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
	{domain.ErrThreadResolutionFailed, http.StatusNotFound, "Thread not found"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found"},
	{domain.ErrConflict, http.StatusConflict, "Already exists"},
	{domain.ErrConfigurationMissing, http.StatusServiceUnavailable, "Service not configured"},
	{domain.ErrRunIncomplete, http.StatusGatewayTimeout, "Assistant run did not complete"},
	{domain.ErrEmptyReply, http.StatusBadGateway, "Assistant returned no text"},
	{domain.ErrUpstream, http.StatusBadGateway, "Upstream provider error"},
}

// statusFor maps a service error onto an HTTP status and a short message.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status, message := statusFor(err)

	l := logger.For(logger.HANDLER)
	event := l.Warn()
	if status >= http.StatusInternalServerError {
		event = l.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg(action)

	if status == http.StatusInternalServerError {
		httpext.JsonError(w, message, status)
		return
	}
	httpext.JsonErrorWithDetails(w, status, httpext.ErrorResponse{
		Error:            message,
		ErrorDescription: err.Error(),
	})
}
