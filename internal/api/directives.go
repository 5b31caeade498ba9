package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

// handleDirective dispatches a raw smart home request.
//
// Any response the dispatcher produces, including error envelopes, is
// returned with 200 because the platform reads the error from the body.
// Non-2xx statuses are reserved for requests that got no envelope at all.
func (s *Server) handleDirective(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
			return
		}
		writeBadRequest(w, "reading request body")
		return
	}

	resp, err := s.dispatcher.Dispatch(r.Context(), raw)
	if err != nil {
		s.writeDispatchError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeDispatchError maps dispatcher failures onto HTTP statuses.
func (s *Server) writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, smarthome.ErrMalformedRequest):
		writeError(w, http.StatusBadRequest, ErrCodeMalformedDirective, err.Error())
	case errors.Is(err, smarthome.ErrLookupFailed):
		writeError(w, http.StatusBadGateway, ErrCodeUpstreamUnavailable, "identity lookup failed")
	case errors.Is(err, smarthome.ErrValidation):
		s.logger.Error("directive response failed validation",
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeError(w, http.StatusInternalServerError, ErrCodeValidation, "response failed validation")
	default:
		s.logger.Error("directive dispatch failed",
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "directive dispatch failed")
	}
}
