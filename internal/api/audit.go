package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/gray-logic-voice/internal/audit"
)

// handleListAudit returns recorded directive outcomes, newest first.
//
// Query parameters: namespace, name, endpoint_id, outcome, limit, offset.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "audit log not configured")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Namespace:  q.Get("namespace"),
		Name:       q.Get("name"),
		EndpointID: q.Get("endpoint_id"),
		Outcome:    q.Get("outcome"),
	}

	var err error
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil || filter.Limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil || filter.Offset < 0 {
			writeBadRequest(w, "offset must be a non-negative integer")
			return
		}
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit log", "error", err)
		writeInternalError(w, "failed to list audit log")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
