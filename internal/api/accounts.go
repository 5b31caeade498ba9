package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-voice/internal/identity"
)

// linkAccountRequest is the body of POST /accounts.
type linkAccountRequest struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	EndpointURL string `json:"endpoint_url"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// handleLinkAccount associates a platform access token with a camera
// endpoint and its credentials. The token itself is stored hashed.
func (s *Server) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "account store not configured")
		return
	}

	var req linkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	err := s.accounts.Link(r.Context(), req.AccessToken, identity.Association{
		UserID:      req.UserID,
		EndpointURL: req.EndpointURL,
		Username:    req.Username,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidAssociation) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, "access_token, user_id and endpoint_url are required")
			return
		}
		s.logger.Error("linking account", "error", err)
		writeInternalError(w, "failed to link account")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id":      req.UserID,
		"endpoint_url": req.EndpointURL,
	})
}

// handleUnlinkAccount removes every link held by a user.
func (s *Server) handleUnlinkAccount(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "account store not configured")
		return
	}

	n, err := s.accounts.Unlink(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.logger.Error("unlinking account", "error", err)
		writeInternalError(w, "failed to unlink account")
		return
	}
	if n == 0 {
		writeNotFound(w, "no linked account for user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
