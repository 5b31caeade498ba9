package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

// handleListAppliances returns the catalog records in catalog order.
func (s *Server) handleListAppliances(w http.ResponseWriter, _ *http.Request) {
	records := s.dispatcher.Catalog().Records()
	writeJSON(w, http.StatusOK, map[string]any{
		"appliances": records,
		"count":      len(records),
	})
}

// handleGetAppliance returns a single catalog record.
func (s *Server) handleGetAppliance(w http.ResponseWriter, r *http.Request) {
	rec, err := s.dispatcher.Catalog().Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, "appliance not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleCreateAppliance stores a new appliance and reloads the catalog.
func (s *Server) handleCreateAppliance(w http.ResponseWriter, r *http.Request) {
	if s.appliances == nil {
		writeError(w, http.StatusConflict, ErrCodeConflict, "appliance catalog is file-backed")
		return
	}

	var rec device.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.appliances.Create(r.Context(), &rec); err != nil {
		switch {
		case errors.Is(err, device.ErrInvalidRecord):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		case errors.Is(err, device.ErrApplianceExists):
			writeError(w, http.StatusConflict, ErrCodeConflict, "appliance already exists")
		default:
			s.logger.Error("creating appliance", "error", err)
			writeInternalError(w, "failed to create appliance")
		}
		return
	}

	if !s.reloadCatalog(w, r) {
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleDeleteAppliance removes an appliance and reloads the catalog.
func (s *Server) handleDeleteAppliance(w http.ResponseWriter, r *http.Request) {
	if s.appliances == nil {
		writeError(w, http.StatusConflict, ErrCodeConflict, "appliance catalog is file-backed")
		return
	}

	if err := s.appliances.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, device.ErrApplianceNotFound) {
			writeNotFound(w, "appliance not found")
			return
		}
		s.logger.Error("deleting appliance", "error", err)
		writeInternalError(w, "failed to delete appliance")
		return
	}

	if !s.reloadCatalog(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReloadCatalog swaps the catalog contents from its source.
func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if !s.reloadCatalog(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appliances": s.dispatcher.Catalog().Len(),
	})
}

// reloadCatalog reloads from s.source and writes an error response on
// failure. It reports whether the caller may continue.
func (s *Server) reloadCatalog(w http.ResponseWriter, r *http.Request) bool {
	if s.source == nil {
		writeError(w, http.StatusConflict, ErrCodeConflict, "no catalog source configured")
		return false
	}

	err := device.ReloadAndReport(r.Context(), s.dispatcher.Catalog(), s.source, device.TriggerAPI, s.reloads)
	if err != nil {
		if errors.Is(err, device.ErrInvalidRecord) || errors.Is(err, device.ErrApplianceExists) {
			writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
			return false
		}
		s.logger.Error("reloading catalog", "error", err)
		writeInternalError(w, "failed to reload catalog")
		return false
	}

	s.logger.Info("appliance catalog reloaded", "appliances", s.dispatcher.Catalog().Len())
	return true
}

// handleListEndpoints returns the version 3 view of the catalog.
func (s *Server) handleListEndpoints(w http.ResponseWriter, _ *http.Request) {
	endpoints := smarthome.ToEndpoints(s.dispatcher.Catalog().Records())
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoints": endpoints,
		"count":     len(endpoints),
	})
}

// handleGetEndpoint returns the version 3 view of one appliance.
func (s *Server) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	rec, err := s.dispatcher.Catalog().Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, "endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, smarthome.ToEndpoint(*rec))
}
