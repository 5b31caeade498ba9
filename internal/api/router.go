package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-voice/internal/auth"
)

// healthCheckTimeout bounds each component check in GET /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Smart home directives (authenticated upstream)
		r.Post("/directives", s.handleDirective)

		// WebSocket (auth via ticket, validated in handler)
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.With(s.requirePermission(auth.PermAuditRead)).Post("/auth/ws-ticket", s.handleWSTicket)
			r.With(s.requirePermission(auth.PermAuditRead)).Get("/audit", s.handleListAudit)
			r.With(s.requirePermission(auth.PermCatalogRead)).Get("/routes", s.handleListRoutes)

			r.Route("/appliances", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermCatalogRead)).Get("/", s.handleListAppliances)
				r.With(s.requirePermission(auth.PermCatalogManage)).Post("/", s.handleCreateAppliance)
				r.With(s.requirePermission(auth.PermCatalogRead)).Get("/{id}", s.handleGetAppliance)
				r.With(s.requirePermission(auth.PermCatalogManage)).Delete("/{id}", s.handleDeleteAppliance)
			})

			r.Route("/endpoints", func(r chi.Router) {
				r.Use(s.requirePermission(auth.PermCatalogRead))
				r.Get("/", s.handleListEndpoints)
				r.Get("/{id}", s.handleGetEndpoint)
			})

			r.With(s.requirePermission(auth.PermCatalogManage)).Post("/catalog/reload", s.handleReloadCatalog)

			r.Route("/accounts", func(r chi.Router) {
				r.Use(s.requirePermission(auth.PermAccountManage))
				r.Post("/", s.handleLinkAccount)
				r.Delete("/{userID}", s.handleUnlinkAccount)
			})
		})
	})

	return r
}

// handleHealth reports the server version, catalog size and the state of
// each optional component. Any failing component yields 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK

	names := make([]string, 0, len(s.health))
	for name := range s.health {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.health[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			components[name] = err.Error()
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":     status,
		"version":    s.version,
		"appliances": s.dispatcher.Catalog().Len(),
		"components": components,
	})
}

// handleListRoutes lists the directives the dispatcher answers.
func (s *Server) handleListRoutes(w http.ResponseWriter, _ *http.Request) {
	keys := s.dispatcher.Routes()
	routes := make([]string, 0, len(keys))
	for _, k := range keys {
		routes = append(routes, k.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": routes})
}
