// Package api is the HTTP surface of Gray Logic Voice.
//
// It provides:
//   - POST /api/v1/directives: hands the raw smart home request to the
//     dispatcher and returns the response envelope unchanged
//   - admin routes for the appliance catalog, the endpoints view, linked
//     accounts and the directive audit trail
//   - a WebSocket feed broadcasting each outcome on "directive.handled"
//   - the middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Security
//
// Admin routes require an HS256 operator token (see package auth). The
// WebSocket uses single-use tickets so the token never appears in a URL.
// The directive route is unauthenticated here; the skill front end is
// expected to sit in front of it.
package api
