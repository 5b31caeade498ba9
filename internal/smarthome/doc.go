// Package smarthome routes voice-assistant smart-home directives and builds
// their responses.
//
// Two payload versions are served side by side: the legacy flat envelope
// (header + payload, version "2") and the directive/event envelope
// (version "3"). A Dispatcher detects the version, picks a handler from a
// static route table and returns the envelope in the matching version.
//
// # Flow
//
//	raw JSON ──▶ ParseRequest ──▶ Dispatcher ──▶ handler ──▶ Assembler
//	                 │                                         │
//	           DetectVersion                      (version 3) Validator
//	                                                           │
//	                                               Response ◀──┘
//
// Legacy catalog records become version 3 endpoints through ToEndpoint,
// which infers display categories and capabilities from the model name.
//
// # Usage
//
//	d, err := smarthome.NewDispatcher(smarthome.Deps{
//	    Catalog:   catalog,
//	    Identity:  identity.NewSQLiteStore(db.DB),
//	    Validator: validator,
//	    Logger:    log,
//	})
//	resp, err := d.Dispatch(ctx, body)
//	switch {
//	case errors.Is(err, smarthome.ErrMalformedRequest):
//	    // 400
//	case err != nil:
//	    // 500
//	}
//
// Unsupported directives and unlinked bearer tokens are answered with
// error envelopes, never with Go errors.
//
// # Thread Safety
//
// Dispatch is safe for concurrent use; requests share only the catalog.
package smarthome
