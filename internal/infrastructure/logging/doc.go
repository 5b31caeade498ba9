// Package logging provides structured logging for Gray Logic Voice.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "file"     # stdout, stderr, file
//	  file:
//	    path: "./logs/graylogic-voice.log"
//	    max_size: 50     # MB before rotation
//	    max_backups: 5
//	    max_age: 28      # days
//
// # Security
//
// Never log bearer tokens, grant codes or stream credentials.
package logging
