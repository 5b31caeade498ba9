// Package database provides SQLite connectivity for Gray Logic Voice.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Forward-only schema migrations from an embedded filesystem
//   - Health checks for the startup probe
//
// The voice service keeps three tables: the appliance catalog, linked
// accounts for the identity lookup and the directive audit trail.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
