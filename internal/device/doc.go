// Package device provides the appliance catalog for Gray Logic Voice.
//
// The catalog is the fixed set of appliances the skill reports during
// discovery. Records are stored in the legacy (payload version 2) shape;
// version 3 endpoints are derived from them by the smarthome package.
//
// # Sources
//
// A Catalog is built from a Source. Two are provided:
//
//   - SQLiteRepository: the appliances table, ordered by sort_order
//   - FileSource: a YAML file with an "appliances" list
//
// # Usage
//
//	repo := device.NewSQLiteRepository(db.DB)
//	catalog, err := device.LoadCatalog(ctx, repo)
//	if err != nil {
//	    return err
//	}
//
//	rec, err := catalog.Lookup("endpoint-001")
//	if errors.Is(err, device.ErrApplianceNotFound) {
//	    // unknown endpoint
//	}
//
// # Thread Safety
//
// Catalog reads share a read lock. Replace and Reload swap the record set
// atomically; readers see either the old or the new set, never a mix.
//
// # Related Documentation
//
//   - migrations/20260301_100000_appliances.up.sql: database schema
package device
