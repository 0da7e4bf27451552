// Package database opens the gorm connection and inspects schemas.
//
// MySQL is used for shared deployments, SQLite (a file or ":memory:") for single-user
// installs and tests. The driver is picked by Config.Driver.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects. The integrity checks
// use it to verify that the state tables match the models of the history and ignore
// features.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	if err := database.Migrate(db, &models.State{}, &models.StateIdentity{}); err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "states")
package database
