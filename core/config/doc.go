// Package config loads the service configuration.
//
// Values come from struct tag defaults, an optional config.yaml, a .env file and the
// environment, later sources winning. Nested keys map to upper snake case variables:
// sync.backends is SYNC_BACKENDS, database.driver is DATABASE_DRIVER.
//
// # Sections
//
//   - Server: HTTP port, API key and body limit
//   - Sync: backends ("name=kind,..."), ignore list cache lifetime, backup prefix
//   - Database: driver (mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the backup bucket
//   - Log: level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	backends, _ := cfg.Sync.ParseBackends()
package config
