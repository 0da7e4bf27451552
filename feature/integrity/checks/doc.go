// Package checks implements the individual integrity checks: database schema against
// the gorm models, and the object storage layout used by backups.
package checks
