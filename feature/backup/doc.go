// Package backup exports the history to object storage and restores it.
//
// A backup is one JSON document holding every record, written to
// <bucket>/<prefix>/<timestamp>-<id>.json. Restoring feeds the records back through the
// reconciliation mapper with their primary keys dropped, so they match existing records
// by identity.
package backup
