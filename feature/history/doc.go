// Package history stores the canonical watch history and ingests backend observations.
//
// Store is the gorm implementation of reconcile.Store. Each record is one row of the
// states table, with its identity sets and per-backend metadata in JSON columns, and
// one row per lookup pointer in state_identities so identity matching is a single
// indexed IN query. Commit writes a batch in one transaction with a savepoint per
// record.
//
// Service converts observations into records through the backend's identity resolver
// and runs them through a reconcile.Mapper. Handler exposes:
//
//	POST   /history/ingest/:backend?tainted=&after=
//	GET    /history?type=&watched=&since=&limit=&offset=
//	GET    /history/stats
//	GET    /history/:id
//	DELETE /history/:id
package history
