// Package ignore manages the external id ignore list.
//
// A rule suppresses one external id during identity resolution, either for every item
// ("movie://tmdb:278") or for a single backend item ("movie://tmdb:278?id=55"). Rules
// live in the ignore_rules table. Service.List serves the resolver a cached copy that is
// rebuilt after the configured lifetime or whenever a rule changes; concurrent rebuilds
// are collapsed into one query.
package ignore
