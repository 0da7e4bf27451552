// Package guid resolves the external identifiers reported by media backends into a
// canonical identity set.
//
// Every backend names its external ids differently ("imdb", "com.plexapp.agents.imdb",
// "Tmdb", ...) and occasionally reports duplicates or conflicting values for the same
// source. The Resolver folds those raw dictionaries into a Set keyed by canonical source
// name, so that records coming from unrelated backends can be matched against each other.
//
// # Modes
//
// Resolve runs in one of two modes:
//   - ModeSilent: never logs, safe for hot paths such as webhook parsing.
//   - ModeLog: additionally reports ambiguous mappings, duplicates and parse failures.
//
// Neither mode returns an error; malformed input is dropped.
//
// # Ignore rules
//
// A user can break a known-bad cross reference by adding an ignore rule. Rules are keyed
// as "type://source:id" (global) or "type://source:id?id=<native id>" (scoped to a single
// backend item) and are injected into the Resolver as an IgnoreList.
//
// # Usage
//
//	r := guid.NewResolver(guid.Options{
//	    Backend: "home_plex",
//	    Table:   guid.TableFor("plex"),
//	    Ignore:  list,
//	    Logger:  log,
//	})
//	ids := r.Identity(raw, guid.Context{Type: "movie", NativeID: "55"})
package guid
