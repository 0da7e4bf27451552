// Package state holds the canonical watch-state record of one movie or episode and the
// rules used to merge backend observations into it.
//
// An Entity is created from a backend observation or loaded from storage. Observations
// are merged with Apply under a Policy; the watched flag and the updated timestamp only
// move together, and only forward, so a backend with a stale clock cannot revert watch
// state. Unplaying is detected separately by ShouldMarkUnplayed, because backends drop
// the last-played timestamp when an item is marked unwatched.
//
// Diff compares an entity against the snapshot taken when it was last persisted. The
// metadata map is never part of Diff, and cosmetic fields (via, title, year, season,
// episode, extra) only count when the watched state changed too.
package state
