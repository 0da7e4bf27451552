package state

import "time"

// ShouldMarkUnplayed reports whether obs is a legitimate "mark as unplayed" from the
// backend named by obs.Via. All of the following must hold:
//
//  1. obs is not watched and e is watched;
//  2. e already has a metadata block for that backend, with native id, played_at and
//     added_at populated and watched set;
//  3. obs reports the same native id as the stored block;
//  4. obs.Updated equals the stored added_at.
//
// Backends drop the last-played timestamp on unplay and fall back to the added date, so
// that echo is the only signal left to correlate the two reports. The comparison is exact.
func (e *Entity) ShouldMarkUnplayed(obs *Entity) bool {
	if obs.Watched || !e.Watched {
		return false
	}
	if obs.Via == "" {
		return false
	}

	local, ok := e.Metadata[obs.Via]
	if !ok {
		return false
	}
	if local.ID == "" || local.PlayedAt == 0 || local.AddedAt == 0 {
		return false
	}
	if !local.Watched {
		return false
	}

	remote, ok := obs.Metadata[obs.Via]
	if !ok || remote.ID != local.ID {
		return false
	}

	return obs.Updated == local.AddedAt
}

// MarkUnplayed flips e to unwatched on behalf of the backend that reported obs: via is
// set to that backend, its played_at is removed and updated is stamped with at.
func (e *Entity) MarkUnplayed(obs *Entity, at time.Time) *Entity {
	e.Watched = false
	e.Via = obs.Via
	e.Updated = at.Unix()

	if block, ok := e.Metadata[obs.Via]; ok {
		block.PlayedAt = 0
		e.Metadata[obs.Via] = block
	}
	return e
}
