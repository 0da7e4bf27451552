package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"watchstate/core/guid"
	"watchstate/core/state"
	"watchstate/feature/history/models"
)

// ErrMissingID is returned for observations without a native id.
var ErrMissingID = errors.New("observation has no native id")

// ToEntity turns a backend observation into a record through the backend's resolver.
// Items without any public id receive the backend-scoped virtual identity.
func ToEntity(r *guid.Resolver, o models.Observation, receivedAt time.Time) (*state.Entity, error) {
	typ := state.Type(strings.ToLower(strings.TrimSpace(o.Type)))
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: %q", state.ErrInvalidType, o.Type)
	}
	if o.ID == "" {
		return nil, ErrMissingID
	}

	ctx := guid.Context{Type: string(typ), NativeID: o.ID, Title: o.Title}
	guids := r.Identity(o.Guids, ctx)
	var parent guid.Set
	if typ == state.TypeEpisode {
		parent = r.Get(o.Parent, ctx)
	}

	backend := r.Backend()
	e := &state.Entity{
		Type:    typ,
		Updated: o.UpdatedAt(),
		Watched: o.Watched,
		Via:     backend,
		Title:   o.Title,
		Year:    o.Year,
		Guids:   guids,
		Parent:  parent,
	}
	if typ == state.TypeEpisode {
		e.Season = o.Season
		e.Episode = o.Episode
	}

	e.SetMeta(backend, state.Metadata{
		ID:       o.ID,
		Type:     typ,
		Watched:  o.Watched,
		Title:    o.Title,
		Year:     o.Year,
		Season:   e.Season,
		Episode:  e.Episode,
		Guids:    guids.Clone(),
		Parent:   parent.Clone(),
		AddedAt:  o.AddedAt,
		PlayedAt: o.PlayedAt,
		Library:  o.Library,
		Path:     o.Path,
		Extra:    o.Extra,
	})
	e.Extra = map[string]state.Extra{
		backend: {Event: o.Event, ReceivedAt: receivedAt.Unix()},
	}
	return e, nil
}
