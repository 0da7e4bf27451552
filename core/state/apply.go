package state

// Policy controls what a merge is allowed to change.
type Policy struct {
	// AllowWatchStateChange permits the merge to change watched, updated, title and year.
	// Observations from low-confidence sources are merged with it unset, which limits the
	// merge to identity and metadata fields.
	AllowWatchStateChange bool
}

var (
	// Trusted merges every field.
	Trusted = Policy{AllowWatchStateChange: true}
	// MetadataOnly merges identity and metadata fields only.
	MetadataOnly = Policy{AllowWatchStateChange: false}
)

// Apply merges an observation into e and returns e.
//
// Updated and watched are one unit: both are overwritten, together with via, only when
// the observation is newer and reports a different watched state. Every other field is
// overwritten only when the observation carries a value that differs. Identity sets are
// merged per source, metadata and extra per backend.
func (e *Entity) Apply(other *Entity, policy Policy, fields ...Field) *Entity {
	selected := fieldSet(fields)
	if !policy.AllowWatchStateChange {
		restricted := make(map[Field]struct{}, len(IdentityFields))
		for _, f := range IdentityFields {
			if _, ok := selected[f]; ok {
				restricted[f] = struct{}{}
			}
		}
		selected = restricted
	}
	has := func(f Field) bool {
		_, ok := selected[f]
		return ok
	}

	if has(FieldWatched) && has(FieldUpdated) {
		if other.Updated > e.Updated && other.Watched != e.Watched {
			e.Updated = other.Updated
			e.Watched = other.Watched
			if other.Via != "" {
				e.Via = other.Via
			}
		}
	}

	if has(FieldType) && other.Type != "" && other.Type != e.Type {
		e.Type = other.Type
	}
	if has(FieldVia) && e.Via == "" && other.Via != "" {
		e.Via = other.Via
	}
	if has(FieldTitle) && other.Title != "" && other.Title != e.Title {
		e.Title = other.Title
	}
	if has(FieldYear) && other.Year > 0 && other.Year != e.Year {
		e.Year = other.Year
	}
	if has(FieldSeason) && other.IsEpisode() && other.Season != e.Season {
		e.Season = other.Season
	}
	if has(FieldEpisode) && other.Episode > 0 && other.Episode != e.Episode {
		e.Episode = other.Episode
	}

	if has(FieldParent) && len(other.Parent) > 0 {
		if merged := e.Parent.Merge(other.Parent); !merged.Equal(e.Parent) {
			e.Parent = merged
		}
	}
	if has(FieldGuids) && len(other.Guids) > 0 {
		if merged := e.Guids.Merge(other.Guids); !merged.Equal(e.Guids) {
			e.Guids = merged
		}
	}

	if has(FieldMetadata) {
		for backend, block := range other.Metadata {
			current, ok := e.Metadata[backend]
			if !ok {
				e.SetMeta(backend, block.clone())
				continue
			}
			if merged := current.merge(block); !merged.Equal(current) {
				e.Metadata[backend] = merged
			}
		}
	}

	if has(FieldExtra) {
		for backend, extra := range other.Extra {
			current := e.Extra[backend]
			if extra.Event != "" {
				current.Event = extra.Event
			}
			if extra.ReceivedAt > 0 {
				current.ReceivedAt = extra.ReceivedAt
			}
			if current != e.Extra[backend] {
				if e.Extra == nil {
					e.Extra = make(map[string]Extra)
				}
				e.Extra[backend] = current
			}
		}
	}

	return e
}
