package state

import "maps"

// Change describes one field that differs from the persisted snapshot.
type Change struct {
	Field Field `json:"field"`
	Old   any   `json:"old"`
	New   any   `json:"new"`
}

// Diff lists the fields that changed since the last snapshot, restricted to fields when
// given. Metadata is never reported. Via, title, year, season, episode and extra are only
// reported when the watched state changed as well. A record without a snapshot is
// compared against an empty record.
func (e *Entity) Diff(fields ...Field) []Change {
	prev := e.persisted
	if prev == nil {
		prev = &Entity{}
	}

	selected := fieldSet(fields)
	watchedChanged := e.Watched != prev.Watched

	var changes []Change
	for _, f := range AllFields {
		if _, ok := selected[f]; !ok || f == FieldMetadata {
			continue
		}
		if _, ok := conditionalFields[f]; ok && !watchedChanged {
			continue
		}
		if c, ok := compare(f, prev, e); ok {
			changes = append(changes, c)
		}
	}
	return changes
}

// IsChanged reports whether the record needs to be written. Unlike Diff it also counts
// differences in the metadata map.
func (e *Entity) IsChanged(fields ...Field) bool {
	if len(e.Diff(fields...)) > 0 {
		return true
	}
	if _, ok := fieldSet(fields)[FieldMetadata]; !ok {
		return false
	}
	prev := e.persisted
	if prev == nil {
		prev = &Entity{}
	}
	return !metadataEqual(prev.Metadata, e.Metadata)
}

func compare(f Field, prev, cur *Entity) (Change, bool) {
	var old, now any
	var equal bool

	switch f {
	case FieldType:
		old, now, equal = prev.Type, cur.Type, prev.Type == cur.Type
	case FieldUpdated:
		old, now, equal = prev.Updated, cur.Updated, prev.Updated == cur.Updated
	case FieldWatched:
		old, now, equal = prev.Watched, cur.Watched, prev.Watched == cur.Watched
	case FieldVia:
		old, now, equal = prev.Via, cur.Via, prev.Via == cur.Via
	case FieldTitle:
		old, now, equal = prev.Title, cur.Title, prev.Title == cur.Title
	case FieldYear:
		old, now, equal = prev.Year, cur.Year, prev.Year == cur.Year
	case FieldSeason:
		old, now, equal = prev.Season, cur.Season, prev.Season == cur.Season
	case FieldEpisode:
		old, now, equal = prev.Episode, cur.Episode, prev.Episode == cur.Episode
	case FieldParent:
		old, now, equal = prev.Parent, cur.Parent, prev.Parent.Equal(cur.Parent)
	case FieldGuids:
		old, now, equal = prev.Guids, cur.Guids, prev.Guids.Equal(cur.Guids)
	case FieldMetadata:
		old, now, equal = prev.Metadata, cur.Metadata, metadataEqual(prev.Metadata, cur.Metadata)
	case FieldExtra:
		old, now, equal = prev.Extra, cur.Extra, maps.Equal(prev.Extra, cur.Extra)
	default:
		return Change{}, false
	}

	if equal {
		return Change{}, false
	}
	return Change{Field: f, Old: old, New: now}, true
}

func metadataEqual(a, b map[string]Metadata) bool {
	return maps.EqualFunc(a, b, func(x, y Metadata) bool { return x.Equal(y) })
}
