package state

// Field names one declared attribute of an Entity.
type Field string

const (
	FieldType     Field = "type"
	FieldUpdated  Field = "updated"
	FieldWatched  Field = "watched"
	FieldVia      Field = "via"
	FieldTitle    Field = "title"
	FieldYear     Field = "year"
	FieldSeason   Field = "season"
	FieldEpisode  Field = "episode"
	FieldParent   Field = "parent"
	FieldGuids    Field = "guids"
	FieldMetadata Field = "metadata"
	FieldExtra    Field = "extra"
)

// AllFields lists every declared field in storage order.
var AllFields = []Field{
	FieldType,
	FieldUpdated,
	FieldWatched,
	FieldVia,
	FieldTitle,
	FieldYear,
	FieldSeason,
	FieldEpisode,
	FieldParent,
	FieldGuids,
	FieldMetadata,
	FieldExtra,
}

// IdentityFields are the only fields a metadata-only merge may touch.
var IdentityFields = []Field{FieldParent, FieldGuids, FieldMetadata, FieldExtra}

// conditionalFields only count as a change when the watched state changed as well.
var conditionalFields = map[Field]struct{}{
	FieldVia:     {},
	FieldTitle:   {},
	FieldYear:    {},
	FieldSeason:  {},
	FieldEpisode: {},
	FieldExtra:   {},
}

// ParseField returns the field with the given name.
func ParseField(name string) (Field, bool) {
	for _, f := range AllFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// fieldSet turns an optional field list into a lookup set. No fields means all of them.
func fieldSet(fields []Field) map[Field]struct{} {
	if len(fields) == 0 {
		fields = AllFields
	}
	set := make(map[Field]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
