package state

import (
	"fmt"
	"maps"

	"watchstate/core/guid"

	"go.uber.org/zap"
)

// Type is the kind of media a record describes.
type Type string

const (
	TypeMovie   Type = "movie"
	TypeEpisode Type = "episode"
)

// IsValid reports whether t is a known record type.
func (t Type) IsValid() bool {
	return t == TypeMovie || t == TypeEpisode
}

// Metadata is what one backend reported about a record. Zero values mean "not reported".
type Metadata struct {
	ID       string            `json:"id,omitempty"`
	Type     Type              `json:"type,omitempty"`
	Watched  bool              `json:"watched"`
	Title    string            `json:"title,omitempty"`
	Year     int               `json:"year,omitempty"`
	Season   int               `json:"season,omitempty"`
	Episode  int               `json:"episode,omitempty"`
	Guids    guid.Set          `json:"guids,omitempty"`
	Parent   guid.Set          `json:"parent,omitempty"`
	AddedAt  int64             `json:"added_at,omitempty"`
	PlayedAt int64             `json:"played_at,omitempty"`
	Library  string            `json:"library,omitempty"`
	Path     string            `json:"path,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Equal reports whether both blocks carry the same values.
func (m Metadata) Equal(o Metadata) bool {
	return m.ID == o.ID &&
		m.Type == o.Type &&
		m.Watched == o.Watched &&
		m.Title == o.Title &&
		m.Year == o.Year &&
		m.Season == o.Season &&
		m.Episode == o.Episode &&
		m.Guids.Equal(o.Guids) &&
		m.Parent.Equal(o.Parent) &&
		m.AddedAt == o.AddedAt &&
		m.PlayedAt == o.PlayedAt &&
		m.Library == o.Library &&
		m.Path == o.Path &&
		maps.Equal(m.Extra, o.Extra)
}

// merge applies every reported value of o on top of m. The watched flag is always taken
// from o since it cannot be "absent".
func (m Metadata) merge(o Metadata) Metadata {
	out := m.clone()
	if o.ID != "" {
		out.ID = o.ID
	}
	if o.Type != "" {
		out.Type = o.Type
	}
	out.Watched = o.Watched
	if o.Title != "" {
		out.Title = o.Title
	}
	if o.Year > 0 {
		out.Year = o.Year
	}
	if o.Type == TypeEpisode {
		out.Season = o.Season
	}
	if o.Episode > 0 {
		out.Episode = o.Episode
	}
	if len(o.Guids) > 0 {
		out.Guids = o.Guids.Clone()
	}
	if len(o.Parent) > 0 {
		out.Parent = o.Parent.Clone()
	}
	if o.AddedAt > 0 {
		out.AddedAt = o.AddedAt
	}
	if o.PlayedAt > 0 {
		out.PlayedAt = o.PlayedAt
	}
	if o.Library != "" {
		out.Library = o.Library
	}
	if o.Path != "" {
		out.Path = o.Path
	}
	if len(o.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]string, len(o.Extra))
		}
		for k, v := range o.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func (m Metadata) clone() Metadata {
	out := m
	out.Guids = m.Guids.Clone()
	out.Parent = m.Parent.Clone()
	if m.Extra != nil {
		out.Extra = maps.Clone(m.Extra)
	}
	return out
}

// Extra records how an observation reached us from one backend.
type Extra struct {
	Event      string `json:"event,omitempty"`
	ReceivedAt int64  `json:"received_at,omitempty"`
}

// Entity is the canonical watch-state record of one movie or episode.
type Entity struct {
	// ID is the primary key, 0 until the record is persisted.
	ID   int64 `json:"id"`
	Type Type  `json:"type"`
	// Updated is the unix time of the last accepted observation.
	Updated int64 `json:"updated"`
	Watched bool  `json:"watched"`
	// Via names the backend that produced the authoritative observation.
	Via      string              `json:"via"`
	Title    string              `json:"title"`
	Year     int                 `json:"year,omitempty"`
	Season   int                 `json:"season,omitempty"`
	Episode  int                 `json:"episode,omitempty"`
	Parent   guid.Set            `json:"parent,omitempty"`
	Guids    guid.Set            `json:"guids"`
	Metadata map[string]Metadata `json:"metadata"`
	Extra    map[string]Extra    `json:"extra,omitempty"`

	persisted *Entity
}

// Clone returns a deep copy, including the persisted snapshot.
func (e *Entity) Clone() *Entity {
	out := e.cloneData()
	out.persisted = e.persisted
	return out
}

func (e *Entity) cloneData() *Entity {
	out := *e
	out.persisted = nil
	out.Parent = e.Parent.Clone()
	out.Guids = e.Guids.Clone()
	if e.Metadata != nil {
		out.Metadata = make(map[string]Metadata, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v.clone()
		}
	}
	if e.Extra != nil {
		out.Extra = maps.Clone(e.Extra)
	}
	return &out
}

// Snapshot records the current values as the last persisted state. Diff and IsChanged
// compare against it.
func (e *Entity) Snapshot() *Entity {
	e.persisted = e.cloneData()
	return e
}

// Persisted returns the snapshot taken by the last Snapshot call, or nil.
func (e *Entity) Persisted() *Entity {
	return e.persisted
}

// Meta returns the metadata block of a backend.
func (e *Entity) Meta(backend string) (Metadata, bool) {
	m, ok := e.Metadata[backend]
	return m, ok
}

// SetMeta stores the metadata block of a backend.
func (e *Entity) SetMeta(backend string, m Metadata) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]Metadata)
	}
	e.Metadata[backend] = m
}

// IsMovie reports whether the record is a movie.
func (e *Entity) IsMovie() bool {
	return e.Type == TypeMovie
}

// IsEpisode reports whether the record is an episode.
func (e *Entity) IsEpisode() bool {
	return e.Type == TypeEpisode
}

// HasGuids reports whether the record carries at least one external id.
func (e *Entity) HasGuids() bool {
	return len(e.Guids) > 0
}

// HasParentGuid reports whether the record carries series ids.
func (e *Entity) HasParentGuid() bool {
	return len(e.Parent) > 0
}

// HasRelativeGuid reports whether an episode can be identified by its series ids plus
// season and episode numbers.
func (e *Entity) HasRelativeGuid() bool {
	return e.IsEpisode() && e.HasParentGuid() && e.Episode > 0
}

// Pointers returns the lookup keys under which the record is indexed. Two records that
// share any pointer describe the same title.
func (e *Entity) Pointers() []string {
	pointers := make([]string, 0, len(e.Guids)+len(e.Parent))
	for _, pair := range e.Guids.Pairs() {
		pointers = append(pointers, fmt.Sprintf("%s/%s", e.Type, pair))
	}
	if e.HasRelativeGuid() {
		for _, pair := range e.Parent.Pairs() {
			pointers = append(pointers, fmt.Sprintf("%s/%s/%d/%d", e.Type, pair, e.Season, e.Episode))
		}
	}
	return pointers
}

// Validate checks the invariants storage relies on.
func (e *Entity) Validate() error {
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, e.Type)
	}
	if e.IsEpisode() && e.Episode == 0 {
		return ErrNoEpisodeNumber
	}
	return nil
}

// String renders a short human readable name.
func (e *Entity) String() string {
	if e.IsEpisode() {
		return fmt.Sprintf("%s - S%02dE%02d", e.Title, e.Season, e.Episode)
	}
	if e.Year > 0 {
		return fmt.Sprintf("%s (%d)", e.Title, e.Year)
	}
	return e.Title
}

// LogFields returns the fields used when logging about this record.
func (e *Entity) LogFields() []zap.Field {
	fields := []zap.Field{
		zap.String("type", string(e.Type)),
		zap.String("title", e.String()),
		zap.String("via", e.Via),
		zap.String("guids", e.Guids.String()),
	}
	if e.ID > 0 {
		fields = append(fields, zap.Int64("id", e.ID))
	}
	if e.HasParentGuid() {
		fields = append(fields, zap.String("parent", e.Parent.String()))
	}
	if m, ok := e.Metadata[e.Via]; ok && m.ID != "" {
		fields = append(fields, zap.String("native_id", m.ID))
	}
	return fields
}
