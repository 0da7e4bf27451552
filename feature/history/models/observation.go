package models

// Observation is what a backend reports about one item. Backend clients and webhooks
// emit it, the ingest endpoint and the import command consume it.
type Observation struct {
	// ID is the backend's native item id.
	ID      string `json:"id"`
	Type    string `json:"type" example:"movie"`
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
	Watched bool   `json:"watched"`
	// Updated overrides the observation time. When zero it is derived from PlayedAt and
	// AddedAt, see UpdatedAt.
	Updated  int64 `json:"updated,omitempty"`
	AddedAt  int64 `json:"added_at,omitempty"`
	PlayedAt int64 `json:"played_at,omitempty"`
	// Guids and Parent hold the raw external ids as the backend names them,
	// e.g. {"com.plexapp.agents.imdb": "tt0111161"}.
	Guids   map[string]any    `json:"guids,omitempty" swaggertype:"object"`
	Parent  map[string]any    `json:"parent,omitempty" swaggertype:"object"`
	Library string            `json:"library,omitempty"`
	Path    string            `json:"path,omitempty"`
	Event   string            `json:"event,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// UpdatedAt returns the time the observation describes: the explicit value, else the
// play time of a watched item, else the date the item was added. Backends fall back to
// the added date once an item is marked unplayed.
func (o Observation) UpdatedAt() int64 {
	if o.Updated > 0 {
		return o.Updated
	}
	if o.Watched && o.PlayedAt > 0 {
		return o.PlayedAt
	}
	return o.AddedAt
}

// IngestRequest is the body of the ingest endpoint.
type IngestRequest struct {
	Items []Observation `json:"items"`
}

// ListQuery filters the stored records.
type ListQuery struct {
	Type    string `query:"type"`
	Watched *bool  `query:"watched"`
	// Since returns records updated after this unix time.
	Since  int64 `query:"since"`
	Limit  int   `query:"limit"`
	Offset int   `query:"offset"`
}

// MaxLimit caps the page size of list queries.
const MaxLimit = 500

// Normalize clamps the paging values.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
