package reconcile

import "watchstate/core/state"

// Counter holds the outcome counts of one record type.
type Counter struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Total returns the number of records the counter covers.
func (c Counter) Total() int {
	return c.Added + c.Updated + c.Failed
}

// CommitResult reports what a commit did, per record type.
type CommitResult struct {
	Movie   Counter `json:"movie"`
	Episode Counter `json:"episode"`
}

// For returns the counter of the given type. Unknown types are counted as movies.
func (r *CommitResult) For(t state.Type) *Counter {
	if t == state.TypeEpisode {
		return &r.Episode
	}
	return &r.Movie
}

// Merge adds the counts of o to r.
func (r *CommitResult) Merge(o CommitResult) {
	r.Movie.Added += o.Movie.Added
	r.Movie.Updated += o.Movie.Updated
	r.Movie.Failed += o.Movie.Failed
	r.Episode.Added += o.Episode.Added
	r.Episode.Updated += o.Episode.Updated
	r.Episode.Failed += o.Episode.Failed
}

// Failed returns the number of records that could not be written.
func (r CommitResult) Failed() int {
	return r.Movie.Failed + r.Episode.Failed
}

// IsEmpty reports whether nothing was written or attempted.
func (r CommitResult) IsEmpty() bool {
	return r.Movie.Total() == 0 && r.Episode.Total() == 0
}
