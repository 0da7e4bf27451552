package guid

import (
	"encoding/json"
	"sort"
	"strings"
)

// Canonical external id sources.
const (
	SourceIMDB    = "imdb"
	SourceTMDB    = "tmdb"
	SourceTVDB    = "tvdb"
	SourceTVMaze  = "tvmaze"
	SourceTVRage  = "tvrage"
	SourceAniDB   = "anidb"
	SourceVirtual = "virtual"
)

// Sources lists every canonical source, sorted by name.
var Sources = []string{
	SourceAniDB,
	SourceIMDB,
	SourceTMDB,
	SourceTVDB,
	SourceTVMaze,
	SourceTVRage,
	SourceVirtual,
}

// IsSupported reports whether source is a canonical source name.
func IsSupported(source string) bool {
	for _, s := range Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Set maps a canonical source name to an external id.
// Iteration helpers and encoding are always ordered by source name.
type Set map[string]string

// Keys returns the sources present in the set, sorted.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the id stored for source.
func (s Set) Get(source string) (string, bool) {
	v, ok := s[source]
	return v, ok
}

// Equal reports whether both sets hold exactly the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a copy of the set. A nil set clones to nil.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a copy of s with every id of other applied on top of it.
func (s Set) Merge(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Pairs returns "source://id" strings, sorted by source.
func (s Set) Pairs() []string {
	pairs := make([]string, 0, len(s))
	for _, k := range s.Keys() {
		pairs = append(pairs, k+"://"+s[k])
	}
	return pairs
}

// String renders the set deterministically, e.g. "imdb://tt0111161,tmdb://278".
func (s Set) String() string {
	return strings.Join(s.Pairs(), ",")
}

// MarshalJSON encodes the set as an object. encoding/json sorts map keys, the explicit
// method keeps a nil set encoded as {} rather than null.
func (s Set) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(s))
}
