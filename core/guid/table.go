package guid

import "strings"

// Backend kinds with a dedicated support table.
const (
	KindGeneric  = "generic"
	KindPlex     = "plex"
	KindJellyfin = "jellyfin"
	KindEmby     = "emby"
)

// Table maps a case-folded raw id key, as reported by a backend, to a canonical source.
type Table map[string]string

// Lookup returns the canonical source for a raw key. Keys are case-folded and trimmed.
func (t Table) Lookup(raw string) (string, bool) {
	source, ok := t[strings.ToLower(strings.TrimSpace(raw))]
	return source, ok
}

// DefaultTable returns the support table shared by every backend kind.
func DefaultTable() Table {
	return Table{
		"imdb":    SourceIMDB,
		"tmdb":    SourceTMDB,
		"tvdb":    SourceTVDB,
		"tvmaze":  SourceTVMaze,
		"tvrage":  SourceTVRage,
		"anidb":   SourceAniDB,
		"virtual": SourceVirtual,
	}
}

// TableFor returns the support table of a backend kind. Unknown kinds get the default table.
func TableFor(kind string) Table {
	t := DefaultTable()

	switch strings.ToLower(kind) {
	case KindPlex:
		t["com.plexapp.agents.imdb"] = SourceIMDB
		t["com.plexapp.agents.themoviedb"] = SourceTMDB
		t["com.plexapp.agents.thetvdb"] = SourceTVDB
		t["com.plexapp.agents.tvmaze"] = SourceTVMaze
		t["com.plexapp.agents.hama"] = SourceAniDB
		t["themoviedb"] = SourceTMDB
		t["thetvdb"] = SourceTVDB
	case KindJellyfin, KindEmby:
		t["tvrage"] = SourceTVRage
		t["themoviedb"] = SourceTMDB
		t["thetvdb"] = SourceTVDB
		t["anidb"] = SourceAniDB
		t["tvmaze"] = SourceTVMaze
	}

	return t
}

// IsValidKind reports whether kind has a support table.
func IsValidKind(kind string) bool {
	switch strings.ToLower(kind) {
	case KindGeneric, KindPlex, KindJellyfin, KindEmby:
		return true
	default:
		return false
	}
}
