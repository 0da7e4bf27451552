package guid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(Options{Backend: "home", Table: TableFor(KindPlex)})
	ctx := Context{Type: "movie", NativeID: "55"}

	tests := []struct {
		name string
		raw  map[string]any
		want Set
	}{
		{
			name: "Case folding",
			raw:  map[string]any{"IMDB": "TT0111161", "Tmdb": "278"},
			want: Set{SourceIMDB: "tt0111161", SourceTMDB: "278"},
		},
		{
			name: "Agent keys",
			raw:  map[string]any{"com.plexapp.agents.imdb": "tt0111161", "com.plexapp.agents.thetvdb": 81189},
			want: Set{SourceIMDB: "tt0111161", SourceTVDB: "81189"},
		},
		{
			name: "Unsupported and empty values dropped",
			raw:  map[string]any{"local": "abc", "tmdb": "", "tvdb": nil, "tvmaze": "   "},
			want: Set{},
		},
		{
			name: "Parse failures dropped",
			raw:  map[string]any{"imdb": "0111161", "tmdb": "abc", "tvdb": "12"},
			want: Set{SourceTVDB: "12"},
		},
		{
			name: "Float values from JSON",
			raw:  map[string]any{"tmdb": float64(278)},
			want: Set{SourceTMDB: "278"},
		},
		{
			name: "Numeric collision keeps the smaller",
			raw:  map[string]any{"thetvdb": "900", "tvdb": "81189"},
			want: Set{SourceTVDB: "900"},
		},
		{
			name: "Numeric collision beyond int64 keeps the smaller",
			raw:  map[string]any{"thetvdb": "99999999999999999999", "tvdb": "100000000000000000000"},
			want: Set{SourceTVDB: "99999999999999999999"},
		},
		{
			name: "Non numeric collision keeps the first in key order",
			raw:  map[string]any{"imdb": "tt2", "com.plexapp.agents.imdb": "tt1"},
			want: Set{SourceIMDB: "tt1"},
		},
		{
			name: "Nil input",
			raw:  nil,
			want: Set{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.raw, ctx, ModeSilent))
			assert.Equal(t, tt.want, r.Resolve(tt.raw, ctx, ModeLog))
		})
	}
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver(Options{Backend: "home", Table: TableFor(KindJellyfin)})
	raw := map[string]any{
		"Imdb":       "tt0903747",
		"Tvdb":       "81189",
		"TheTvdb":    "81190",
		"Tmdb":       "1396",
		"Unknown":    "x",
		"TvRage":     18164,
		"themoviedb": "1396",
	}
	ctx := Context{Type: "episode", NativeID: "9"}

	first := r.Get(raw, ctx)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Get(raw, ctx))
	}
	assert.Equal(t, "imdb://tt0903747,tmdb://1396,tvdb://81189,tvrage://18164", first.String())
}

func TestResolver_IgnoreRules(t *testing.T) {
	list := IgnoreList{
		Rule{Type: "movie", Source: SourceTMDB, ID: "278"}.Key():                    time.Now(),
		Rule{Type: "movie", Source: SourceIMDB, ID: "tt0111161", Scope: "55"}.Key(): time.Now(),
	}
	r := NewResolver(Options{Backend: "home", Ignore: list})
	raw := map[string]any{"imdb": "tt0111161", "tmdb": "278", "tvdb": "1"}

	t.Run("Global and scoped", func(t *testing.T) {
		got := r.Parse(raw, Context{Type: "movie", NativeID: "55"})
		assert.Equal(t, Set{SourceTVDB: "1"}, got)
	})

	t.Run("Scoped rule leaves other items alone", func(t *testing.T) {
		got := r.Parse(raw, Context{Type: "movie", NativeID: "56"})
		assert.Equal(t, Set{SourceIMDB: "tt0111161", SourceTVDB: "1"}, got)
	})

	t.Run("Rules are typed", func(t *testing.T) {
		got := r.Parse(raw, Context{Type: "episode", NativeID: "55"})
		assert.Len(t, got, 3)
	})
}

func TestResolver_HasAndIdentity(t *testing.T) {
	r := NewResolver(Options{Backend: "office"})

	assert.True(t, r.Has(map[string]any{"tmdb": "1"}, Context{}))
	assert.False(t, r.Has(map[string]any{"tmdb": "x"}, Context{}))

	ids := r.Identity(map[string]any{"tmdb": "x"}, Context{Type: "movie", NativeID: "abc"})
	assert.Equal(t, Set{SourceVirtual: "office/abc"}, ids)

	// Real ids win over the fallback.
	ids = r.Identity(map[string]any{"tmdb": "1"}, Context{Type: "movie", NativeID: "abc"})
	assert.Equal(t, Set{SourceTMDB: "1"}, ids)

	// No native id, no fallback.
	assert.Empty(t, r.Identity(nil, Context{Type: "movie"}))
}

func TestResolver_LogMode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewResolver(Options{Backend: "home", Logger: zap.New(core)})
	raw := map[string]any{"imdb": "tt1", "thetvdb": "5", "tmdb": "bad"}

	r.Parse(raw, Context{Type: "movie"})
	assert.Equal(t, 0, logs.Len(), "silent mode must not log")

	r.Get(raw, Context{Type: "movie"})
	assert.Equal(t, 1, logs.FilterMessage("Unable to parse external id").Len())
	assert.Equal(t, 1, logs.FilterMessage("Unsupported id source").Len())
}

func TestSet_Helpers(t *testing.T) {
	s := Set{SourceTVDB: "1", SourceIMDB: "tt1"}

	assert.Equal(t, []string{SourceIMDB, SourceTVDB}, s.Keys())
	assert.Equal(t, []string{"imdb://tt1", "tvdb://1"}, s.Pairs())
	assert.True(t, s.Equal(Set{SourceIMDB: "tt1", SourceTVDB: "1"}))
	assert.False(t, s.Equal(Set{SourceIMDB: "tt1"}))

	merged := s.Merge(Set{SourceTVDB: "2", SourceTMDB: "3", SourceAniDB: ""})
	assert.Equal(t, Set{SourceIMDB: "tt1", SourceTVDB: "2", SourceTMDB: "3"}, merged)
	assert.Equal(t, "1", s[SourceTVDB], "Merge must not mutate the receiver")

	data, err := Set(nil).MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
