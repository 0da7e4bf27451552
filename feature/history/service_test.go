package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"watchstate/core/guid"
	"watchstate/core/reconcile"
	"watchstate/core/state"
	"watchstate/feature/history/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticIgnore struct {
	list guid.IgnoreList
	err  error
}

func (s staticIgnore) List(context.Context) (guid.IgnoreList, error) {
	return s.list, s.err
}

var testBackends = map[string]string{"alpha": guid.KindPlex, "beta": guid.KindJellyfin}

func newTestService(t *testing.T, ignore IgnoreSource) *Service {
	t.Helper()
	svc := NewService(NewStore(setupTestDB(t), nil), ignore, testBackends, zap.NewNop())
	svc.now = func() time.Time { return time.Unix(9000, 0) }
	return svc
}

func TestService_Ingest_InsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	obs := models.Observation{ID: "1", Type: "movie", Title: "Alien", Guids: map[string]any{"imdb": "tt0078748"}, Updated: 100}
	report, err := svc.Ingest(ctx, []models.Observation{obs}, IngestOptions{Backend: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, reconcile.CommitResult{Movie: reconcile.Counter{Added: 1}}, report.Result)

	obs.Watched = true
	obs.Updated = 200
	report, err = svc.Ingest(ctx, []models.Observation{obs}, IngestOptions{Backend: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, reconcile.CommitResult{Movie: reconcile.Counter{Updated: 1}}, report.Result)

	stored, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Watched)
	assert.Equal(t, int64(200), stored.Updated)
}

func TestService_Ingest_CollapsesBackends(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	alpha := models.Observation{ID: "5", Type: "episode", Title: "Pilot", Season: 1, Episode: 1, AddedAt: 10,
		Guids: map[string]any{"com.plexapp.agents.thetvdb": "1000"}}
	beta := models.Observation{ID: "7", Type: "episode", Title: "Pilot", Season: 1, Episode: 1, AddedAt: 20,
		Guids: map[string]any{"Tvdb": "1000"}}

	_, err := svc.Ingest(ctx, []models.Observation{alpha}, IngestOptions{Backend: "alpha"})
	require.NoError(t, err)
	report, err := svc.Ingest(ctx, []models.Observation{beta}, IngestOptions{Backend: "beta"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Result.Episode.Updated)

	items, total, err := svc.List(ctx, models.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "5", items[0].Metadata["alpha"].ID)
	assert.Equal(t, "7", items[0].Metadata["beta"].ID)
}

func TestService_Ingest_SkipsEpisodeZeroAndBadItems(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	items := []models.Observation{
		{ID: "1", Type: "episode", Season: 1, Episode: 0, Guids: map[string]any{"tvdb": "1"}},
		{ID: "2", Type: "show"},
		{ID: "3", Type: "movie", Guids: map[string]any{"imdb": "tt3"}},
	}

	report, err := svc.Ingest(ctx, items, IngestOptions{Backend: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Received)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, reconcile.CommitResult{Movie: reconcile.Counter{Added: 1}}, report.Result)
}

func TestService_Ingest_Unplay(t *testing.T) {
	ctx := context.Background()

	played := models.Observation{ID: "X", Type: "movie", Title: "Alien", Watched: true, AddedAt: 100, PlayedAt: 500,
		Guids: map[string]any{"imdb": "tt0078748"}}
	unplayed := played
	unplayed.Watched = false
	unplayed.PlayedAt = 0

	tests := []struct {
		name        string
		tainted     bool
		after       time.Time
		wantWatched bool
		wantUpdated int64
	}{
		{"Trusted source unplays", false, time.Time{}, false, 9000},
		{"Trusted source unplays behind the sync watermark", false, time.Unix(400, 0), false, 9000},
		{"Tainted source cannot unplay", true, time.Time{}, true, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil)
			_, err := svc.Ingest(ctx, []models.Observation{played}, IngestOptions{Backend: "alpha"})
			require.NoError(t, err)

			_, err = svc.Ingest(ctx, []models.Observation{unplayed}, IngestOptions{Backend: "alpha", Tainted: tt.tainted, After: tt.after})
			require.NoError(t, err)

			stored, err := svc.Get(ctx, 1)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, tt.wantWatched, stored.Watched)
			assert.Equal(t, tt.wantUpdated, stored.Updated)
		})
	}
}

func TestService_Ingest_AppliesIgnoreList(t *testing.T) {
	ctx := context.Background()
	ignore := staticIgnore{list: guid.IgnoreList{
		guid.Rule{Type: "movie", Source: guid.SourceTMDB, ID: "1"}.Key(): time.Now(),
	}}
	svc := newTestService(t, ignore)

	obs := models.Observation{ID: "9", Type: "movie", Guids: map[string]any{"imdb": "tt9", "tmdb": "1"}}
	_, err := svc.Ingest(ctx, []models.Observation{obs}, IngestOptions{Backend: "alpha"})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, guid.Set{guid.SourceIMDB: "tt9"}, stored.Guids)
}

func TestService_Ingest_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService(t, nil).Ingest(ctx, nil, IngestOptions{Backend: "gamma"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = newTestService(t, staticIgnore{err: errors.New("db down")}).Ingest(ctx, nil, IngestOptions{Backend: "alpha"})
	assert.ErrorContains(t, err, "failed to load ignore list")
}

func TestService_MergeAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	records := []*state.Entity{testMovie("tt1", true, 100), testEpisode("2", 1)}
	records[0].ID = 77

	result, skipped, err := svc.Merge(ctx, records, reconcile.AddOptions{Policy: state.Trusted})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, 1, result.Movie.Added)
	assert.Equal(t, 1, result.Episode.Added)
	assert.Equal(t, int64(77), records[0].ID, "input records are not modified")

	removed, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[state.Type]int64{state.TypeEpisode: 1}, stats)
}
