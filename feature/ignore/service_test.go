package ignore

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"watchstate/core/guid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:ignore_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc := NewService(setupTestDB(t), nil, ttl)
	require.NoError(t, svc.Migrate())
	return svc
}

func TestService_AddAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)

	row, err := svc.Add(ctx, guid.Rule{Type: " Movie ", Source: "TMDB", ID: "278"})
	require.NoError(t, err)
	assert.Equal(t, "movie://tmdb:278", row.Key)
	assert.NotZero(t, row.ID)

	_, err = svc.Add(ctx, guid.Rule{Type: "episode", Source: "tvdb", ID: "1", Scope: "55"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, list.Matches("movie", "tmdb", "278", "anything"))
	assert.True(t, list.Matches("episode", "tvdb", "1", "55"))
	assert.False(t, list.Matches("episode", "tvdb", "1", "56"))

	rows, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "episode://tvdb:1?id=55", rows[0].Key)
	assert.Equal(t, guid.Rule{Type: "episode", Source: "tvdb", ID: "1", Scope: "55"}, rows[0].Rule())
}

func TestService_AddRejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	_, err := svc.Add(ctx, guid.Rule{Type: "movie", Source: "nope", ID: "1"})
	assert.ErrorIs(t, err, guid.ErrInvalidRule)

	_, err = svc.Add(ctx, guid.Rule{Type: "movie", Source: "imdb", ID: "tt1"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, guid.Rule{Type: "movie", Source: "imdb", ID: "tt1"})
	assert.ErrorIs(t, err, ErrExists)
}

func TestService_ListInvalidatedOnChange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	_, err = svc.Add(ctx, guid.Rule{Type: "movie", Source: "imdb", ID: "tt1"})
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "add drops the cached list")

	require.NoError(t, svc.Remove(ctx, "movie://imdb:tt1"))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "remove drops the cached list")
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	_, err := svc.Add(ctx, guid.Rule{Type: "show", Source: "tvdb", ID: "9", Scope: "a b"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "show://TVDB:9?id=a+b"))
	assert.ErrorIs(t, svc.Remove(ctx, "show://tvdb:9?id=a+b"), ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, "garbage"), guid.ErrInvalidRule)
}
