package integrity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"watchstate/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite DB, migrated with every checked model when
// migrate is set.
func setupTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:integrity_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if migrate {
		for _, m := range Models {
			require.NoError(t, db.AutoMigrate(m))
		}
	}
	return db
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_Run_Healthy(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "watchstate").Return(true, nil)
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "backups/.keep"}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "watchstate", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	svc := NewService(mockClient, "watchstate", []string{"backups"}, setupTestDB(t, true), zap.NewNop())
	report := svc.Run(context.Background())

	assert.True(t, report.Healthy)
	assert.Nil(t, report.Errors)
	require.NotNil(t, report.Schema)
	assert.Len(t, report.Schema.Tables, 3)
	for table, tbl := range report.Schema.Tables {
		assert.Equal(t, "ok", tbl.Status, table)
	}
	assert.Empty(t, report.Storage.Missing)
}

func TestService_Run_Unhealthy(t *testing.T) {
	t.Run("Schema not migrated", func(t *testing.T) {
		svc := NewService(nil, "", nil, setupTestDB(t, false), nil)
		report := svc.Run(context.Background())

		assert.False(t, report.Healthy)
		assert.Nil(t, report.Storage, "storage checks are skipped without a client")
		assert.Contains(t, report.Schema.Tables["states"].MissingColumns, "guids")
	})

	t.Run("Bucket unreachable", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "watchstate").Return(false, errors.New("connection refused"))

		svc := NewService(mockClient, "watchstate", []string{"backups"}, setupTestDB(t, true), nil)
		report := svc.Run(context.Background())

		assert.False(t, report.Healthy)
		assert.Contains(t, report.Errors["storage"], "connection refused")
	})

	t.Run("No database", func(t *testing.T) {
		svc := NewService(nil, "", nil, nil, nil)
		report := svc.Run(context.Background())

		assert.False(t, report.Healthy)
		assert.Contains(t, report.Errors, "schema")
	})
}

func TestService_Structure(t *testing.T) {
	ctx := context.Background()
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "watchstate").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "watchstate", mock.Anything).Return(emptyListing())
	mockClient.On("PutObject", mock.Anything, "watchstate", "backups/.keep", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(mockClient, "watchstate", []string{"backups"}, nil, nil)

	report, err := svc.CheckStructure(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"backups"}, report.Missing)

	require.NoError(t, svc.FixStructure(ctx, report.Missing))
	mockClient.AssertCalled(t, "PutObject", mock.Anything, "watchstate", "backups/.keep", mock.Anything, int64(0), mock.Anything)

	disabled := NewService(nil, "", nil, nil, nil)
	_, err = disabled.CheckStructure(ctx)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, disabled.FixStructure(ctx, nil), ErrStorageDisabled)
}
