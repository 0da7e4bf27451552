package backup

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"watchstate/core/loader"
	"watchstate/feature/backup/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	svc, _, client := newTestService(t)

	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(NewFeature(svc))
	_, err := mgr.LoadAll(app)
	require.NoError(t, err)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "backups/a.json", Size: 10, LastModified: time.Unix(100, 0)}
	close(ch)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
	client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
	client.On("PutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("GetObject", mock.Anything, testBucket, "backups/a.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`{"version":1,"records":[]}`)), nil)

	t.Run("List", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/backup", nil), 2000)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var items []models.Info
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "backups/a.json", items[0].Key)
	})

	t.Run("Create", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/backup", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("Restore", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/backup/restore?key=a.json&metadata_only=true", nil), 2000)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var report models.RestoreReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.True(t, report.Metadata)
		assert.Zero(t, report.Records)
	})

	t.Run("Restore invalid key", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/backup/restore?key=../x", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
