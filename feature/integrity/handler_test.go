package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"watchstate/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, migrate bool) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", []string{"backups"}, setupTestDB(t, migrate), zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient := setupTestApp(t, true)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "checked", body["status"])
	assert.Equal(t, []any{"backups"}, body["missing"])
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient := setupTestApp(t, true)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())
	mockClient.On("PutObject", mock.Anything, "test-bucket", "backups/.keep", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fixed", body["status"])
	mockClient.AssertExpectations(t)
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["matched"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		app, mockClient := setupTestApp(t, true)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Key: "backups/x.json"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Unhealthy", func(t *testing.T) {
		app, mockClient := setupTestApp(t, false)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

		var report Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.False(t, report.Healthy)
		assert.Contains(t, report.Errors["storage"], "does not exist")
	})
}
