package history

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"watchstate/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	svc := newTestService(t, nil)

	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(NewFeature(svc))
	_, err := mgr.LoadAll(app)
	require.NoError(t, err)
	return app, svc
}

func ingest(t *testing.T, app *fiber.App, target, body string) (*IngestReport, int) {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)

	var report IngestReport
	_ = json.NewDecoder(resp.Body).Decode(&report)
	return &report, resp.StatusCode
}

func TestHandleIngest(t *testing.T) {
	app, _ := setupTestApp(t)

	body := `{"items":[
		{"id":"1","type":"movie","title":"Alien","watched":true,"played_at":500,"added_at":100,"guids":{"com.plexapp.agents.imdb":"tt0078748"}},
		{"id":"2","type":"episode","title":"Pilot","season":1,"episode":0,"guids":{"tvdb":"1"}}
	]}`

	report, status := ingest(t, app, "/history/ingest/alpha", body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alpha", report.Backend)
	assert.Equal(t, 2, report.Received)
	assert.Equal(t, 1, report.Result.Movie.Added)
	assert.Zero(t, report.Result.Episode.Added)
}

func TestHandleIngest_Errors(t *testing.T) {
	app, _ := setupTestApp(t)

	_, status := ingest(t, app, "/history/ingest/gamma", `{"items":[]}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	_, status = ingest(t, app, "/history/ingest/alpha", `{"items":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleListGetDelete(t *testing.T) {
	app, _ := setupTestApp(t)

	body := `{"items":[
		{"id":"1","type":"movie","title":"Alien","watched":true,"played_at":500,"guids":{"imdb":"tt0078748"}},
		{"id":"2","type":"movie","title":"Aliens","added_at":300,"guids":{"imdb":"tt0090605"}}
	]}`
	_, status := ingest(t, app, "/history/ingest/alpha?tainted=false", body)
	require.Equal(t, fiber.StatusOK, status)

	t.Run("List", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/history?type=movie&watched=true", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var page struct {
			Total int64            `json:"total"`
			Items []map[string]any `json:"items"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Alien", page.Items[0]["title"])
	})

	t.Run("List Invalid Type", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/history?type=show", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Stats", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/history/stats", nil), 2000)
		require.NoError(t, err)

		var counts map[string]int64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&counts))
		assert.Equal(t, int64(2), counts["movie"])
	})

	t.Run("Get", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/history/2", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/history/99", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/history/abc", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Delete", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/history/2", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("DELETE", "/history/2", nil), 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
