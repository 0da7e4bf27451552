package auth_test

import (
	"net/http/httptest"
	"testing"

	"watchstate/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	newApp := func(key string) *fiber.App {
		app := fiber.New()
		app.Use(auth.New(auth.Config{ApiKey: key, Public: []string{"/swagger"}}))
		app.Get("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	tests := []struct {
		name   string
		key    string
		path   string
		header string
		value  string
		want   int
	}{
		{"Disabled", "", "/history", "", "", fiber.StatusOK},
		{"Missing Key", "secret", "/history", "", "", fiber.StatusUnauthorized},
		{"Wrong Key", "secret", "/history", auth.Header, "nope", fiber.StatusUnauthorized},
		{"Header Key", "secret", "/history", auth.Header, "secret", fiber.StatusOK},
		{"Bearer Key", "secret", "/history", fiber.HeaderAuthorization, "Bearer secret", fiber.StatusOK},
		{"Public Path", "secret", "/swagger/index.html", "", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := newApp(tt.key).Test(req, 2000)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
