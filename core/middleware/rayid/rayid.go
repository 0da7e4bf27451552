package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header carries the request id on requests and responses.
	Header = "X-Ray-ID"
	// LocalsKey is where the request id is stored on the Fiber context.
	LocalsKey = "ray_id"
)

// New returns a middleware that tags every request with a ray id. An incoming id in the
// X-Ray-ID header is reused, otherwise a new UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
