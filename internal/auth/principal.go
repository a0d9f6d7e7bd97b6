package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserAdmin = "X-User-Admin"
)

const localsKey = "principal"

// Principal is the caller identity resolved from the trusted headers set by
// the edge proxy. An unauthenticated caller yields a zero Principal.
type Principal struct {
	UserID        int64
	Email         string
	Authenticated bool
	Admin         bool
}

// Middleware resolves the Principal once per request and stores it in locals.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localsKey, resolve(c))
		return c.Next()
	}
}

func resolve(c *fiber.Ctx) Principal {
	rawID := strings.TrimSpace(c.Get(HeaderUserID))
	if rawID == "" {
		return Principal{}
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}
	}

	return Principal{
		UserID:        id,
		Email:         strings.TrimSpace(c.Get(HeaderUserEmail)),
		Authenticated: true,
		Admin:         c.Get(HeaderUserAdmin) == "true",
	}
}

// FromContext returns the Principal stored by Middleware.
func FromContext(c *fiber.Ctx) Principal {
	p, ok := c.Locals(localsKey).(Principal)
	if !ok {
		return Principal{}
	}
	return p
}
