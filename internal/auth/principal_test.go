package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvePrincipal(t *testing.T, headers map[string]string) auth.Principal {
	app := fiber.New()
	app.Use(auth.Middleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(auth.FromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var principal auth.Principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&principal))
	return principal
}

func TestMiddleware_ResolvePrincipal(t *testing.T) {
	t.Run("no headers yields anonymous", func(t *testing.T) {
		principal := resolvePrincipal(t, nil)

		assert.False(t, principal.Authenticated)
		assert.False(t, principal.Admin)
		assert.Zero(t, principal.UserID)
	})

	t.Run("resolves user headers", func(t *testing.T) {
		principal := resolvePrincipal(t, map[string]string{
			auth.HeaderUserID:    "42",
			auth.HeaderUserEmail: " donor@example.com ",
		})

		assert.True(t, principal.Authenticated)
		assert.Equal(t, int64(42), principal.UserID)
		assert.Equal(t, "donor@example.com", principal.Email)
		assert.False(t, principal.Admin)
	})

	t.Run("resolves admin flag", func(t *testing.T) {
		principal := resolvePrincipal(t, map[string]string{
			auth.HeaderUserID:    "7",
			auth.HeaderUserAdmin: "true",
		})

		assert.True(t, principal.Authenticated)
		assert.True(t, principal.Admin)
	})

	t.Run("admin flag requires exact value", func(t *testing.T) {
		principal := resolvePrincipal(t, map[string]string{
			auth.HeaderUserID:    "7",
			auth.HeaderUserAdmin: "1",
		})

		assert.True(t, principal.Authenticated)
		assert.False(t, principal.Admin)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-3", "  "} {
			principal := resolvePrincipal(t, map[string]string{auth.HeaderUserID: raw})

			assert.False(t, principal.Authenticated, "id %q should not authenticate", raw)
			assert.Zero(t, principal.UserID)
		}
	})

	t.Run("email without id stays anonymous", func(t *testing.T) {
		principal := resolvePrincipal(t, map[string]string{
			auth.HeaderUserEmail: "donor@example.com",
		})

		assert.False(t, principal.Authenticated)
		assert.Empty(t, principal.Email)
	})
}

func TestFromContext_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/bare", func(c *fiber.Ctx) error {
		principal := auth.FromContext(c)
		assert.False(t, principal.Authenticated)
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/bare", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
