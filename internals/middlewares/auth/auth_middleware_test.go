// file: internals/middlewares/auth/auth_middleware_test.go
package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escola_backend/internals/configs"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func testApp(roles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{AuthJWT()}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	group := app.Group("/p", handlers...)
	group.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/p/ok", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthJWTAcceptsValidToken(t *testing.T) {
	configs.JWTSecret = "test-secret"
	app := testApp()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u-1",
		"role":    "teacher",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthJWTRejectsMissingToken(t *testing.T) {
	configs.JWTSecret = "test-secret"
	resp := doRequest(t, testApp(), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthJWTRejectsWrongSignature(t *testing.T) {
	configs.JWTSecret = "test-secret"
	token := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	resp := doRequest(t, testApp(), token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthJWTRejectsExpiredToken(t *testing.T) {
	configs.JWTSecret = "test-secret"
	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	resp := doRequest(t, testApp(), token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthJWTAllowsLeewayOnExpiry(t *testing.T) {
	configs.JWTSecret = "test-secret"
	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(-10 * time.Second).Unix(),
	})
	resp := doRequest(t, testApp(), token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRolesGatesByRole(t *testing.T) {
	configs.JWTSecret = "test-secret"
	app := testApp("teacher")

	teacher := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u-1", "role": "teacher",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, fiber.StatusOK, doRequest(t, app, teacher).StatusCode)

	nobody := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u-2", "role": "viewer",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, fiber.StatusForbidden, doRequest(t, app, nobody).StatusCode)
}

func TestRequireRolesAdminAlwaysPasses(t *testing.T) {
	configs.JWTSecret = "test-secret"
	app := testApp("teacher")

	admin := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u-3", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, fiber.StatusOK, doRequest(t, app, admin).StatusCode)
}
