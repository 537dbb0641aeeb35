package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// helper to build a minimal config
func corsTestConfig(allowOrigins string) *env.Config {
	cfg := &env.Config{}
	cfg.Web.Cors.AllowOrigins = allowOrigins
	cfg.Web.Cors.MaxAge = 600
	return cfg
}

// Table-driven tests for CORS middleware covering preflight, actual, and disallowed origins
func TestCors_Table(t *testing.T) {
	const allowedOrigin = "https://allowed.example"

	app := fiber.New()
	app.Use(Cors(corsTestConfig(allowedOrigin)))
	app.Get("/api/albums", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	type tc struct {
		name          string
		method        string
		origin        string
		reqHeaders    map[string]string
		expectStatus  int
		expectHeaders map[string]string
	}

	cases := []tc{
		{
			name:   "PreflightAllowed",
			method: http.MethodOptions,
			origin: allowedOrigin,
			reqHeaders: map[string]string{
				"Access-Control-Request-Method":  "POST",
				"Access-Control-Request-Headers": "Content-Type",
			},
			expectStatus: fiber.StatusNoContent,
			expectHeaders: map[string]string{
				"Access-Control-Allow-Origin":      allowedOrigin,
				"Access-Control-Allow-Methods":     "GET,POST,PUT,DELETE",
				"Access-Control-Allow-Headers":     "Origin,Content-Type,Accept",
				"Access-Control-Max-Age":           "600",
				"Access-Control-Allow-Credentials": "",
			},
		},
		{
			name:         "ActualAllowed",
			method:       http.MethodGet,
			origin:       allowedOrigin,
			expectStatus: fiber.StatusOK,
			expectHeaders: map[string]string{
				"Access-Control-Allow-Origin":      allowedOrigin,
				"Access-Control-Expose-Headers":    "Content-Length",
				"Access-Control-Allow-Credentials": "",
			},
		},
		{
			name:         "DisallowedOriginActual",
			method:       http.MethodGet,
			origin:       "https://other.example",
			expectStatus: fiber.StatusOK,
			expectHeaders: map[string]string{
				"Access-Control-Allow-Origin": "",
			},
		},
	}

	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			req := httptest.NewRequest(cse.method, "/api/albums", nil)
			req.Header.Set("Origin", cse.origin)
			for k, v := range cse.reqHeaders {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, cse.expectStatus, resp.StatusCode)

			for hk, hv := range cse.expectHeaders {
				require.Equal(t, hv, resp.Header.Get(hk), "header %s mismatch", hk)
			}
		})
	}
}

// A wildcard origin is accepted because credentials are never allowed.
func TestCors_WildcardOrigin(t *testing.T) {
	app := fiber.New()
	require.NotPanics(t, func() { app.Use(Cors(corsTestConfig("*"))) })
	app.Get("/api/reports/total-tracks", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/reports/total-tracks", nil)
	req.Header.Set("Origin", "https://any.example")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
