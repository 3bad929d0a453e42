package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SecureCORS returns CORS middleware restricted to the configured origins.
// An empty configuration defaults to localhost for development; wildcard
// origins are rejected by configuration validation before this runs in
// production.
func SecureCORS(allowedOrigins string) echo.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       300,
	})
}
