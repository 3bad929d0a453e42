// Package response centralizes the JSON shapes and caching headers of API
// replies.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the uniform error payload.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK returns a 200 response with the given payload. Responses carry
// Cache-Control: no-store; inbox contents must never be cached by
// intermediaries.
func OK(c echo.Context, data interface{}) error {
	noStore(c)
	return c.JSON(http.StatusOK, data)
}

// NotFound returns a 404 error response. Absent, expired and malformed
// capabilities all collapse into this one outcome.
func NotFound(c echo.Context, message string) error {
	noStore(c)
	return c.JSON(http.StatusNotFound, ErrorBody{Error: message})
}

// InternalError returns a 500 error response
func InternalError(c echo.Context, message string) error {
	noStore(c)
	return c.JSON(http.StatusInternalServerError, ErrorBody{Error: message})
}

func noStore(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-store")
}
