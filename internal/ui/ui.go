// Package ui serves the embedded single-page inbox viewer.
package ui

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed index.html
var indexHTML string

// Handler returns the handler serving the viewer at the site root.
func Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.HTML(http.StatusOK, indexHTML)
	}
}
