package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// Sweeper runs expiry garbage collection.
type Sweeper interface {
	Sweep(ctx context.Context, now int64) error
}

// SweepExpired runs an expiry sweep before every request it wraps. This is
// the system's only garbage collection trigger: there is no background
// scheduler, so expired rows are reclaimed by whatever traffic arrives
// next. A failed sweep is logged and the request proceeds; liveness checks
// downstream still hide expired inboxes.
func SweepExpired(sweeper Sweeper, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := sweeper.Sweep(c.Request().Context(), time.Now().Unix()); err != nil {
				if logger != nil {
					logger.Warn("expiry sweep failed", slog.Any("error", err))
				}
			}
			return next(c)
		}
	}
}
