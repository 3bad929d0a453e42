package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// NewSecureUpgrader creates a WebSocket upgrader that only accepts
// connections from the given origins. Same-origin requests (empty Origin
// header) are always allowed.
func NewSecureUpgrader(allowedOrigins string, logger *slog.Logger) websocket.Upgrader {
	origins := make([]string, 0)
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			if origin == "" {
				return true
			}

			for _, allowed := range origins {
				if allowed == origin {
					return true
				}
			}

			if logger != nil {
				logger.Warn("rejected websocket connection",
					slog.String("origin", origin),
					slog.String("remote_ip", r.RemoteAddr))
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}
