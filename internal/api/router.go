package api

import (
	"log/slog"

	"github.com/erlandi/tempmail-backend/internal/api/handlers"
	"github.com/erlandi/tempmail-backend/internal/api/middleware"
	"github.com/erlandi/tempmail-backend/internal/config"
	"github.com/erlandi/tempmail-backend/internal/repository"
	"github.com/erlandi/tempmail-backend/internal/ui"
	"github.com/erlandi/tempmail-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	InboxRepo   repository.InboxRepository
	MessageRepo repository.MessageRepository
	Sweeper     middleware.Sweeper
	Hub         *websocket.Hub
	Config      *config.Config
	Logger      *slog.Logger
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware, outermost first
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.Config.AllowedOrigins))
	e.Use(middleware.RateLimiter(cfg.Config.RateLimitRequests, cfg.Config.RateLimitBurst, cfg.Logger))
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	inboxHandler := handlers.NewInboxHandler(cfg.InboxRepo, cfg.MessageRepo, cfg.Config)
	messageHandler := handlers.NewMessageHandler(cfg.MessageRepo)

	// Health routes (no sweep; probes must stay cheap)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// Embedded viewer
	e.GET("/", ui.Handler())

	// API routes. Every API call runs an expiry sweep first.
	api := e.Group("/api")
	api.Use(middleware.SweepExpired(cfg.Sweeper, cfg.Logger))

	api.POST("/inbox", inboxHandler.Create)
	api.GET("/inbox/:token/messages", inboxHandler.ListMessages)
	api.GET("/message/:id", messageHandler.Get)

	if cfg.Hub != nil {
		upgrader := websocket.NewSecureUpgrader(cfg.Config.AllowedOrigins, cfg.Logger)
		wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.InboxRepo, upgrader, cfg.Logger)
		api.GET("/inbox/:token/ws", wsHandler.Subscribe)
	}

	return e
}
