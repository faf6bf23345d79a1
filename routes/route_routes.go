package routes

import (
	"github.com/gin-gonic/gin"

	"routebook/internal/handlers"
	"routebook/internal/middleware"
	"routebook/pkg/logger"
	"routebook/pkg/websocket"
)

type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	TrustedProxies []string
	Logger         *logger.Logger
	RouteHandler   *handlers.RouteHandler
	HealthHandler  *handlers.HealthHandler
	LiveHandler    *websocket.Handler
}

// NewRouter builds the HTTP surface with global middleware, /health and /api/v1.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(cfg.Logger))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		router.GET("/health", cfg.HealthHandler.Health)
	}

	v1 := router.Group("/api/v1")
	SetupRouteRoutes(v1, cfg.RouteHandler, cfg.LiveHandler, cfg.JWTSecret)

	return router, nil
}

// SetupRouteRoutes sets up the saved-route and planning endpoints
func SetupRouteRoutes(r *gin.RouterGroup, routeHandler *handlers.RouteHandler, liveHandler *websocket.Handler, jwtSecret string) {
	routes := r.Group("/routes")
	routes.Use(middleware.AuthRequired(jwtSecret))
	{
		routes.POST("/compute", routeHandler.ComputeRoute)
		routes.POST("", routeHandler.SaveRoute)
		routes.GET("", routeHandler.ListRoutes)
		routes.GET("/stats", routeHandler.RouteStats)
		routes.DELETE("/:id", routeHandler.DeleteRoute)

		if liveHandler != nil {
			routes.GET("/live", liveHandler.HandleWebSocket)
		}
	}
}
