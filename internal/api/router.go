package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"robot-registry/config"
	"robot-registry/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestLogger(), gin.Recovery())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	responses := mw.NewResponseCache(cfg.CacheTTL)
	caching := responses.Serve()

	api := r.Group("/api")
	api.Use(rateLimiter, responses.Invalidate())
	{
		api.GET("/robots", caching, handler.ListRobots)
		api.POST("/robots", handler.CreateRobot)
		api.GET("/robots/:id", caching, handler.GetRobot)
		api.PATCH("/robots/:id", handler.UpdateRobot)
		api.DELETE("/robots/:id", handler.DeleteRobot)
		api.POST("/robots/:id/archive", handler.ArchiveRobot)
		api.POST("/robots/:id/restore", handler.RestoreRobot)

		api.DELETE("/archived", handler.PurgeArchived)
		api.GET("/stats", caching, handler.GetStats)

		api.GET("/export", handler.Export)
		api.POST("/import", handler.Import)
		api.POST("/import/validate", handler.ValidateImport)
	}

	return r
}
