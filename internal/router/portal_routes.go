package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/qdo10/loopin/internal/config"
	"github.com/qdo10/loopin/internal/handler"
	"github.com/qdo10/loopin/internal/middleware"
)

// RegisterPortal registers the anonymous client-facing portal endpoints.
// No JWT middleware applies here: access is resolved per request from the
// share token. The password verification endpoint sits behind the Redis
// token bucket so share links cannot be brute-forced, and the portal read
// is fronted by a short-TTL response cache.
func RegisterPortal(e *echo.Echo, p *handler.PortalHandler, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/v1/portal/:token")
	g.GET("", p.Show, cache)
	g.POST("/verify", p.Verify, rl)
	g.POST("/views", p.RecordView)
	g.GET("/comments", p.ListComments)
	g.POST("/comments", p.CreateComment, rl)
}
