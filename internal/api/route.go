package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reeltracker/worker/internal/api/middleware"
	"github.com/reeltracker/worker/internal/pkg/logger"
)

// SetupRouter wires the read-mostly admin surface: account/video reads
// are open, the bulk seed endpoint requires an admin bearer token.
func SetupRouter(group *HandlersGroup, adminTokenSecret string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 200, "message": "pong"})
		})

		accountGroup := apiGroup.Group("/accounts")
		{
			accountGroup.GET("", group.AccountHandler.ListAccounts)
			accountGroup.GET("/:id/videos", group.AccountHandler.ListAccountVideos)
			accountGroup.GET("/:id/raw-payloads", group.AccountHandler.RecentRawPayloads)

			seedGroup := accountGroup.Group("")
			seedGroup.Use(middleware.AdminAuthMiddleware(adminTokenSecret))
			{
				seedGroup.POST("/seed", group.AccountHandler.SeedAccounts)
			}
		}

		apiGroup.GET("/videos/search", group.VideoHandler.Search)
		apiGroup.GET("/worker/status", group.HeartbeatHandler.Status)
	}

	return r
}
