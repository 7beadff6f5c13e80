package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes registers the landing and docs pages.
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "DROMIC Location Extraction Service",
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api": "DROMIC Extraction API v1",
			"endpoints": map[string]string{
				"transform":       "POST /api/v1/transform",
				"reviews":         "GET /api/v1/reviews",
				"gazetteer_stats": "GET /api/v1/gazetteer/stats",
				"health":          "GET /api/v1/health",
			},
		})
	})
}
