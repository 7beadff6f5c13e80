package routes

import (
	"github.com/dromic-parser/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes registers the versioned API.
func SetupAPIRoutes(router *gin.Engine, transformController *controllers.TransformController) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/transform", transformController.Transform)
		v1.GET("/reviews", transformController.ListReviews)
		v1.PATCH("/reviews/:id", transformController.ResolveReview)
		v1.GET("/gazetteer/stats", transformController.GazetteerStats)
		v1.GET("/health", transformController.HealthCheck)
	}
}

// SetupHealthRoutes registers unversioned liveness probes.
func SetupHealthRoutes(router *gin.Engine, transformController *controllers.TransformController) {
	router.GET("/health", transformController.HealthCheck)
	router.GET("/ready", transformController.HealthCheck)
	router.GET("/live", transformController.HealthCheck)
}

// SetupAllRoutes wires middleware and every route group.
func SetupAllRoutes(router *gin.Engine, transformController *controllers.TransformController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, transformController)
	SetupAPIRoutes(router, transformController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
}
