package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrinavigator/backend/internal/middleware"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes registers all routes. Both submission endpoints share one limiter so a
// client cannot double its quota by switching between the form and the JSON API.
func RegisterRoutes(router *gin.Engine, recommendations service.IRecommendationService, limiter middleware.Limiter, log *logger.Logger) {
	router.GET("/health", HealthCheck)

	h := NewRecommendationHandler(recommendations, log)

	router.GET("/", h.Index)
	router.POST("/recommendations", middleware.RateLimitMiddleware(limiter, log, h.rejectForm), h.SubmitForm)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/recommendations", middleware.RateLimitMiddleware(limiter, log, middleware.JSONReject), h.Recommend)
	}
}
