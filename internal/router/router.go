package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrinavigator/backend/config"
	"github.com/pageza/nutrinavigator/backend/internal/api"
	"github.com/pageza/nutrinavigator/backend/internal/middleware"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/service"
	"github.com/pageza/nutrinavigator/backend/internal/web"
)

// SetupRouter configures the middleware chain, the HTML renderer and the application routes
func SetupRouter(
	cfg *config.Config,
	recommendations service.IRecommendationService,
	limiter middleware.Limiter,
	log *logger.Logger,
) (*gin.Engine, error) {
	gin.SetMode(cfg.Environment.GinMode())
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	api.RegisterRoutes(router, recommendations, limiter, log)

	return router, nil
}
