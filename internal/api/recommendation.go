package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrinavigator/backend/internal/middleware"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/service"
	"github.com/pageza/nutrinavigator/backend/internal/types"
	"github.com/pageza/nutrinavigator/backend/internal/web"
)

// RecommendationHandler serves the form page and the JSON API
type RecommendationHandler struct {
	service service.IRecommendationService
	log     *logger.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler instance
func NewRecommendationHandler(svc service.IRecommendationService, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: svc,
		log:     log,
	}
}

// pageData is what web.IndexTemplate renders
type pageData struct {
	Profile types.UserProfile
	Result  *types.RecommendationResult
	Error   string
	Genders []string
	Diets   []string
}

func newPageData(profile types.UserProfile) pageData {
	return pageData{
		Profile: profile,
		Genders: []string{types.GenderMale, types.GenderFemale},
		Diets:   []string{types.DietVeg, types.DietNonVeg},
	}
}

// Index renders the empty form
func (h *RecommendationHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, newPageData(types.DefaultProfile()))
}

// SubmitForm handles the form post and renders the page with the results
func (h *RecommendationHandler) SubmitForm(c *gin.Context) {
	profile := types.DefaultProfile()
	if err := c.ShouldBind(&profile); err != nil {
		apiErr := bindingError(err)
		_ = c.Error(err)
		data := newPageData(profile)
		data.Error = apiErr.Message
		c.HTML(apiErr.Status, web.IndexTemplate, data)
		return
	}
	profile = profile.WithDefaults()

	data := newPageData(profile)
	result, err := h.service.Recommend(c.Request.Context(), profile)
	if err != nil {
		apiErr := toAPIError(err)
		_ = c.Error(err)
		data.Error = apiErr.Message
		c.HTML(apiErr.Status, web.IndexTemplate, data)
		return
	}

	data.Result = result
	c.HTML(http.StatusOK, web.IndexTemplate, data)
}

// Recommend handles POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var profile types.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		apiErr := bindingError(err)
		_ = c.Error(err)
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}
	profile = profile.WithDefaults()

	result, err := h.service.Recommend(c.Request.Context(), profile)
	if err != nil {
		apiErr := toAPIError(err)
		_ = c.Error(err)
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}

	c.JSON(http.StatusOK, types.RecommendationResponse{
		Profile:         profile,
		Recommendations: result,
	})
}

// rejectForm renders the form with a rate limit banner instead of a JSON body
func (h *RecommendationHandler) rejectForm(c *gin.Context, d middleware.Decision, cfg middleware.RateLimitConfig) {
	profile := types.DefaultProfile()
	_ = c.ShouldBind(&profile)

	data := newPageData(profile)
	data.Error = fmt.Sprintf("You have reached the limit of %d requests per %v. Try again in %d seconds.",
		cfg.Limit, cfg.Window, middleware.RetryAfter(d))
	c.HTML(http.StatusTooManyRequests, web.IndexTemplate, data)
}
