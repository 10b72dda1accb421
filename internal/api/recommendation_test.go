package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrinavigator/backend/internal/middleware"
	"github.com/pageza/nutrinavigator/backend/internal/mocks"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/service"
	"github.com/pageza/nutrinavigator/backend/internal/types"
	"github.com/pageza/nutrinavigator/backend/internal/web"
)

func setupRouter(t *testing.T, svc service.IRecommendationService, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	limiter := middleware.NewMemoryRateLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: limit})
	RegisterRoutes(router, svc, limiter, logger.Nop())
	return router
}

func sampleResult() *types.RecommendationResult {
	return &types.RecommendationResult{
		Restaurants: []string{"Spice Hub", "Green Leaf"},
		Breakfast:   []string{"Poha"},
		Dinner:      []string{"Dal Khichdi"},
		Workouts:    []string{"Brisk walk"},
	}
}

func formValues() url.Values {
	return url.Values{
		"age":           {"30"},
		"height":        {"5.5"},
		"weight":        {"62.5"},
		"gender":        {"Female"},
		"veg_or_nonveg": {"Non-Veg"},
		"disease":       {""},
		"region":        {"Pune, India"},
		"allergics":     {"peanuts"},
		"foodtype":      {"Maharashtrian"},
	}
}

func postForm(router *gin.Engine, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, new(mocks.MockRecommendationService), 10)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex(t *testing.T) {
	router := setupRouter(t, new(mocks.MockRecommendationService), 10)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "NutriNavigator")
	assert.Contains(t, body, `value="Kalyan, India"`)
	assert.Contains(t, body, `name="age" min="1" max="120" step="1" value="25"`)
	assert.Contains(t, body, "will appear here once you submit")
}

func TestSubmitForm(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 10)

	expected := types.UserProfile{
		Age:               30,
		Gender:            "Female",
		Weight:            62.5,
		Height:            5.5,
		DietaryPreference: "Non-Veg",
		Disease:           "None",
		Region:            "Pune, India",
		Allergies:         "peanuts",
		FoodType:          "Maharashtrian",
	}
	svc.On("Recommend", mock.Anything, expected).Return(sampleResult(), nil).Once()

	w := postForm(router, formValues())

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Here are your personalized recommendations!")
	assert.Contains(t, body, "Recommended Restaurants in Pune, India")
	for _, item := range []string{"Spice Hub", "Green Leaf", "Poha", "Dal Khichdi", "Brisk walk"} {
		assert.Contains(t, body, item)
	}
	// the form keeps what was submitted
	assert.Contains(t, body, `value="peanuts"`)
	assert.Contains(t, body, `<option value="Female" selected>`)
	svc.AssertExpectations(t)
}

func TestSubmitForm_InvalidProfile(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 10)

	values := formValues()
	values.Set("age", "150")

	w := postForm(router, values)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "age must be at most 120")
	svc.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything)
}

func TestSubmitForm_CompletionFailure(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 10)

	svc.On("Recommend", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("failed to get recommendations: %w", service.ErrCompletion))

	w := postForm(router, formValues())

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Could not get recommendations right now")
}

func TestSubmitForm_RateLimited(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 1)

	svc.On("Recommend", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()

	w := postForm(router, formValues())
	require.Equal(t, http.StatusOK, w.Code)

	w = postForm(router, formValues())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "You have reached the limit of 1 requests")
	assert.Contains(t, w.Body.String(), `value="Pune, India"`)
	svc.AssertExpectations(t)
}

func TestRecommend(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 10)

	svc.On("Recommend", mock.Anything, mock.MatchedBy(func(p types.UserProfile) bool {
		return p.Age == 40 && p.Disease == "None" && p.Allergies == "None" && p.FoodType == "Italian"
	})).Return(sampleResult(), nil).Once()

	w := postJSON(router, `{"age":40,"gender":"male","weight":80,"height":5.9,"veg_or_nonveg":"veg","region":"Rome","foodtype":"Italian"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.Profile.Age)
	assert.Equal(t, "None", resp.Profile.Disease)
	assert.Equal(t, sampleResult(), resp.Recommendations)
	svc.AssertExpectations(t)
}

func TestRecommend_EmptyListsRenderAsArrays(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 10)

	svc.On("Recommend", mock.Anything, mock.Anything).Return(service.ParseRecommendations("nothing useful"), nil)

	w := postJSON(router, `{"age":40,"gender":"Male","weight":80,"height":5.9,"veg_or_nonveg":"Veg"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"workouts":[]`)
}

func TestRecommend_BindingErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"missing fields", `{}`, "age is required"},
		{"bad gender", `{"age":40,"gender":"other","weight":80,"height":5.9,"veg_or_nonveg":"veg"}`, "gender must be one of: Male, Female, male, female"},
		{"too light", `{"age":40,"gender":"male","weight":5,"height":5.9,"veg_or_nonveg":"veg"}`, "weight must be at least 10"},
		{"malformed", `{"age":`, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockRecommendationService)
			router := setupRouter(t, svc, 10)

			w := postJSON(router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.expected)
			svc.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything)
		})
	}
}

func TestRecommend_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"completion failure", fmt.Errorf("wrapped: %w", service.ErrCompletion), http.StatusBadGateway, "completion_failed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockRecommendationService)
			router := setupRouter(t, svc, 10)
			svc.On("Recommend", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postJSON(router, `{"age":40,"gender":"male","weight":80,"height":5.9,"veg_or_nonveg":"veg"}`)

			assert.Equal(t, tt.status, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp["code"])
		})
	}
}

func TestRecommend_RateLimitedSharedWithForm(t *testing.T) {
	svc := new(mocks.MockRecommendationService)
	router := setupRouter(t, svc, 1)
	svc.On("Recommend", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()

	w := postForm(router, formValues())
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, `{"age":40,"gender":"male","weight":80,"height":5.9,"veg_or_nonveg":"veg"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}
