package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrinavigator/backend/internal/mocks"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/ctxutil"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/types"
)

func TestRecommendationService_Recommend(t *testing.T) {
	llm := new(mocks.MockCompletionClient)
	svc := NewRecommendationService(llm, logger.Nop())
	profile := types.DefaultProfile()
	ctx := ctxutil.WithRequestID(context.Background(), "req-1")

	reply := "Sure!\n\nRestaurants:\n- Spice Hub\n- Green Leaf\n\nBreakfast:\n- Poha\n\nDinner:\n- Dal Khichdi\n\nWorkouts:\n- Brisk walk\n\n"
	llm.On("Complete", ctx, BuildPrompt(profile)).Return(reply, nil).Once()

	result, err := svc.Recommend(ctx, profile)

	require.NoError(t, err)
	assert.Equal(t, []string{"Spice Hub", "Green Leaf"}, result.Restaurants)
	assert.Equal(t, []string{"Poha"}, result.Breakfast)
	assert.Equal(t, []string{"Dal Khichdi"}, result.Dinner)
	assert.Equal(t, []string{"Brisk walk"}, result.Workouts)
	llm.AssertExpectations(t)
}

func TestRecommendationService_RecommendMalformedReply(t *testing.T) {
	llm := new(mocks.MockCompletionClient)
	svc := NewRecommendationService(llm, logger.Nop())

	llm.On("Complete", mock.Anything, mock.Anything).Return("I cannot help with that.", nil)

	result, err := svc.Recommend(context.Background(), types.DefaultProfile())

	require.NoError(t, err)
	assert.Empty(t, result.Restaurants)
	assert.Empty(t, result.Breakfast)
	assert.Empty(t, result.Dinner)
	assert.Empty(t, result.Workouts)
}

func TestRecommendationService_RecommendCompletionError(t *testing.T) {
	llm := new(mocks.MockCompletionClient)
	svc := NewRecommendationService(llm, logger.Nop())

	llm.On("Complete", mock.Anything, mock.Anything).Return("", ErrCompletion)

	result, err := svc.Recommend(context.Background(), types.DefaultProfile())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrCompletion))
}
