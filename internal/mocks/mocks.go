package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutrinavigator/backend/internal/types"
)

// MockCompletionClient is a mock implementation of the completion client
type MockCompletionClient struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockRecommendationService is a mock implementation of the recommendation service
type MockRecommendationService struct {
	mock.Mock
}

// Recommend mocks the Recommend method
func (m *MockRecommendationService) Recommend(ctx context.Context, profile types.UserProfile) (*types.RecommendationResult, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecommendationResult), args.Error(1)
}
