package service

import (
	"context"

	"github.com/pageza/nutrinavigator/backend/internal/types"
)

// IRecommendationService defines the interface for recommendation operations
type IRecommendationService interface {
	Recommend(ctx context.Context, profile types.UserProfile) (*types.RecommendationResult, error)
}
