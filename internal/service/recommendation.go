package service

import (
	"context"
	"fmt"

	"github.com/pageza/nutrinavigator/backend/internal/pkg/ctxutil"
	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
	"github.com/pageza/nutrinavigator/backend/internal/types"
)

// RecommendationService turns a profile into recommendations with one completion call
type RecommendationService struct {
	llm CompletionClient
	log *logger.Logger
}

// Ensure RecommendationService implements IRecommendationService
var _ IRecommendationService = (*RecommendationService)(nil)

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(llm CompletionClient, log *logger.Logger) *RecommendationService {
	return &RecommendationService{
		llm: llm,
		log: log,
	}
}

// Recommend builds the prompt, asks the model and parses its reply. Completion
// failures are returned wrapped; a reply that does not follow the requested format
// yields empty lists, never an error.
func (s *RecommendationService) Recommend(ctx context.Context, profile types.UserProfile) (*types.RecommendationResult, error) {
	log := s.log.With("request_id", ctxutil.RequestID(ctx))

	prompt := BuildPrompt(profile)
	log.Debug("sending recommendation prompt", "prompt_length", len(prompt))

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		log.Error("completion failed", "error", err)
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	result := ParseRecommendations(reply)
	log.Info("recommendations parsed",
		"reply_length", len(reply),
		"restaurants", len(result.Restaurants),
		"breakfast", len(result.Breakfast),
		"dinner", len(result.Dinner),
		"workouts", len(result.Workouts),
	)

	for label, items := range map[string][]string{
		LabelRestaurants: result.Restaurants,
		LabelBreakfast:   result.Breakfast,
		LabelDinner:      result.Dinner,
		LabelWorkouts:    result.Workouts,
	} {
		if len(items) == 0 {
			log.Warn("section missing from model reply", "section", label)
		}
	}

	return result, nil
}
