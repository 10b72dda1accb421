package service

import (
	"strings"
	"unicode"

	"github.com/pageza/nutrinavigator/backend/internal/types"
)

const sectionTerminator = "\n\n"

// ParseRecommendations splits a model reply into the four recommendation lists.
// It is best effort: a section that is missing, or that is not followed by a blank
// line, comes back as an empty list.
func ParseRecommendations(reply string) *types.RecommendationResult {
	return &types.RecommendationResult{
		Restaurants: cleanList(extractSection(reply, LabelRestaurants)),
		Breakfast:   cleanList(extractSection(reply, LabelBreakfast)),
		Dinner:      cleanList(extractSection(reply, LabelDinner)),
		Workouts:    cleanList(extractSection(reply, LabelWorkouts)),
	}
}

// extractSection returns the text between the first "label:" and the next blank line.
func extractSection(reply, label string) string {
	marker := label + ":"
	start := strings.Index(reply, marker)
	if start < 0 {
		return ""
	}
	rest := reply[start+len(marker):]
	end := strings.Index(rest, sectionTerminator)
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func cleanList(block string) []string {
	items := []string{}
	for _, line := range strings.Split(block, "\n") {
		item := strings.TrimFunc(line, isBulletOrSpace)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func isBulletOrSpace(r rune) bool {
	switch r {
	case '-', '*', '•':
		return true
	}
	return unicode.IsSpace(r)
}
