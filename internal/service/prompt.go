package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/nutrinavigator/backend/internal/types"
)

// Section labels the model is asked to reply with, in prompt order
const (
	LabelRestaurants = "Restaurants"
	LabelBreakfast   = "Breakfast"
	LabelDinner      = "Dinner"
	LabelWorkouts    = "Workouts"
)

const recommendationPromptTemplate = "Diet Recommendation System:\n" +
	"I want you to provide output in the following format using the input criteria:\n\n" +
	"Restaurants:\n- name1\n- name2\n- name3\n- name4\n- name5\n\n" +
	"Breakfast:\n- item1\n- item2\n- item3\n- item4\n- item5\n\n" +
	"Dinner:\n- item1\n- item2\n- item3\n- item4\n- item5\n\n" +
	"Workouts:\n- workout1\n- workout2\n- workout3\n- workout4\n- workout5\n\n" +
	"Criteria:\nAge: %s, Gender: %s, Weight: %s kg, Height: %s ft, " +
	"Vegetarian: %s, Disease: %s, Region: %s, " +
	"Allergics: %s, Food Preference: %s.\n"

// BuildPrompt renders the recommendation prompt for a profile. Free-text fields are
// inserted as-is.
func BuildPrompt(profile types.UserProfile) string {
	return fmt.Sprintf(recommendationPromptTemplate,
		strconv.Itoa(profile.Age),
		strings.ToLower(profile.Gender),
		formatDecimal(profile.Weight),
		formatDecimal(profile.Height),
		strings.ToLower(profile.DietaryPreference),
		profile.Disease,
		profile.Region,
		profile.Allergies,
		profile.FoodType,
	)
}

// formatDecimal prints the shortest representation of v, keeping at least one
// fractional digit so 70 reads as "70.0".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
