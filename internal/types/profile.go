package types

import "strings"

// Gender values accepted from the form and the JSON API
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Dietary preference values accepted from the form and the JSON API
const (
	DietVeg    = "Veg"
	DietNonVeg = "Non-Veg"
)

// NoneValue is what an empty disease or allergies field means
const NoneValue = "None"

// UserProfile holds the health attributes submitted for one recommendation request.
// It lives only for the duration of that request.
type UserProfile struct {
	Age               int     `form:"age" json:"age" binding:"required,min=1,max=120"`
	Gender            string  `form:"gender" json:"gender" binding:"required,oneof=Male Female male female"`
	Weight            float64 `form:"weight" json:"weight" binding:"required,min=10,max=300"`
	Height            float64 `form:"height" json:"height" binding:"required,min=1,max=8"`
	DietaryPreference string  `form:"veg_or_nonveg" json:"veg_or_nonveg" binding:"required,oneof=Veg Non-Veg veg non-veg"`
	Disease           string  `form:"disease" json:"disease"`
	Region            string  `form:"region" json:"region"`
	Allergies         string  `form:"allergics" json:"allergics"`
	FoodType          string  `form:"foodtype" json:"foodtype"`
}

// DefaultProfile returns the values the form starts with
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:               25,
		Gender:            GenderMale,
		Weight:            70.0,
		Height:            6.0,
		DietaryPreference: DietVeg,
		Disease:           NoneValue,
		Region:            "Kalyan, India",
		Allergies:         NoneValue,
		FoodType:          "Indian",
	}
}

// WithDefaults fills blank disease and allergies with "None".
func (p UserProfile) WithDefaults() UserProfile {
	if strings.TrimSpace(p.Disease) == "" {
		p.Disease = NoneValue
	}
	if strings.TrimSpace(p.Allergies) == "" {
		p.Allergies = NoneValue
	}
	return p
}

// RecommendationResult is the parsed model reply, one list per section
type RecommendationResult struct {
	Restaurants []string `json:"restaurants"`
	Breakfast   []string `json:"breakfast"`
	Dinner      []string `json:"dinner"`
	Workouts    []string `json:"workouts"`
}

// RecommendationResponse is the body returned by the JSON API
type RecommendationResponse struct {
	Profile         UserProfile           `json:"profile"`
	Recommendations *RecommendationResult `json:"recommendations"`
}
