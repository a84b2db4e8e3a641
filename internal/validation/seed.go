// Package validation enforces the seed input schema before any write.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kwiens/seeds/internal/models"
)

const (
	MaxNameLength    = 160
	MaxSummaryLength = 10000
	MaxListItems     = 50
	MaxItemLength    = 200
)

// SeedInput is the editable content of a seed
type SeedInput struct {
	Name            string             `json:"name" validate:"required,max=160"`
	Summary         string             `json:"summary" validate:"required,max=10000"`
	Category        models.Category    `json:"category" validate:"required,seed_category"`
	Gardeners       []string           `json:"gardeners" validate:"max=50,dive,max=200"`
	Roots           []models.RootEntry `json:"roots" validate:"max=50,dive"`
	SupportPeople   []string           `json:"support_people" validate:"max=50,dive,max=200"`
	WaterHave       []string           `json:"water_have" validate:"max=50,dive,max=200"`
	WaterNeed       []string           `json:"water_need" validate:"max=50,dive,max=200"`
	Obstacles       *string            `json:"obstacles" validate:"omitempty,max=10000"`
	LocationAddress *string            `json:"location_address" validate:"omitempty,max=500"`
	LocationLat     *float64           `json:"location_lat" validate:"omitempty,gte=-90,lte=90"`
	LocationLng     *float64           `json:"location_lng" validate:"omitempty,gte=-180,lte=180"`
}

var (
	validate     = newValidator()
	indexPattern = regexp.MustCompile(`\[\d+\]`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("seed_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}

// ValidateSeed checks input and returns the first violation as a user-facing
// message, or "" when the input is valid.
func ValidateSeed(input SeedInput) string {
	err := validate.Struct(input)
	if err == nil {
		return ""
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "Invalid form data."
	}
	return messageFor(fieldErrors[0])
}

// Normalize replaces nil lists with empty ones so storage never holds null arrays
func Normalize(input SeedInput) SeedInput {
	if input.Gardeners == nil {
		input.Gardeners = []string{}
	}
	if input.Roots == nil {
		input.Roots = []models.RootEntry{}
	}
	if input.SupportPeople == nil {
		input.SupportPeople = []string{}
	}
	if input.WaterHave == nil {
		input.WaterHave = []string{}
	}
	if input.WaterNeed == nil {
		input.WaterNeed = []string{}
	}
	return input
}

var listLabels = map[string]string{
	"Gardeners":     "Gardeners",
	"Roots":         "Roots",
	"SupportPeople": "Support people",
	"WaterHave":     "Water we have",
	"WaterNeed":     "Water we need",
}

// fieldKey turns "SeedInput.Roots[3].Name" into "Roots.Name"
func fieldKey(fe validator.FieldError) string {
	key := indexPattern.ReplaceAllString(fe.StructNamespace(), "")
	return strings.TrimPrefix(key, "SeedInput.")
}

func messageFor(fe validator.FieldError) string {
	key := fieldKey(fe)
	switch key {
	case "Name":
		if fe.Tag() == "required" {
			return "Project name is required"
		}
		return "Project name must be 160 characters or fewer"
	case "Summary":
		if fe.Tag() == "required" {
			return "Summary is required"
		}
		return "Summary must be 10,000 characters or fewer"
	case "Category":
		return "Please choose a valid category"
	case "Obstacles":
		return "Obstacles must be 10,000 characters or fewer"
	case "LocationAddress":
		return "Address must be 500 characters or fewer"
	case "LocationLat", "LocationLng":
		return "Location coordinates are out of range"
	case "Roots.Name":
		return "Each root must be 200 characters or fewer"
	}

	if label, ok := listLabels[key]; ok {
		if fe.Kind() == reflect.Slice {
			return label + " can have at most 50 entries"
		}
		return "Each entry in " + strings.ToLower(label) + " must be 200 characters or fewer"
	}
	return "Invalid form data."
}

// ValidEmail reports whether email is a well-formed address
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
