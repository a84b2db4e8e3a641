package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kwiens/seeds/internal/metrics"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedService handles end-user content edits. Failures a user can cause are
// returned as *models.ActionError; anything else is an infrastructure error.
type SeedService interface {
	// CreateSeed plants a new seed owned by actor. New seeds always start pending.
	CreateSeed(ctx context.Context, actor *policy.Actor, input validation.SeedInput) (*models.Seed, error)
	// UpdateSeed replaces the content fields of a seed the actor can edit.
	// Status and owner are never touched.
	UpdateSeed(ctx context.Context, actor *policy.Actor, id string, input validation.SeedInput) (*models.Seed, error)
}

type seedService struct {
	db *gorm.DB
}

// NewSeedService creates a new instance of SeedService
func NewSeedService(db *gorm.DB) SeedService {
	return &seedService{db: db}
}

func (s *seedService) CreateSeed(ctx context.Context, actor *policy.Actor, input validation.SeedInput) (*models.Seed, error) {
	if !actor.Authenticated() {
		return nil, models.SignInRequired("You must be signed in to plant a seed.")
	}
	if msg := validation.ValidateSeed(input); msg != "" {
		return nil, models.ValidationFailed(msg)
	}
	input = validation.Normalize(input)

	seed := models.Seed{
		Status:    models.SeedStatusPending,
		CreatedBy: actor.UserID,
	}
	applyContent(&seed, input)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("creating seed: %w", err)
	}
	metrics.SeedsCreated.Inc()
	return &seed, nil
}

func (s *seedService) UpdateSeed(ctx context.Context, actor *policy.Actor, id string, input validation.SeedInput) (*models.Seed, error) {
	if !actor.Authenticated() {
		return nil, models.SignInRequired("You must be signed in.")
	}

	var seed models.Seed
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&seed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("Seed not found.")
		}
		return nil, fmt.Errorf("loading seed %s: %w", id, err)
	}

	if !policy.CanViewDetail(actor, seed) {
		// archived seeds stay indistinguishable from missing ones
		return nil, models.NotFound("Seed not found.")
	}
	if !policy.CanEdit(actor, seed) {
		return nil, models.PermissionDenied("You don't have permission to edit this seed.")
	}

	if msg := validation.ValidateSeed(input); msg != "" {
		return nil, models.ValidationFailed(msg)
	}
	input = validation.Normalize(input)

	applyContent(&seed, input)
	seed.UpdatedAt = s.db.NowFunc()

	err := s.db.WithContext(ctx).
		Model(&models.Seed{}).
		Where("id = ?", id).
		Updates(contentColumns(seed)).Error
	if err != nil {
		return nil, fmt.Errorf("updating seed %s: %w", id, err)
	}
	return &seed, nil
}

// applyContent copies the editable fields of input onto seed
func applyContent(seed *models.Seed, input validation.SeedInput) {
	seed.Name = input.Name
	seed.Summary = input.Summary
	seed.Category = input.Category
	seed.Gardeners = datatypes.JSONSlice[string](input.Gardeners)
	seed.Roots = datatypes.JSONSlice[models.RootEntry](input.Roots)
	seed.SupportPeople = datatypes.JSONSlice[string](input.SupportPeople)
	seed.WaterHave = datatypes.JSONSlice[string](input.WaterHave)
	seed.WaterNeed = datatypes.JSONSlice[string](input.WaterNeed)
	seed.Obstacles = input.Obstacles
	seed.LocationAddress = input.LocationAddress
	seed.LocationLat = input.LocationLat
	seed.LocationLng = input.LocationLng
}

// contentColumns lists every editable column so omitted optionals are cleared to NULL
func contentColumns(seed models.Seed) map[string]interface{} {
	return map[string]interface{}{
		"name":             seed.Name,
		"summary":          seed.Summary,
		"category":         seed.Category,
		"gardeners":        seed.Gardeners,
		"roots":            seed.Roots,
		"support_people":   seed.SupportPeople,
		"water_have":       seed.WaterHave,
		"water_need":       seed.WaterNeed,
		"obstacles":        seed.Obstacles,
		"location_address": seed.LocationAddress,
		"location_lat":     seed.LocationLat,
		"location_lng":     seed.LocationLng,
		"updated_at":       seed.UpdatedAt,
	}
}
