package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kwiens/seeds/internal/metrics"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult is the ledger state after a toggle
type ToggleResult struct {
	Supported bool  `json:"supported"`
	NewCount  int64 `json:"new_count"`
}

// SupportService is the support ledger. Callers can only flip membership;
// two toggles in a row leave the ledger as it was.
type SupportService interface {
	ToggleSupport(ctx context.Context, actor *policy.Actor, seedID string) (*ToggleResult, error)
}

type supportService struct {
	db *gorm.DB
}

// NewSupportService creates a new instance of SupportService
func NewSupportService(db *gorm.DB) SupportService {
	return &supportService{db: db}
}

func (s *supportService) ToggleSupport(ctx context.Context, actor *policy.Actor, seedID string) (*ToggleResult, error) {
	if !actor.Authenticated() {
		return nil, models.SignInRequired("You must be signed in to support a seed.")
	}

	var seed models.Seed
	if err := s.db.WithContext(ctx).Select("id", "status", "created_by").Where("id = ?", seedID).First(&seed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("Seed not found.")
		}
		return nil, fmt.Errorf("loading seed %s: %w", seedID, err)
	}
	if !policy.CanViewDetail(actor, seed) {
		return nil, models.NotFound("Seed not found.")
	}

	result := &ToggleResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("seed_id = ? AND user_id = ?", seedID, actor.UserID).Delete(&models.SeedSupport{})
		if deleted.Error != nil {
			return fmt.Errorf("removing support: %w", deleted.Error)
		}

		if deleted.RowsAffected == 0 {
			support := models.SeedSupport{SeedID: seedID, UserID: actor.UserID}
			if err := tx.Omit(clause.Associations).Create(&support).Error; err != nil {
				return err
			}
			result.Supported = true
		}

		return tx.Model(&models.SeedSupport{}).Where("seed_id = ?", seedID).Count(&result.NewCount).Error
	})
	if err != nil {
		// a concurrent toggle inserted the same pair first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.Conflict("You are already supporting this seed.")
		}
		return nil, fmt.Errorf("toggling support for seed %s: %w", seedID, err)
	}

	state := "removed"
	if result.Supported {
		state = "added"
	}
	metrics.SupportToggles.WithLabelValues(state).Inc()
	return result, nil
}
