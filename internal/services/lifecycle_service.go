package services

import (
	"context"
	"fmt"

	"github.com/kwiens/seeds/internal/metrics"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transition names an admin lifecycle action
type Transition string

const (
	TransitionApprove   Transition = "approve"
	TransitionUnapprove Transition = "unapprove"
	TransitionArchive   Transition = "archive"
	TransitionUnarchive Transition = "unarchive"
)

type transitionRule struct {
	// from is empty when any source state is accepted
	from []models.SeedStatus
	to   models.SeedStatus
}

var transitionRules = map[Transition]transitionRule{
	TransitionApprove:   {to: models.SeedStatusApproved},
	TransitionUnapprove: {from: []models.SeedStatus{models.SeedStatusApproved}, to: models.SeedStatusPending},
	TransitionArchive:   {to: models.SeedStatusArchived},
	TransitionUnarchive: {from: []models.SeedStatus{models.SeedStatusArchived}, to: models.SeedStatusPending},
}

// Allows reports whether t may start from status
func (t Transition) Allows(status models.SeedStatus) bool {
	rule, ok := transitionRules[t]
	if !ok {
		return false
	}
	if len(rule.from) == 0 {
		return true
	}
	for _, from := range rule.from {
		if from == status {
			return true
		}
	}
	return false
}

// Target returns the status t moves a seed to
func (t Transition) Target() models.SeedStatus {
	return transitionRules[t].to
}

// LifecycleService owns seed status transitions. Every method is admin-only;
// a non-admin actor is a programming error and fails with models.ErrUnauthorized.
type LifecycleService interface {
	// ApproveSeed sets status=approved and appends an approval row in one transaction.
	// Approving an already-approved seed appends another row.
	ApproveSeed(ctx context.Context, actor *policy.Actor, seedID string) error
	// UnapproveSeed moves an approved seed back to pending
	UnapproveSeed(ctx context.Context, actor *policy.Actor, seedID string) error
	// ArchiveSeed hides a seed from everyone but its owner and admins
	ArchiveSeed(ctx context.Context, actor *policy.Actor, seedID string) error
	// UnarchiveSeed returns an archived seed to pending review
	UnarchiveSeed(ctx context.Context, actor *policy.Actor, seedID string) error
	// Apply runs a named transition
	Apply(ctx context.Context, actor *policy.Actor, seedID string, transition Transition) error
}

type lifecycleService struct {
	db *gorm.DB
}

// NewLifecycleService creates a new instance of LifecycleService
func NewLifecycleService(db *gorm.DB) LifecycleService {
	return &lifecycleService{db: db}
}

func (s *lifecycleService) ApproveSeed(ctx context.Context, actor *policy.Actor, seedID string) error {
	return s.Apply(ctx, actor, seedID, TransitionApprove)
}

func (s *lifecycleService) UnapproveSeed(ctx context.Context, actor *policy.Actor, seedID string) error {
	return s.Apply(ctx, actor, seedID, TransitionUnapprove)
}

func (s *lifecycleService) ArchiveSeed(ctx context.Context, actor *policy.Actor, seedID string) error {
	return s.Apply(ctx, actor, seedID, TransitionArchive)
}

func (s *lifecycleService) UnarchiveSeed(ctx context.Context, actor *policy.Actor, seedID string) error {
	return s.Apply(ctx, actor, seedID, TransitionUnarchive)
}

func (s *lifecycleService) Apply(ctx context.Context, actor *policy.Actor, seedID string, transition Transition) error {
	if !actor.IsAdmin() {
		return models.ErrUnauthorized
	}
	rule, ok := transitionRules[transition]
	if !ok {
		return fmt.Errorf("%w: unknown transition %q", models.ErrInvalidTransition, transition)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The status guard lives in the UPDATE so a concurrent transition
		// cannot slip between a read and the write.
		query := tx.Model(&models.Seed{}).Where("id = ?", seedID)
		if len(rule.from) > 0 {
			query = query.Where("status IN ?", rule.from)
		}
		result := query.Updates(map[string]interface{}{
			"status":     rule.to,
			"updated_at": tx.NowFunc(),
		})
		if result.Error != nil {
			return fmt.Errorf("updating seed %s status: %w", seedID, result.Error)
		}
		if result.RowsAffected == 0 {
			return explainNoTransition(tx, seedID, transition)
		}

		if rule.to == models.SeedStatusApproved {
			approval := models.SeedApproval{SeedID: seedID, ApprovedBy: actor.UserID}
			if err := tx.Omit(clause.Associations).Create(&approval).Error; err != nil {
				return fmt.Errorf("recording approval of seed %s: %w", seedID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.SeedTransitions.WithLabelValues(string(transition)).Inc()
	return nil
}

// explainNoTransition distinguishes a missing seed from a disallowed source state
func explainNoTransition(tx *gorm.DB, seedID string, transition Transition) error {
	var seed models.Seed
	err := tx.Select("id", "status").Where("id = ?", seedID).Limit(1).Find(&seed).Error
	if err != nil {
		return fmt.Errorf("loading seed %s: %w", seedID, err)
	}
	if seed.ID == "" {
		return fmt.Errorf("%w: %s", models.ErrSeedNotFound, seedID)
	}
	return fmt.Errorf("%w: cannot %s a seed that is %s", models.ErrInvalidTransition, transition, seed.Status)
}
