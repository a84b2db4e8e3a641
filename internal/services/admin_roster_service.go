package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kwiens/seeds/internal/metrics"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminChecker answers allow-list membership for sign-in provisioning
type AdminChecker interface {
	IsAdminEmail(ctx context.Context, email string) (bool, error)
}

// AdminRosterService maintains the database half of the admin allow-list and
// keeps user roles in step with it. The env list is injected at construction
// and can never be removed through this service.
type AdminRosterService interface {
	AdminChecker
	ListAdminEmails(ctx context.Context, actor *policy.Actor) ([]policy.AdminEntry, error)
	// AddAdminEmail inserts a database entry and promotes a matching user
	AddAdminEmail(ctx context.Context, actor *policy.Actor, email string) (*models.AdminEmail, error)
	// RemoveAdminEmail deletes a database entry and demotes a matching user
	// unless the env list still names them
	RemoveAdminEmail(ctx context.Context, actor *policy.Actor, id string) error
}

type adminRosterService struct {
	db        *gorm.DB
	envAdmins []string
}

// NewAdminRosterService creates a new instance of AdminRosterService
func NewAdminRosterService(db *gorm.DB, envAdmins []string) AdminRosterService {
	normalized := make([]string, 0, len(envAdmins))
	for _, email := range envAdmins {
		if email = policy.NormalizeEmail(email); email != "" {
			normalized = append(normalized, email)
		}
	}
	return &adminRosterService{db: db, envAdmins: normalized}
}

func (s *adminRosterService) IsAdminEmail(ctx context.Context, email string) (bool, error) {
	email = policy.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	if policy.InEnvList(s.envAdmins, email) {
		return true, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AdminEmail{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking admin email: %w", err)
	}
	return count > 0, nil
}

func (s *adminRosterService) ListAdminEmails(ctx context.Context, actor *policy.Actor) ([]policy.AdminEntry, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrUnauthorized
	}

	var rows []policy.DatabaseAdmin
	err := s.db.WithContext(ctx).Model(&models.AdminEmail{}).
		Select("admin_emails.id, admin_emails.email, users.name AS added_by_name, admin_emails.created_at").
		Joins("LEFT JOIN users ON users.id = admin_emails.added_by").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing admin emails: %w", err)
	}
	return policy.MergeAdminSources(s.envAdmins, rows), nil
}

func (s *adminRosterService) AddAdminEmail(ctx context.Context, actor *policy.Actor, email string) (*models.AdminEmail, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrUnauthorized
	}

	email = policy.NormalizeEmail(email)
	if !validation.ValidEmail(email) {
		return nil, models.ValidationFailed("Invalid email address")
	}

	entry := models.AdminEmail{Email: email, AddedBy: actor.UserID}
	promoted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
			return err
		}
		// only write the role when it changes
		result := tx.Model(&models.User{}).
			Where("email = ? AND role <> ?", email, models.RoleAdmin).
			Update("role", models.RoleAdmin)
		if result.Error != nil {
			return fmt.Errorf("promoting %s: %w", email, result.Error)
		}
		promoted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.Conflict("Email is already in the admin list")
		}
		return nil, fmt.Errorf("adding admin email: %w", err)
	}

	metrics.RosterChanges.WithLabelValues("added").Inc()
	if promoted {
		metrics.RosterChanges.WithLabelValues("promoted").Inc()
	}
	return &entry, nil
}

func (s *adminRosterService) RemoveAdminEmail(ctx context.Context, actor *policy.Actor, id string) error {
	if !actor.IsAdmin() {
		return models.ErrUnauthorized
	}

	demoted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.AdminEmail
		if err := tx.Where("id = ?", id).First(&entry).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.AdminEmail{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting admin email: %w", err)
		}
		if policy.InEnvList(s.envAdmins, entry.Email) {
			return nil
		}
		result := tx.Model(&models.User{}).
			Where("email = ? AND role = ?", entry.Email, models.RoleAdmin).
			Update("role", models.RoleUser)
		if result.Error != nil {
			return fmt.Errorf("demoting %s: %w", entry.Email, result.Error)
		}
		demoted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NotFound("Admin email not found")
		}
		return fmt.Errorf("removing admin email: %w", err)
	}

	metrics.RosterChanges.WithLabelValues("removed").Inc()
	if demoted {
		metrics.RosterChanges.WithLabelValues("demoted").Inc()
	}
	return nil
}
