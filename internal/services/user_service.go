package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"gorm.io/gorm"
)

var ErrEmailRequired = errors.New("email_required")

type UserService interface {
	// ProvisionOnSignIn creates the user on first sign-in and re-asserts the
	// role from the admin allow-list on every later one.
	ProvisionOnSignIn(ctx context.Context, email, name string, image *string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	db     *gorm.DB
	admins AdminChecker
}

func NewUserService(db *gorm.DB, admins AdminChecker) UserService {
	return &userService{db: db, admins: admins}
}

func (s *userService) ProvisionOnSignIn(ctx context.Context, email, name string, image *string) (*models.User, error) {
	email = policy.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	isAdmin, err := s.admins.IsAdminEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	role := models.RoleUser
	if isAdmin {
		role = models.RoleAdmin
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if name == "" {
				name = email
			}
			user = models.User{Email: email, Name: name, Image: image, Role: role}
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}
		if user.Role != role {
			if err := tx.Model(&user).Update("role", role).Error; err != nil {
				return err
			}
			user.Role = role
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("provisioning %s: %w", email, err)
	}
	return &user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", policy.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
