package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminEmail is the database-managed half of the admin allow-list
type AdminEmail struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	AddedBy   string    `gorm:"type:varchar(36);not null" json:"added_by"`
	CreatedAt time.Time `json:"created_at"`

	AddedByUser User `gorm:"foreignKey:AddedBy" json:"-"`
}

func (AdminEmail) TableName() string {
	return "admin_emails"
}

func (a *AdminEmail) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
