package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedStatus is the lifecycle state of a seed
type SeedStatus string

const (
	// SeedStatusDraft exists for schema compatibility; nothing produces it.
	SeedStatusDraft    SeedStatus = "draft"
	SeedStatusPending  SeedStatus = "pending"
	SeedStatusApproved SeedStatus = "approved"
	SeedStatusArchived SeedStatus = "archived"
)

// RootEntry is an organization associated with a seed
type RootEntry struct {
	Name      string `json:"name" validate:"max=200"`
	Committed bool   `json:"committed"`
}

// Seed is a community project proposal
type Seed struct {
	ID              string                         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name            string                         `gorm:"not null" json:"name"`
	Summary         string                         `gorm:"not null" json:"summary"`
	Category        Category                       `gorm:"type:varchar(32);not null;index;check:chk_seeds_category,category IN ('daily_access','outdoor_play','balanced_growth','respect','connected_communities')" json:"category"`
	Gardeners       datatypes.JSONSlice[string]    `gorm:"not null" json:"gardeners"`
	Roots           datatypes.JSONSlice[RootEntry] `gorm:"not null" json:"roots"`
	SupportPeople   datatypes.JSONSlice[string]    `gorm:"not null" json:"support_people"`
	WaterHave       datatypes.JSONSlice[string]    `gorm:"not null" json:"water_have"`
	WaterNeed       datatypes.JSONSlice[string]    `gorm:"not null" json:"water_need"`
	Obstacles       *string                        `json:"obstacles"`
	LocationAddress *string                        `json:"location_address"`
	LocationLat     *float64                       `json:"location_lat"`
	LocationLng     *float64                       `json:"location_lng"`
	ImageURL        *string                        `json:"image_url"`
	Status          SeedStatus                     `gorm:"type:varchar(16);not null;default:'pending';index;check:chk_seeds_status,status IN ('draft','pending','approved','archived')" json:"status"`
	CreatedBy       string                         `gorm:"type:varchar(36);not null;index" json:"created_by"`
	CreatedAt       time.Time                      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`

	// Relationships
	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (s *Seed) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// OwnerID returns the creating user's id
func (s Seed) OwnerID() string { return s.CreatedBy }

// LifecycleStatus returns the current lifecycle state
func (s Seed) LifecycleStatus() SeedStatus { return s.Status }

// SeedApproval is one row of the append-only approval history
type SeedApproval struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SeedID     string    `gorm:"type:varchar(36);not null;index" json:"seed_id"`
	ApprovedBy string    `gorm:"type:varchar(36);not null" json:"approved_by"`
	ApprovedAt time.Time `gorm:"not null" json:"approved_at"`

	Seed     Seed `gorm:"foreignKey:SeedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Approver User `gorm:"foreignKey:ApprovedBy" json:"-"`
}

func (a *SeedApproval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.ApprovedAt.IsZero() {
		a.ApprovedAt = tx.NowFunc()
	}
	return nil
}

// SeedSupport records that a user supports a seed. At most one row per pair.
type SeedSupport struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SeedID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_seed_supports_seed_user" json:"seed_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_seed_supports_seed_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Seed Seed `gorm:"foreignKey:SeedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (s *SeedSupport) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
