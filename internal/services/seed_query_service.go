package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"gorm.io/gorm"
)

// DefaultPageSize is the listing page size when none is given
const DefaultPageSize = 20

// supportCountColumn is a live aggregate so counts never lag behind toggles
const supportCountColumn = "(select count(*) from seed_supports where seed_supports.seed_id = seeds.id) AS support_count"

// SortBy orders a listing
type SortBy string

const (
	SortNewest        SortBy = "newest"
	SortMostSupported SortBy = "mostSupported"
)

// ParseSortBy maps a query value to a SortBy, defaulting to newest
func ParseSortBy(raw string) SortBy {
	if SortBy(raw) == SortMostSupported {
		return SortMostSupported
	}
	return SortNewest
}

// ListOptions filters and pages the public feed
type ListOptions struct {
	Category models.Category
	Page     int
	PageSize int
	SortBy   SortBy
	// ViewerID adds the viewer's own non-archived seeds to the approved set
	ViewerID string
}

// SeedSummary is a listing row
type SeedSummary struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Summary      string            `json:"summary,omitempty"`
	Category     models.Category   `json:"category"`
	ImageURL     *string           `json:"image_url"`
	LocationLat  *float64          `json:"location_lat"`
	LocationLng  *float64          `json:"location_lng"`
	Status       models.SeedStatus `json:"status"`
	CreatedBy    string            `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	SupportCount int64             `json:"support_count"`
}

// SeedPage is one page of the public feed
type SeedPage struct {
	Seeds       []SeedSummary `json:"seeds"`
	TotalCount  int64         `json:"total_count"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// MapPin is the projection the map view renders
type MapPin struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	LocationLat *float64        `json:"location_lat"`
	LocationLng *float64        `json:"location_lng"`
}

// AdminSeedRow is one row of the admin review table
type AdminSeedRow struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Category     models.Category   `json:"category"`
	Status       models.SeedStatus `json:"status"`
	CreatedBy    string            `json:"created_by"`
	CreatorName  string            `json:"creator_name"`
	CreatorEmail string            `json:"creator_email"`
	CreatedAt    time.Time         `json:"created_at"`
	SupportCount int64             `json:"support_count"`
}

// Supporter is a user who supports a seed. Email is empty unless the viewer may edit the seed.
type Supporter struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	SupportedAt time.Time `json:"supported_at"`
}

// SeedDetail is everything the detail page renders for one viewer
type SeedDetail struct {
	Seed         *models.Seed `json:"seed"`
	CreatorName  string       `json:"creator_name"`
	CreatorImage *string      `json:"creator_image"`
	SupportCount int64        `json:"support_count"`
	Supporters   []Supporter  `json:"supporters"`
	HasSupported bool         `json:"has_supported"`
	CanEdit      bool         `json:"can_edit"`
}

// SeedQueryService is the visibility-filtered read side. Multi-row reads put the
// listing predicate into SQL so pagination and totals stay correct.
type SeedQueryService interface {
	ListApproved(ctx context.Context, opts ListOptions) (*SeedPage, error)
	ListForMap(ctx context.Context, category models.Category, viewerID string) ([]MapPin, error)
	// GetDetail fetches a seed and its creator without any visibility filter.
	// Returns models.ErrSeedNotFound when the id does not resolve.
	GetDetail(ctx context.Context, id string) (*models.Seed, error)
	// GetDetailView applies CanViewDetail and redacts supporters for actor
	GetDetailView(ctx context.Context, actor *policy.Actor, id string) (*SeedDetail, error)
	// ListOwnedByUser returns the user's dashboard; archived seeds are treated as trashed
	ListOwnedByUser(ctx context.Context, userID string) ([]SeedSummary, error)
	// ListAllForAdmin bypasses visibility filtering and is admin-only
	ListAllForAdmin(ctx context.Context, actor *policy.Actor) ([]AdminSeedRow, error)
	GetSupportCount(ctx context.Context, seedID string) (int64, error)
	GetSupporters(ctx context.Context, actor *policy.Actor, seed *models.Seed) ([]Supporter, error)
	// GetSupportersForEditor is the dashboard read with full names and emails
	GetSupportersForEditor(ctx context.Context, actor *policy.Actor, seedID string) ([]Supporter, error)
	HasUserSupported(ctx context.Context, seedID, userID string) (bool, error)
}

type seedQueryService struct {
	db *gorm.DB
}

// NewSeedQueryService creates a new instance of SeedQueryService
func NewSeedQueryService(db *gorm.DB) SeedQueryService {
	return &seedQueryService{db: db}
}

// visibleInListings is the SQL form of policy.CanViewInListings
func visibleInListings(viewerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == "" {
			return db.Where("seeds.status = ?", models.SeedStatusApproved)
		}
		return db.Where("(seeds.status = ? OR (seeds.created_by = ? AND seeds.status <> ?))",
			models.SeedStatusApproved, viewerID, models.SeedStatusArchived)
	}
}

func inCategory(category models.Category) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if category == "" {
			return db
		}
		return db.Where("seeds.category = ?", category)
	}
}

func (s *seedQueryService) ListApproved(ctx context.Context, opts ListOptions) (*SeedPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	base := s.db.WithContext(ctx).Model(&models.Seed{}).
		Scopes(visibleInListings(opts.ViewerID), inCategory(opts.Category))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting seeds: %w", err)
	}

	query := base.Session(&gorm.Session{}).
		Select("seeds.id, seeds.name, seeds.summary, seeds.category, seeds.image_url, seeds.location_lat, seeds.location_lng, seeds.status, seeds.created_by, seeds.created_at, " + supportCountColumn)
	if opts.SortBy == SortMostSupported {
		query = query.Order("support_count DESC")
	}
	query = query.Order("seeds.created_at DESC").Order("seeds.id")

	seeds := []SeedSummary{}
	err := query.Limit(opts.PageSize).Offset((opts.Page - 1) * opts.PageSize).Scan(&seeds).Error
	if err != nil {
		return nil, fmt.Errorf("listing seeds: %w", err)
	}

	return &SeedPage{
		Seeds:       seeds,
		TotalCount:  total,
		TotalPages:  int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize)),
		CurrentPage: opts.Page,
	}, nil
}

func (s *seedQueryService) ListForMap(ctx context.Context, category models.Category, viewerID string) ([]MapPin, error) {
	pins := []MapPin{}
	err := s.db.WithContext(ctx).Model(&models.Seed{}).
		Scopes(visibleInListings(viewerID), inCategory(category)).
		Select("seeds.id, seeds.name, seeds.category, seeds.location_lat, seeds.location_lng").
		Order("seeds.created_at DESC").
		Scan(&pins).Error
	if err != nil {
		return nil, fmt.Errorf("listing map pins: %w", err)
	}
	return pins, nil
}

func (s *seedQueryService) GetDetail(ctx context.Context, id string) (*models.Seed, error) {
	var seed models.Seed
	if err := s.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&seed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrSeedNotFound, id)
		}
		return nil, fmt.Errorf("loading seed %s: %w", id, err)
	}
	return &seed, nil
}

func (s *seedQueryService) GetDetailView(ctx context.Context, actor *policy.Actor, id string) (*SeedDetail, error) {
	seed, err := s.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrSeedNotFound) {
			return nil, models.NotFound("Seed not found.")
		}
		return nil, err
	}
	if !policy.CanViewDetail(actor, seed) {
		return nil, models.NotFound("Seed not found.")
	}

	count, err := s.GetSupportCount(ctx, seed.ID)
	if err != nil {
		return nil, err
	}
	supporters, err := s.GetSupporters(ctx, actor, seed)
	if err != nil {
		return nil, err
	}
	supported := false
	if actor.Authenticated() {
		if supported, err = s.HasUserSupported(ctx, seed.ID, actor.UserID); err != nil {
			return nil, err
		}
	}

	return &SeedDetail{
		Seed:         seed,
		CreatorName:  seed.Creator.Name,
		CreatorImage: seed.Creator.Image,
		SupportCount: count,
		Supporters:   supporters,
		HasSupported: supported,
		CanEdit:      policy.CanEdit(actor, seed),
	}, nil
}

func (s *seedQueryService) ListOwnedByUser(ctx context.Context, userID string) ([]SeedSummary, error) {
	seeds := []SeedSummary{}
	err := s.db.WithContext(ctx).Model(&models.Seed{}).
		Select("seeds.id, seeds.name, seeds.category, seeds.image_url, seeds.status, seeds.created_by, seeds.created_at, "+supportCountColumn).
		Where("seeds.created_by = ? AND seeds.status <> ?", userID, models.SeedStatusArchived).
		Order("seeds.created_at DESC").
		Scan(&seeds).Error
	if err != nil {
		return nil, fmt.Errorf("listing seeds for user %s: %w", userID, err)
	}
	return seeds, nil
}

func (s *seedQueryService) ListAllForAdmin(ctx context.Context, actor *policy.Actor) ([]AdminSeedRow, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrUnauthorized
	}

	rows := []AdminSeedRow{}
	err := s.db.WithContext(ctx).Model(&models.Seed{}).
		Select("seeds.id, seeds.name, seeds.category, seeds.status, seeds.created_by, users.name AS creator_name, users.email AS creator_email, seeds.created_at, " + supportCountColumn).
		Joins("JOIN users ON users.id = seeds.created_by").
		Order("seeds.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing seeds for admin: %w", err)
	}
	return rows, nil
}

func (s *seedQueryService) GetSupportCount(ctx context.Context, seedID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SeedSupport{}).Where("seed_id = ?", seedID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting supports for seed %s: %w", seedID, err)
	}
	return count, nil
}

func (s *seedQueryService) GetSupporters(ctx context.Context, actor *policy.Actor, seed *models.Seed) ([]Supporter, error) {
	supporters := []Supporter{}
	err := s.db.WithContext(ctx).Model(&models.SeedSupport{}).
		Select("users.id AS user_id, users.name, users.email, seed_supports.created_at AS supported_at").
		Joins("JOIN users ON users.id = seed_supports.user_id").
		Where("seed_supports.seed_id = ?", seed.ID).
		Order("seed_supports.created_at DESC").
		Scan(&supporters).Error
	if err != nil {
		return nil, fmt.Errorf("listing supporters for seed %s: %w", seed.ID, err)
	}

	if !policy.SupporterEmailVisibility(actor, seed) {
		for i := range supporters {
			supporters[i].Email = ""
			supporters[i].Name = ShortenName(supporters[i].Name)
		}
	}
	return supporters, nil
}

func (s *seedQueryService) GetSupportersForEditor(ctx context.Context, actor *policy.Actor, seedID string) ([]Supporter, error) {
	if !actor.Authenticated() {
		return nil, models.SignInRequired("You must be signed in.")
	}
	seed, err := s.GetDetail(ctx, seedID)
	if err != nil {
		if errors.Is(err, models.ErrSeedNotFound) {
			return nil, models.NotFound("Seed not found.")
		}
		return nil, err
	}
	if !policy.CanEdit(actor, seed) {
		return nil, models.NotFound("Seed not found.")
	}
	return s.GetSupporters(ctx, actor, seed)
}

func (s *seedQueryService) HasUserSupported(ctx context.Context, seedID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SeedSupport{}).
		Where("seed_id = ? AND user_id = ?", seedID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking support for seed %s: %w", seedID, err)
	}
	return count > 0, nil
}

// ShortenName renders "Jane Q Public" as "Jane P." for public supporter lists
func ShortenName(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0]) + "."
}
