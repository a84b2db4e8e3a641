package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kwiens/seeds/internal/images"
	"github.com/kwiens/seeds/internal/metrics"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const imageFailedMessage = "Failed to generate image. Please try again later."

// ImageService is the seed image side task. It never fails the caller's page:
// every generator or storage problem is logged and converted to an ActionError.
type ImageService interface {
	Enabled() bool
	// GenerateSeedImage returns the existing image when there is one
	GenerateSeedImage(ctx context.Context, actor *policy.Actor, seedID string) (string, error)
	// RegenerateSeedImage always produces a new image
	RegenerateSeedImage(ctx context.Context, actor *policy.Actor, seedID string) (string, error)
}

type imageService struct {
	db        *gorm.DB
	generator images.Generator
	store     images.BlobStore
	// first-time generations per seed share one model call
	inflight singleflight.Group
}

// NewImageService creates a new instance of ImageService. A nil generator or
// store leaves the service disabled.
func NewImageService(db *gorm.DB, generator images.Generator, store images.BlobStore) ImageService {
	return &imageService{db: db, generator: generator, store: store}
}

func (s *imageService) Enabled() bool {
	return s.generator != nil && s.store != nil
}

func (s *imageService) GenerateSeedImage(ctx context.Context, actor *policy.Actor, seedID string) (string, error) {
	seed, err := s.loadEditable(ctx, actor, seedID, "You don't have permission to generate an image for this seed.")
	if err != nil {
		return "", err
	}
	if seed.ImageURL != nil && *seed.ImageURL != "" {
		metrics.ImageGenerations.WithLabelValues("skipped").Inc()
		return *seed.ImageURL, nil
	}

	url, err, _ := s.inflight.Do(seed.ID, func() (interface{}, error) {
		return s.generate(ctx, seed, true)
	})
	if err != nil {
		return "", err
	}
	return url.(string), nil
}

func (s *imageService) RegenerateSeedImage(ctx context.Context, actor *policy.Actor, seedID string) (string, error) {
	seed, err := s.loadEditable(ctx, actor, seedID, "You don't have permission to regenerate this image.")
	if err != nil {
		return "", err
	}
	return s.generate(ctx, seed, false)
}

func (s *imageService) loadEditable(ctx context.Context, actor *policy.Actor, seedID, denied string) (*models.Seed, error) {
	if !actor.Authenticated() {
		return nil, models.SignInRequired("You must be signed in.")
	}
	var seed models.Seed
	if err := s.db.WithContext(ctx).Where("id = ?", seedID).First(&seed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("Seed not found.")
		}
		return nil, fmt.Errorf("loading seed %s: %w", seedID, err)
	}
	if !policy.CanEdit(actor, seed) {
		return nil, models.PermissionDenied(denied)
	}
	return &seed, nil
}

// generate produces and stores an image. With onlyIfMissing the URL is written
// only while the seed still has none; a concurrent winner's URL is returned instead.
func (s *imageService) generate(ctx context.Context, seed *models.Seed, onlyIfMissing bool) (string, error) {
	if !s.Enabled() {
		metrics.ImageGenerations.WithLabelValues("disabled").Inc()
		return "", models.NewActionError(models.ErrCodeImageUnavailable, "Image generation is not configured.")
	}

	url, err := s.generateAndStore(ctx, seed, onlyIfMissing)
	if err != nil {
		log.WithError(err).WithField("seed_id", seed.ID).Error("Failed to generate seed image")
		metrics.ImageGenerations.WithLabelValues("failed").Inc()
		return "", models.NewActionError(models.ErrCodeImageUnavailable, imageFailedMessage)
	}
	metrics.ImageGenerations.WithLabelValues("generated").Inc()
	return url, nil
}

func (s *imageService) generateAndStore(ctx context.Context, seed *models.Seed, onlyIfMissing bool) (string, error) {
	prompt := images.BuildImagePrompt(images.PromptInput{
		Name:            seed.Name,
		Summary:         seed.Summary,
		LocationAddress: seed.LocationAddress,
		WaterHave:       seed.WaterHave,
	})

	img, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	key := fmt.Sprintf("seeds/%s-%s.%s", seed.ID, suffix, img.Extension())
	url, err := s.store.Put(ctx, key, img.MimeType, img.Data)
	if err != nil {
		return "", err
	}

	// only the image columns move; content and status are untouched
	query := s.db.WithContext(ctx).Model(&models.Seed{}).Where("id = ?", seed.ID)
	if onlyIfMissing {
		query = query.Where("(image_url IS NULL OR image_url = '')")
	}
	result := query.Updates(map[string]interface{}{"image_url": url, "updated_at": s.db.NowFunc()})
	if result.Error != nil {
		return "", fmt.Errorf("saving image url: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return url, nil
	}

	var current models.Seed
	if err := s.db.WithContext(ctx).Select("id", "image_url").Where("id = ?", seed.ID).First(&current).Error; err != nil {
		return "", fmt.Errorf("reloading image url: %w", err)
	}
	if current.ImageURL == nil {
		return "", fmt.Errorf("image url for seed %s was not saved", seed.ID)
	}
	log.WithFields(log.Fields{"seed_id": seed.ID, "orphaned_key": key}).Debug("Seed already has an image, keeping it")
	return *current.ImageURL, nil
}
