package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kwiens/seeds/internal/database"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/validation"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// setupTestDB opens a migrated in-memory database whose clock advances one
// second per read so created_at ordering is stable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var tick int64
	cfg := database.GormConfig()
	cfg.NowFunc = func() time.Time {
		return base.Add(time.Duration(atomic.AddInt64(&tick, 1)) * time.Second)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{Email: email, Name: "Test " + email, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createSeed(t *testing.T, db *gorm.DB, owner *models.User, name string, status models.SeedStatus) *models.Seed {
	t.Helper()
	seed := models.Seed{
		Name:      name,
		Summary:   "Summary of " + name,
		Category:  models.CategoryOutdoorPlay,
		Status:    status,
		CreatedBy: owner.ID,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&seed).Error)
	return &seed
}

func actorFor(user *models.User) *policy.Actor {
	return &policy.Actor{UserID: user.ID, Role: user.Role}
}

func validSeedInput() validation.SeedInput {
	return validation.SeedInput{
		Name:      "Community Garden",
		Summary:   "Raised beds behind the library.",
		Category:  models.CategoryBalancedGrowth,
		Gardeners: []string{"Ana"},
		Roots:     []models.RootEntry{{Name: "Library Friends", Committed: true}},
		WaterHave: []string{"seeds", "tools"},
	}
}

func countApprovals(t *testing.T, db *gorm.DB, seedID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.SeedApproval{}).Where("seed_id = ?", seedID).Count(&count).Error)
	return count
}

func reloadSeed(t *testing.T, db *gorm.DB, id string) *models.Seed {
	t.Helper()
	var seed models.Seed
	require.NoError(t, db.Where("id = ?", id).First(&seed).Error)
	return &seed
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("id = ?", id).First(&user).Error)
	return &user
}
