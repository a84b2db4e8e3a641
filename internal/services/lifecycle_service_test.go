package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kwiens/seeds/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApproveAppendsApprovalEveryCall(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	seed := createSeed(t, db, owner, "Bike Racks", models.SeedStatusPending)
	svc := NewLifecycleService(db)
	ctx := context.Background()

	require.NoError(t, svc.ApproveSeed(ctx, actorFor(admin), seed.ID))
	assert.Equal(t, models.SeedStatusApproved, reloadSeed(t, db, seed.ID).Status)
	assert.Equal(t, int64(1), countApprovals(t, db, seed.ID))

	require.NoError(t, svc.ApproveSeed(ctx, actorFor(admin), seed.ID))
	assert.Equal(t, int64(2), countApprovals(t, db, seed.ID))

	var approval models.SeedApproval
	require.NoError(t, db.Where("seed_id = ?", seed.ID).First(&approval).Error)
	assert.Equal(t, admin.ID, approval.ApprovedBy)
	assert.False(t, approval.ApprovedAt.IsZero())
}

func TestApproveIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	seed := createSeed(t, db, owner, "Bike Racks", models.SeedStatusPending)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_approval_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "seed_approvals" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	err := NewLifecycleService(db).ApproveSeed(context.Background(), actorFor(admin), seed.ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording approval")
	assert.Equal(t, models.SeedStatusPending, reloadSeed(t, db, seed.ID).Status, "status change rolled back")
	assert.Zero(t, countApprovals(t, db, seed.ID))
}

func TestUnapproveReturnsToPendingWithoutApprovalRow(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	seed := createSeed(t, db, owner, "Bike Racks", models.SeedStatusApproved)
	before := reloadSeed(t, db, seed.ID)

	err := NewLifecycleService(db).UnapproveSeed(context.Background(), actorFor(admin), seed.ID)

	require.NoError(t, err)
	after := reloadSeed(t, db, seed.ID)
	assert.Equal(t, models.SeedStatusPending, after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Zero(t, countApprovals(t, db, seed.ID))
}

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		name       string
		from       models.SeedStatus
		transition Transition
		want       models.SeedStatus
		wantErr    error
	}{
		{"approve pending", models.SeedStatusPending, TransitionApprove, models.SeedStatusApproved, nil},
		{"approve archived", models.SeedStatusArchived, TransitionApprove, models.SeedStatusApproved, nil},
		{"approve draft", models.SeedStatusDraft, TransitionApprove, models.SeedStatusApproved, nil},
		{"unapprove pending", models.SeedStatusPending, TransitionUnapprove, models.SeedStatusPending, models.ErrInvalidTransition},
		{"archive pending", models.SeedStatusPending, TransitionArchive, models.SeedStatusArchived, nil},
		{"archive approved", models.SeedStatusApproved, TransitionArchive, models.SeedStatusArchived, nil},
		{"unarchive archived", models.SeedStatusArchived, TransitionUnarchive, models.SeedStatusPending, nil},
		{"unarchive approved", models.SeedStatusApproved, TransitionUnarchive, models.SeedStatusApproved, models.ErrInvalidTransition},
		{"unknown transition", models.SeedStatusPending, Transition("delete"), models.SeedStatusPending, models.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			owner := createUser(t, db, "owner@example.com", models.RoleUser)
			admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
			seed := createSeed(t, db, owner, "Mural", tt.from)

			err := NewLifecycleService(db).Apply(context.Background(), actorFor(admin), seed.ID, tt.transition)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, reloadSeed(t, db, seed.ID).Status)
		})
	}
}

func TestLifecycleRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleUser)
	seed := createSeed(t, db, owner, "Mural", models.SeedStatusPending)
	svc := NewLifecycleService(db)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ApproveSeed(ctx, nil, seed.ID), models.ErrUnauthorized)
	assert.ErrorIs(t, svc.ApproveSeed(ctx, actorFor(owner), seed.ID), models.ErrUnauthorized)
	assert.ErrorIs(t, svc.ArchiveSeed(ctx, actorFor(owner), seed.ID), models.ErrUnauthorized, "owners cannot archive their own seeds")

	assert.Equal(t, models.SeedStatusPending, reloadSeed(t, db, seed.ID).Status)
	assert.Zero(t, countApprovals(t, db, seed.ID))

	_, isActionErr := models.AsActionError(svc.UnarchiveSeed(ctx, actorFor(owner), seed.ID))
	assert.False(t, isActionErr, "admin-route failures are not user-facing errors")
}

func TestLifecycleSeedNotFound(t *testing.T) {
	db := setupTestDB(t)
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	svc := NewLifecycleService(db)

	assert.ErrorIs(t, svc.ApproveSeed(context.Background(), actorFor(admin), "missing"), models.ErrSeedNotFound)
	assert.ErrorIs(t, svc.UnapproveSeed(context.Background(), actorFor(admin), "missing"), models.ErrSeedNotFound)
	assert.Zero(t, countApprovals(t, db, "missing"))
}

func TestTransitionAllows(t *testing.T) {
	assert.True(t, TransitionApprove.Allows(models.SeedStatusApproved))
	assert.True(t, TransitionArchive.Allows(models.SeedStatusDraft))
	assert.True(t, TransitionUnapprove.Allows(models.SeedStatusApproved))
	assert.False(t, TransitionUnapprove.Allows(models.SeedStatusArchived))
	assert.False(t, TransitionUnarchive.Allows(models.SeedStatusPending))
	assert.False(t, Transition("publish").Allows(models.SeedStatusPending))
	assert.Equal(t, models.SeedStatusPending, TransitionUnarchive.Target())
}
