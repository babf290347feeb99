package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateOrUpdate and GetByID", func(t *testing.T) {
		inviteRepo := NewInviteRepository(storage.NewMemoryStorage())

		// Given: a direct invite
		invite := &entity.Invite{
			ID:        "inv",
			Host:      "alice",
			Target:    "bob",
			ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		// When: it is stored and read back
		require.NoError(t, inviteRepo.CreateOrUpdate(ctx, invite))
		retrieved, err := inviteRepo.GetByID(ctx, "inv")

		// Then: it matches
		require.NoError(t, err)
		assert.Equal(t, invite, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		inviteRepo := NewInviteRepository(storage.NewMemoryStorage())

		_, err := inviteRepo.GetByID(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrInviteNotFound)
	})

	t.Run("DeleteByID and List", func(t *testing.T) {
		inviteRepo := NewInviteRepository(storage.NewMemoryStorage())
		require.NoError(t, inviteRepo.CreateOrUpdate(ctx, &entity.Invite{ID: "a", Host: "alice"}))
		require.NoError(t, inviteRepo.CreateOrUpdate(ctx, &entity.Invite{ID: "b", Host: "bob"}))

		require.NoError(t, inviteRepo.DeleteByID(ctx, "a"))

		invites, err := inviteRepo.List(ctx)
		require.NoError(t, err)
		require.Len(t, invites, 1)
		assert.Equal(t, "bob", invites[0].Host)
	})
}
