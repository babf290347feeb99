package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository/storage"
)

const invitePrefix = "invite:"

type InviteRepository interface {
	CreateOrUpdate(ctx context.Context, invite *entity.Invite) error
	GetByID(ctx context.Context, id string) (*entity.Invite, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Invite, error)
}

type dbInvite struct {
	storage kvStorage
}

func NewInviteRepository(st kvStorage) InviteRepository {
	return &dbInvite{
		storage: st,
	}
}

func (that *dbInvite) CreateOrUpdate(ctx context.Context, invite *entity.Invite) error {
	inviteJSON, err := json.Marshal(invite)
	if err != nil {
		return fmt.Errorf("could not marshal invite: %w", err)
	}

	if err = that.storage.Set(ctx, invitePrefix+invite.ID, inviteJSON, ttlUntil(invite.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to set invite: %w", err)
	}

	return nil
}

func (that *dbInvite) GetByID(ctx context.Context, id string) (*entity.Invite, error) {
	response, err := that.storage.Get(ctx, invitePrefix+id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.ErrInviteNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get invite by id: %w", err)
	}

	var invite entity.Invite
	if err = json.Unmarshal(response, &invite); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invite: %w", err)
	}

	return &invite, nil
}

func (that *dbInvite) DeleteByID(ctx context.Context, id string) error {
	if err := that.storage.Delete(ctx, invitePrefix+id); err != nil {
		return fmt.Errorf("failed to delete invite by id: %w", err)
	}

	return nil
}

func (that *dbInvite) List(ctx context.Context) ([]*entity.Invite, error) {
	keys, err := that.storage.Keys(ctx, invitePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	invites := make([]*entity.Invite, 0, len(keys))
	for _, key := range keys {
		invite, err := that.GetByID(ctx, strings.TrimPrefix(key, invitePrefix))
		if errors.Is(err, apperror.ErrInviteNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		invites = append(invites, invite)
	}

	return invites, nil
}
