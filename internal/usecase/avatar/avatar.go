package avatar

import (
	"context"

	avatarDomain "motion_arena/internal/domain/avatar"
	userDomain "motion_arena/internal/domain/user"
	errs "motion_arena/internal/errors"
)

type AvatarStore interface {
	List(ctx context.Context) ([]avatarDomain.Avatar, error)
	GetByID(ctx context.Context, id string) (avatarDomain.Avatar, error)
	SaveCustomization(ctx context.Context, id string, c avatarDomain.Customization) error
}

type UserStore interface {
	GetUserByID(id string) (userDomain.User, bool)
	SetAvatar(id string, avatarID string) error
}

type AvatarUseCase struct {
	avatars AvatarStore
	users   UserStore
}

func NewAvatarUseCase(avatars AvatarStore, users UserStore) *AvatarUseCase {
	return &AvatarUseCase{avatars: avatars, users: users}
}

func (a *AvatarUseCase) ListAvatars(ctx context.Context) ([]avatarDomain.Avatar, error) {
	return a.avatars.List(ctx)
}

// SelectAvatar assigns a catalog avatar to the user.
func (a *AvatarUseCase) SelectAvatar(ctx context.Context, userID, avatarID string) error {
	if _, err := a.avatars.GetByID(ctx, avatarID); err != nil {
		return err
	}
	return a.users.SetAvatar(userID, avatarID)
}

// SaveCustomization overwrites the customization blob of the user's
// selected avatar and returns the avatar id it was written to.
func (a *AvatarUseCase) SaveCustomization(ctx context.Context, userID string, c avatarDomain.Customization) (string, error) {
	u, ok := a.users.GetUserByID(userID)
	if !ok {
		return "", errs.ErrUserNotFound
	}
	if u.AvatarID == "" {
		return "", errs.ErrNoAvatarSelected
	}

	if err := a.avatars.SaveCustomization(ctx, u.AvatarID, c); err != nil {
		return "", err
	}
	return u.AvatarID, nil
}

func (a *AvatarUseCase) GetCustomization(ctx context.Context, userID string) (avatarDomain.Avatar, error) {
	u, ok := a.users.GetUserByID(userID)
	if !ok {
		return avatarDomain.Avatar{}, errs.ErrUserNotFound
	}
	if u.AvatarID == "" {
		return avatarDomain.Avatar{}, errs.ErrNoAvatarSelected
	}
	return a.avatars.GetByID(ctx, u.AvatarID)
}
