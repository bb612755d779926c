package avatar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	avatarDomain "motion_arena/internal/domain/avatar"
	"motion_arena/internal/domain/user"
	errs "motion_arena/internal/errors"
	repo "motion_arena/internal/repository"
)

type mapAvatarStore struct {
	avatars map[string]avatarDomain.Avatar
}

func (m *mapAvatarStore) List(ctx context.Context) ([]avatarDomain.Avatar, error) {
	out := make([]avatarDomain.Avatar, 0, len(m.avatars))
	for _, a := range m.avatars {
		out = append(out, a)
	}
	return out, nil
}

func (m *mapAvatarStore) GetByID(ctx context.Context, id string) (avatarDomain.Avatar, error) {
	a, ok := m.avatars[id]
	if !ok {
		return avatarDomain.Avatar{}, errs.ErrAvatarNotFound
	}
	return a, nil
}

func (m *mapAvatarStore) SaveCustomization(ctx context.Context, id string, c avatarDomain.Customization) error {
	a, ok := m.avatars[id]
	if !ok {
		return errs.ErrAvatarNotFound
	}
	a.Customization = &c
	m.avatars[id] = a
	return nil
}

func newTestUseCase() (*AvatarUseCase, *repo.MapUserStorage) {
	users := repo.NewMapUserStorage()
	users.Put(user.User{ID: "user-a", Username: "alice"})
	avatars := &mapAvatarStore{avatars: map[string]avatarDomain.Avatar{
		"boxer":  {ID: "boxer", Name: "Boxer"},
		"wizard": {ID: "wizard", Name: "Wizard"},
	}}
	return NewAvatarUseCase(avatars, users), users
}

func TestSelectAvatar(t *testing.T) {
	uc, users := newTestUseCase()
	ctx := context.Background()

	require.NoError(t, uc.SelectAvatar(ctx, "user-a", "boxer"))

	u, ok := users.GetUserByID("user-a")
	require.True(t, ok)
	assert.Equal(t, "boxer", u.AvatarID)

	assert.ErrorIs(t, uc.SelectAvatar(ctx, "user-a", "ghost"), errs.ErrAvatarNotFound)
}

func TestSaveCustomizationRequiresSelection(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	_, err := uc.SaveCustomization(ctx, "user-a", avatarDomain.Customization{Color: "red"})
	assert.ErrorIs(t, err, errs.ErrNoAvatarSelected)

	require.NoError(t, uc.SelectAvatar(ctx, "user-a", "wizard"))

	avatarID, err := uc.SaveCustomization(ctx, "user-a", avatarDomain.Customization{
		Color:       "red",
		Accessories: []string{"hat"},
		Animation:   "spin",
	})
	require.NoError(t, err)
	assert.Equal(t, "wizard", avatarID)

	got, err := uc.GetCustomization(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, got.Customization)
	assert.Equal(t, "red", got.Customization.Color)
	assert.Equal(t, []string{"hat"}, got.Customization.Accessories)
}

func TestGetCustomizationUnknownUser(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.GetCustomization(context.Background(), "nobody")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestListAvatars(t *testing.T) {
	uc, _ := newTestUseCase()

	avatars, err := uc.ListAvatars(context.Background())
	require.NoError(t, err)
	assert.Len(t, avatars, 2)
}
