package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skadam/cafe/internal/adapter/localstore"
	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	blobs, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	svc := NewService(localstore.NewStaffMirror(blobs), logger.Nop())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestAddSubUser(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.AddSubUser("barista1", "secret", "Youssef")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionOrdersOnly, user.Permissions)
	assert.True(t, user.Active)

	_, err = svc.AddSubUser("barista1", "other", "Someone")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	_, err = svc.AddSubUser("", "secret", "")
	assert.Error(t, err)
	_, err = svc.AddSubUser("barista2", "", "")
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	user, err := svc.AddSubUser("barista1", "secret", "Youssef")
	require.NoError(t, err)

	got, ok := svc.Authenticate("barista1", "secret")
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)

	_, ok = svc.Authenticate("barista1", "wrong")
	assert.False(t, ok)

	inactive := false
	svc.UpdateSubUser(user.ID, domain.SubUserPatch{Active: &inactive})
	_, ok = svc.Authenticate("barista1", "secret")
	assert.False(t, ok)
}

func TestDeactivatedUsernameCanBeReused(t *testing.T) {
	svc := newTestService(t)
	user, err := svc.AddSubUser("barista1", "secret", "Youssef")
	require.NoError(t, err)

	inactive := false
	svc.UpdateSubUser(user.ID, domain.SubUserPatch{Active: &inactive})

	_, err = svc.AddSubUser("barista1", "newpass", "Replacement")
	assert.NoError(t, err)
}

func TestStoreSettings(t *testing.T) {
	svc := newTestService(t)

	settings := svc.StoreSettings()
	assert.Len(t, settings.OpeningHours, 7)
	assert.NotEmpty(t, settings.StoreDescription)

	desc := "Espresso bar on the corniche"
	svc.UpdateStoreSettings(domain.StoreSettingsPatch{StoreDescription: &desc})

	updated := svc.StoreSettings()
	assert.Equal(t, desc, updated.StoreDescription)
	// Untouched fields survive the patch.
	assert.Len(t, updated.OpeningHours, 7)
}

func TestNotificationSettings(t *testing.T) {
	blobs, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	mirror := localstore.NewStaffMirror(blobs)

	svc := NewService(mirror, logger.Nop())
	require.NoError(t, svc.Load(context.Background()))

	settings := svc.NotificationSettings()
	assert.True(t, settings.OrderNotifications)
	assert.True(t, settings.InventoryNotifications)
	assert.True(t, settings.GreetingNotifications)

	off := false
	svc.UpdateNotificationSettings(domain.NotificationSettingsPatch{GreetingNotifications: &off})

	updated := svc.NotificationSettings()
	assert.False(t, updated.GreetingNotifications)
	// Untouched toggles survive the patch.
	assert.True(t, updated.OrderNotifications)
	assert.True(t, updated.InventoryNotifications)

	// A fresh service over the same mirror sees the persisted toggles.
	svc.Flush()
	reloaded := NewService(mirror, logger.Nop())
	require.NoError(t, reloaded.Load(context.Background()))
	assert.False(t, reloaded.NotificationSettings().GreetingNotifications)
}
