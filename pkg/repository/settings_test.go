package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/repository"
)

func TestFileSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingFileYieldsDefaults", func(t *testing.T) {
		store := repository.NewFileSettings(filepath.Join(t.TempDir(), "settings.json"))
		settings := store.Load(ctx)
		gt.Equal(t, model.DefaultNotificationEmail, settings.NotificationEmail)
	})

	t.Run("SaveAndReload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		store := repository.NewFileSettings(path)

		gt.NoError(t, store.Save(ctx, &model.Settings{NotificationEmail: "soc@corp.example"}))
		gt.Equal(t, "soc@corp.example", store.Load(ctx).NotificationEmail)

		// a fresh store against the same file sees the saved value
		gt.Equal(t, "soc@corp.example", repository.NewFileSettings(path).Load(ctx).NotificationEmail)
	})

	t.Run("CorruptFileYieldsDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		store := repository.NewFileSettings(path)
		gt.Equal(t, model.DefaultNotificationEmail, store.Load(ctx).NotificationEmail)
	})

	t.Run("EmptyEmailFallsBack", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		gt.NoError(t, os.WriteFile(path, []byte(`{"notification_email":""}`), 0o644))

		store := repository.NewFileSettings(path)
		gt.Equal(t, model.DefaultNotificationEmail, store.Load(ctx).NotificationEmail)
	})

	t.Run("SaveCreatesParentDir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "settings.json")
		store := repository.NewFileSettings(path)
		gt.NoError(t, store.Save(ctx, model.DefaultSettings()))
		gt.Equal(t, model.DefaultNotificationEmail, store.Load(ctx).NotificationEmail)
	})
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySettings()

	gt.Equal(t, model.DefaultNotificationEmail, store.Load(ctx).NotificationEmail)
	gt.NoError(t, store.Save(ctx, &model.Settings{NotificationEmail: "a@b.c"}))
	gt.Equal(t, "a@b.c", store.Load(ctx).NotificationEmail)
}
