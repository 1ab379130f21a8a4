package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
)

// Settings implements the settings page workflows
type Settings struct {
	store interfaces.SettingsStore
	repo  interfaces.Repository
}

// NewSettings creates the settings usecase
func NewSettings(store interfaces.SettingsStore, repo interfaces.Repository) *Settings {
	return &Settings{store: store, repo: repo}
}

// Get returns the current settings, falling back to defaults when the
// backing file is missing or unreadable.
func (uc *Settings) Get(ctx context.Context) *model.Settings {
	return uc.store.Load(ctx)
}

// Update validates and persists new settings
func (uc *Settings) Update(ctx context.Context, notificationEmail string) (*model.Settings, error) {
	notificationEmail = strings.TrimSpace(notificationEmail)
	if notificationEmail == "" {
		return nil, goerr.New("notification email is required")
	}
	if !strings.Contains(notificationEmail, "@") {
		return nil, goerr.New("notification email must be an address",
			goerr.V("email", notificationEmail))
	}

	settings := uc.store.Load(ctx)
	settings.NotificationEmail = notificationEmail
	if err := uc.store.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ClearData wipes every entity table, keeping the schema and reference
// rows.
func (uc *Settings) ClearData(ctx context.Context) error {
	return uc.repo.ClearData(ctx)
}

// Counts returns the per-table record counts shown on the settings page
func (uc *Settings) Counts(ctx context.Context) (*model.EntityCounts, error) {
	return uc.repo.Counts(ctx)
}

// Families lists the known malware families, name ascending
func (uc *Settings) Families(ctx context.Context) ([]*model.MalwareFamily, error) {
	return uc.repo.ListFamilies(ctx)
}

// AddFamily registers a malware family by name. Names are matched
// case-insensitively, so re-adding an existing family returns it unchanged.
func (uc *Settings) AddFamily(ctx context.Context, name string) (*model.MalwareFamily, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.New("family name is required")
	}
	return uc.repo.GetOrCreateFamily(ctx, name)
}
