package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
)

// FileSettings persists settings as a small JSON file beside the database.
// A missing or corrupt file falls back to the defaults instead of failing.
type FileSettings struct {
	path string
	mu   sync.Mutex
}

// NewFileSettings creates a settings store at the given file path
func NewFileSettings(path string) interfaces.SettingsStore {
	return &FileSettings{path: path}
}

func (f *FileSettings) Load(ctx context.Context) *model.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			ctxlog.From(ctx).Warn("failed to read settings file, using defaults",
				"path", f.path, "error", err)
		}
		return model.DefaultSettings()
	}

	settings := model.DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		ctxlog.From(ctx).Warn("failed to parse settings file, using defaults",
			"path", f.path, "error", err)
		return model.DefaultSettings()
	}
	if settings.NotificationEmail == "" {
		settings.NotificationEmail = model.DefaultNotificationEmail
	}
	return settings
}

// Save writes the settings atomically: the file is written to a temp name
// in the same directory and renamed over the target.
func (f *FileSettings) Save(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return goerr.New("settings is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal settings")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create settings directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp settings file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write settings")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close settings file")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace settings file", goerr.V("path", f.path))
	}
	return nil
}

// MemorySettings is an in-memory settings store for tests
type MemorySettings struct {
	mu       sync.Mutex
	settings *model.Settings
}

// NewMemorySettings creates a settings store holding defaults
func NewMemorySettings() interfaces.SettingsStore {
	return &MemorySettings{}
}

func (m *MemorySettings) Load(ctx context.Context) *model.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		return model.DefaultSettings()
	}
	cp := *m.settings
	return &cp
}

func (m *MemorySettings) Save(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return goerr.New("settings is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *settings
	m.settings = &cp
	return nil
}
