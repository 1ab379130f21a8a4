package config

import (
	"log/slog"

	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Settings holds the settings file configuration
type Settings struct {
	Path string
}

// Flags returns CLI flags for Settings configuration
func (s *Settings) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "settings-path",
			Usage:       "Settings JSON file path",
			Category:    "Database",
			Value:       "settings.json",
			Sources:     cli.EnvVars("HARRIER_SETTINGS_PATH"),
			Destination: &s.Path,
		},
	}
}

// Configure builds the settings store
func (s *Settings) Configure() interfaces.SettingsStore {
	if s.Path == "" {
		return repository.NewMemorySettings()
	}
	return repository.NewFileSettings(s.Path)
}

// LogValue returns structured log value
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", s.Path),
	)
}
