package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Database holds storage configuration
type Database struct {
	Path string
}

// Flags returns CLI flags for Database configuration
func (d *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "SQLite database file path (empty runs an in-memory store)",
			Category:    "Database",
			Sources:     cli.EnvVars("HARRIER_DB_PATH"),
			Destination: &d.Path,
		},
	}
}

// Configure opens the repository. Without a path the data lives only in
// memory and is lost on shutdown.
func (d *Database) Configure(ctx context.Context) (interfaces.Repository, error) {
	if d.Path == "" {
		ctxlog.From(ctx).Warn("no database path configured, using in-memory store")
		return repository.NewMemory(), nil
	}

	repo, err := repository.NewSQLite(d.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database",
			goerr.V("path", d.Path))
	}
	return repo, nil
}

// LogValue returns structured log value
func (d Database) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", d.Path),
	)
}
