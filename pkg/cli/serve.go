package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/cli/config"
	controller "github.com/secmon-lab/harrier/pkg/controller/http"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		databaseCfg config.Database
		settingsCfg config.Settings
	)

	flags := joinFlags(
		serverCfg.Flags(),
		databaseCfg.Flags(),
		settingsCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting harrier server",
				slog.Any("server", serverCfg),
				slog.Any("database", databaseCfg),
				slog.Any("settings", settingsCfg),
			)

			repo, err := databaseCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := seedReference(ctx, repo); err != nil {
				return err
			}

			server := controller.NewServer(ctx, serverCfg.Addr, repo,
				settingsCfg.Configure(), databaseCfg.Path)

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// seedReference loads the default malware families and categories on first
// start. An already-populated store is left alone.
func seedReference(ctx context.Context, repo interfaces.Repository) error {
	cfg, err := model.DefaultReferenceConfig()
	if err != nil {
		return err
	}
	if err := repo.SeedReference(ctx, cfg); err != nil {
		return goerr.Wrap(err, "failed to seed reference data")
	}
	return nil
}
