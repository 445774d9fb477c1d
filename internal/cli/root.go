// Package cli defines the catchment command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Catchment/internal/collector"
	"github.com/MikeSquared-Agency/Catchment/internal/config"
	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so tests can run commands in isolation.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "catchment",
		Short:         "Rank shortlisted schools against a parent's priorities",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newRankCmd(opts))
	root.AddCommand(newExplainCmd(opts))
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, lc config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(lc.Level)}
	if strings.EqualFold(lc.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStore returns the snapshot backend named by snapshots.source.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Snapshots.Source {
	case config.SourceFile:
		fs, err := store.NewFileStore(cfg.Snapshots.FixturePath)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.SourceHTTP:
		return collector.NewHTTPClient(cfg.Collector.URL, cfg.Collector.Token), nil
	default:
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("database.url is required for the postgres source")
		}
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}
