package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/blueprint"
	"github.com/aretw0/blueprint/internal/config"
	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/adapters/file"
	"github.com/aretw0/blueprint/pkg/adapters/memory"
	"github.com/aretw0/blueprint/pkg/adapters/redis"
	"github.com/aretw0/blueprint/pkg/ports"
	"github.com/aretw0/blueprint/pkg/templates"
	"github.com/spf13/cobra"
)

type catalogRoster interface {
	ports.Roster
	ports.CatalogSource
	file.CatalogStore
}

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	roster  catalogRoster
	opts    []blueprint.Option
	closers []func() error
}

// newApp loads configuration, picks the roster backend and seeds it.
// Backends: redis when BLUEPRINT_REDIS_ADDR is set, a directory with --data,
// otherwise memory.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithFormat(cmd.ErrOrStderr(), level, cfg.LogFormat)

	a := &app{cfg: cfg, logger: logger}
	a.opts = []blueprint.Option{
		blueprint.WithLogger(logger),
		blueprint.WithTTL(cfg.CacheTTL),
		blueprint.WithWorkers(cfg.Workers),
		blueprint.WithCohesionWeight(cfg.CohesionWeight),
	}

	dataDir, _ := cmd.Flags().GetString("data")
	switch {
	case cfg.RedisAddr != "":
		client := redis.Dial(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		a.closers = append(a.closers, client.Close)
		a.roster = redis.NewRoster(client, redis.WithPrefix(cfg.RedisPrefix))
		a.opts = append(a.opts,
			blueprint.WithCache(redis.NewFromClient(client, redis.WithPrefix(cfg.RedisPrefix), redis.WithTTL(cfg.CacheTTL))),
			blueprint.WithLocker(redis.NewLocker(client, cfg.RedisPrefix)),
		)
		logger.Info("using redis backend", "addr", cfg.RedisAddr)
	case dataDir != "":
		a.roster = file.NewRoster(dataDir)
		a.opts = append(a.opts, blueprint.WithCache(memory.NewCache()))
		logger.Info("using file backend", "dir", dataDir)
	default:
		a.roster = memory.NewRoster()
		a.opts = append(a.opts, blueprint.WithCache(memory.NewCache()))
	}

	tplFile, _ := cmd.Flags().GetString("templates")
	if tplFile == "" {
		tplFile = cfg.TemplatesFile
	}
	if tplFile != "" {
		reg := templates.NewRegistry()
		if err := reg.LoadFile(tplFile); err != nil {
			a.Close()
			return nil, err
		}
		a.opts = append(a.opts, blueprint.WithTemplates(reg))
	}

	if dataset, _ := cmd.Flags().GetString("dataset"); dataset != "" {
		if err := a.seed(cmd.Context(), dataset); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) seed(ctx context.Context, path string) error {
	ds, err := file.LoadDataset(path)
	if err != nil {
		return err
	}
	for _, rej := range ds.Rejected {
		a.logger.Warn("catalog record rejected", "err", rej)
	}
	if err := ds.Seed(ctx, a.roster, a.roster); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	a.logger.Debug("dataset loaded", "sessions", len(ds.Sessions), "catalogs", len(ds.Catalogs))
	return nil
}

// service builds the blueprint service with extra options appended.
func (a *app) service(extra ...blueprint.Option) *blueprint.Service {
	return blueprint.New(a.roster, a.roster, append(a.opts, extra...)...)
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
}
