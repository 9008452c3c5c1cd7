// Package bootstrap assembles use cases from configuration.
package bootstrap

import (
	"log/slog"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/services"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/lock"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/render"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/storage"
)

// Components holds the shared, stateless pieces built from one config.
type Components struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *storage.FileStore
	Resolver *usecases.ResolveSnapshotUseCase
	Diff     *usecases.ComposeDiffUseCase
	Locker   *lock.FileLocker
}

// New builds components for cfg. A nil cfg uses the defaults and a nil
// logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Components {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	store := storage.NewFileStore(
		storage.WithDirName(cfg.Snapshots.Directory),
		storage.WithFailedSuffix(cfg.Snapshots.FailedSuffix),
		storage.WithLogger(logger),
	)

	return &Components{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Resolver: usecases.NewResolveSnapshotUseCase(store,
			usecases.WithResolveLogger(logger),
			usecases.WithStrictDecode(cfg.Snapshots.StrictDecode),
		),
		Diff: usecases.NewComposeDiffUseCase(store, store,
			services.NewComposer(cfg.Diff.Gap, cfg.Diff.HeaderHeight)),
		Locker: lock.New(cfg.Lock.Dir),
	}
}

// Check returns a check use case reporting to writer. renderer may be nil
// when only prepared images are checked.
func (c *Components) Check(writer ports.ResultWriter, renderer ports.Renderer) *usecases.CheckSnapshotUseCase {
	opts := []usecases.CheckOption{
		usecases.WithCheckLogger(c.Logger),
	}
	if writer != nil {
		opts = append(opts, usecases.WithCheckWriter(writer))
	}
	if renderer != nil {
		opts = append(opts, usecases.WithRenderer(renderer))
	}
	if c.Config.Diff.Enabled && c.Config.Diff.ArtifactsDir != "" {
		opts = append(opts, usecases.WithDiffArtifacts(c.Diff, c.Config.Diff.ArtifactsDir))
	}
	return usecases.NewCheckSnapshotUseCase(c.Resolver, opts...)
}

// List returns a listing use case.
func (c *Components) List(writer ports.ResultWriter) *usecases.ListSnapshotsUseCase {
	return usecases.NewListSnapshotsUseCase(c.Store, writer)
}

// Clean returns a bulk deletion use case guarded by the file lock.
func (c *Components) Clean(writer ports.ResultWriter) *usecases.CleanSnapshotsUseCase {
	return usecases.NewCleanSnapshotsUseCase(c.Store, c.Locker, writer, c.Logger)
}

// Renderer creates a headless browser renderer from the render section.
// The caller owns it and must Close it.
func (c *Components) Renderer() *render.Renderer {
	r := c.Config.Render
	return render.New(render.Config{
		RemoteURL:    r.RemoteURL,
		Width:        r.Width,
		Height:       r.Height,
		Scale:        r.Scale,
		Timeout:      r.Timeout,
		WaitSelector: r.WaitSelector,
		Logger:       c.Logger,
	})
}
