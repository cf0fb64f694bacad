// Package instances installs vanilla and modded minecraft versions into a minecraft directory
package instances

import (
	"context"

	"github.com/minepkg/mcinstall/internals/acquire"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/minepkg/mcinstall/internals/modrinth"
	"github.com/minepkg/mcinstall/internals/ownhttp"
	"github.com/minepkg/mcinstall/internals/versions"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrBatchFailed is returned when too many files of a download phase failed
	ErrBatchFailed = downloadmgr.ErrBatchFailed
	// ErrInvalidName is returned for install names that can not be used as a directory
	ErrInvalidName = errors.New("invalid version name")
)

// Manager installs versions into Config.Root.
// Separate installations can run concurrently, each one gets its own progress.
type Manager struct {
	Config     Config
	Layout     versions.Layout
	Fetcher    *downloadmgr.Fetcher
	Resolver   *versions.Resolver
	Acquirer   *acquire.Acquirer
	LoaderDeps *loaders.Deps
	Modrinth   *modrinth.Client

	logger *zap.Logger
}

// New wires up a Manager from cfg
func New(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	logger := cfg.Logger

	client := cfg.HTTPClient
	if client == nil {
		client = ownhttp.NewWithOptions(ownhttp.Options{
			RateLimit:     cfg.RateLimit,
			Burst:         2,
			ThrottleHosts: MetadataHosts,
		})
	}

	selector := mirror.OfficialOnly()
	if cfg.UseMirror {
		selector = mirror.NewSelector(cfg.Mirrors...)
	}

	fetcher := downloadmgr.NewFetcher(client, selector)
	fetcher.Attempts = cfg.Attempts
	fetcher.Logger = logger.Named("download")

	resolver := versions.NewResolver(cfg.Root, fetcher)
	resolver.TTL = cfg.ManifestTTL
	resolver.UseMirror = cfg.UseMirror
	resolver.Logger = logger.Named("versions")

	acq := acquire.New(cfg.Root, fetcher)
	acq.Tolerance = cfg.Tolerance
	acq.UseMirror = cfg.UseMirror
	acq.Workers = cfg.Connections
	acq.Logger = logger.Named("acquire")
	if cfg.Evaluator != nil {
		acq.Evaluator = cfg.Evaluator
	}

	deps := loaders.NewDeps(fetcher, acq)
	deps.UseMirror = cfg.UseMirror
	deps.Java = cfg.Java
	deps.ProcessorTimeout = cfg.ProcessorTimeout
	deps.Logger = logger.Named("loaders")
	deps.Runner = &installer.ExecRunner{Logger: logger.Named("processor")}
	if cfg.Runner != nil {
		deps.Runner = cfg.Runner
	}

	return &Manager{
		Config:     cfg,
		Layout:     versions.Layout{Root: cfg.Root},
		Fetcher:    fetcher,
		Resolver:   resolver,
		Acquirer:   acq,
		LoaderDeps: deps,
		Modrinth:   modrinth.New(client),
		logger:     logger,
	}
}

// ListVersions returns the versions of the global manifest, optionally filtered by type
func (m *Manager) ListVersions(ctx context.Context, types ...string) ([]minecraft.ManifestVersion, error) {
	return m.Resolver.ListVersions(ctx, types...)
}

// LoaderVersions returns the available loader versions for a minecraft version, newest first
func (m *Manager) LoaderVersions(ctx context.Context, kind loaders.Kind, mcVersion string) ([]loaders.Version, error) {
	loader, err := loaders.New(kind, m.LoaderDeps)
	if err != nil {
		return nil, err
	}
	return loader.FetchMetadata(ctx, mcVersion)
}

// ClearCache removes the cached version manifest and loader version lists
func (m *Manager) ClearCache() error {
	if store, ok := m.Resolver.Cache.(interface{ Clear() error }); ok {
		if err := store.Clear(); err != nil {
			return err
		}
	}
	if store, ok := m.LoaderDeps.Cache.(interface{ Purge() }); ok {
		store.Purge()
	}
	return nil
}
