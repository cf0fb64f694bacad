package loaders

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/minepkg/mcinstall/internals/acquire"
	"github.com/minepkg/mcinstall/internals/cache"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Progress stages reported by loaders
const (
	StageLoaderInfo      = "loader_info"
	StageLoaderLibraries = "loader_libraries"
	StageProcessors      = "processors"
)

const (
	// FabricMetaURL is the fabric meta api
	FabricMetaURL = "https://meta.fabricmc.net"
	// BMCLAPIURL serves forge, neoforge and optifine metadata
	BMCLAPIURL = "https://" + mirror.BMCLAPIHost

	// DefaultVersionsTTL is how long loader version lists are cached
	DefaultVersionsTTL = 10 * time.Minute
)

// ProgressFunc receives loader progress
type ProgressFunc func(stage string, current int, total int, message string)

// Target describes what to install
type Target struct {
	MinecraftVersion string
	// LoaderVersion is optional, the latest stable version is used if empty
	LoaderVersion string
	InstallName   string
	// Vanilla is the descriptor of the minecraft version
	Vanilla *minecraft.LaunchManifest
	// MinecraftJar is the vanilla client jar, required by processors
	MinecraftJar string
	Progress     ProgressFunc
}

func (t *Target) report(stage string, current int, total int, message string) {
	if t.Progress != nil {
		t.Progress(stage, current, total, message)
	}
}

// Loader installs one kind of loader
type Loader interface {
	Kind() Kind
	// FetchMetadata returns the available versions for a minecraft version, newest first
	FetchMetadata(ctx context.Context, mcVersion string) ([]Version, error)
	// Install installs the loader files and returns the overlay descriptor
	Install(ctx context.Context, target *Target) (*minecraft.LaunchManifest, error)
}

// Deps are the collaborators shared by all loaders
type Deps struct {
	Fetcher  *downloadmgr.Fetcher
	Acquirer *acquire.Acquirer
	Runner   installer.Runner
	// Cache holds version lists
	Cache            cache.Store
	CacheTTL         time.Duration
	Java             string
	ProcessorTimeout time.Duration
	UseMirror        bool
	Logger           *zap.Logger

	FabricMetaURL string
	BMCLAPIURL    string
}

// NewDeps returns dependencies with default settings
func NewDeps(fetcher *downloadmgr.Fetcher, acquirer *acquire.Acquirer) *Deps {
	return &Deps{
		Fetcher:          fetcher,
		Acquirer:         acquirer,
		Runner:           &installer.ExecRunner{},
		Cache:            cache.NewMemoryStore(0),
		CacheTTL:         DefaultVersionsTTL,
		Java:             "java",
		ProcessorTimeout: installer.DefaultTimeout,
		UseMirror:        true,
		Logger:           zap.NewNop(),
		FabricMetaURL:    FabricMetaURL,
		BMCLAPIURL:       BMCLAPIURL,
	}
}

// New returns the loader for kind
func New(kind Kind, deps *Deps) (Loader, error) {
	switch kind {
	case Fabric:
		return &FabricLoader{deps: deps}, nil
	case Forge:
		return &ForgeLoader{deps: deps, flavor: forgeFlavor}, nil
	case NeoForge:
		return &ForgeLoader{deps: deps, flavor: neoForgeFlavor}, nil
	case OptiFine:
		return &OptiFineLoader{deps: deps}, nil
	}
	return nil, errors.Wrap(ErrUnknownKind, kind.String())
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// cachedVersions returns a cached version list or fetches, sorts and caches it
func (d *Deps) cachedVersions(kind Kind, mcVersion string, fetch func() ([]Version, error)) ([]Version, error) {
	key := kind.String() + ":" + mcVersion
	if d.Cache != nil {
		if raw, ok := d.Cache.Get(key); ok {
			var versions []Version
			if err := json.Unmarshal(raw, &versions); err == nil {
				return versions, nil
			}
		}
	}

	versions, err := fetch()
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, errors.Wrapf(ErrNoVersions, "%s for minecraft %s", kind, mcVersion)
	}
	SortVersions(versions)

	if d.Cache != nil {
		raw, _ := json.Marshal(versions)
		ttl := d.CacheTTL
		if ttl == 0 {
			ttl = DefaultVersionsTTL
		}
		if err := d.Cache.Put(key, raw, ttl); err != nil {
			d.logger().Debug("could not cache loader versions", zap.Error(err))
		}
	}
	return versions, nil
}

// resolveVersion picks the requested (or latest) loader version
func resolveVersion(ctx context.Context, l Loader, t *Target) (Version, error) {
	versions, err := l.FetchMetadata(ctx, t.MinecraftVersion)
	if err != nil {
		return Version{}, err
	}
	if t.LoaderVersion == "" {
		return Latest(versions)
	}
	return Find(versions, t.LoaderVersion)
}

func joinURL(base string, parts ...string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}
