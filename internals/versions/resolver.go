// Package versions resolves the global version manifest and version descriptors
package versions

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minepkg/mcinstall/internals/cache"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTTL is how long the version manifest is cached
const DefaultTTL = 24 * time.Hour

const manifestCacheKey = "version_manifest_v2.json"

var (
	// ErrUnknownVersion is returned for ids that are not part of the manifest
	ErrUnknownVersion = errors.New("unknown minecraft version")
	// ErrNotInstalled is returned when a version json does not exist locally
	ErrNotInstalled = errors.New("version is not installed")
	// ErrInheritanceCycle is returned for inheritsFrom chains that loop
	ErrInheritanceCycle = errors.New("inheritsFrom cycle")
)

// Resolver loads the version manifest and version descriptors
type Resolver struct {
	Layout  Layout
	Cache   cache.Store
	Fetcher *downloadmgr.Fetcher
	TTL     time.Duration
	// UseMirror tries the mirror manifests before the official one
	UseMirror bool
	// ManifestURLs overwrites the manifest urls derived from the mirror sources
	ManifestURLs []string
	Logger       *zap.Logger

	mu       sync.Mutex
	manifest *minecraft.VersionManifest
}

// NewResolver returns a resolver caching the manifest inside the root dir
func NewResolver(root string, fetcher *downloadmgr.Fetcher) *Resolver {
	layout := Layout{Root: root}
	return &Resolver{
		Layout:    layout,
		Cache:     cache.NewFileStore(layout.CacheDir()),
		Fetcher:   fetcher,
		TTL:       DefaultTTL,
		UseMirror: true,
		Logger:    zap.NewNop(),
	}
}

func (r *Resolver) manifestURLs() []string {
	if len(r.ManifestURLs) != 0 {
		return r.ManifestURLs
	}
	if !r.UseMirror {
		return []string{mirror.ManifestURL(mirror.Official)}
	}
	urls := []string{}
	for _, source := range r.Fetcher.Mirrors.Sources() {
		urls = append(urls, mirror.ManifestURL(source))
	}
	return urls
}

// LoadManifest loads the version manifest. A cached manifest younger than TTL is used
// without network access unless forceRefresh is set.
func (r *Resolver) LoadManifest(ctx context.Context, forceRefresh bool) error {
	if !forceRefresh {
		if raw, ok := r.Cache.Get(manifestCacheKey); ok {
			manifest := &minecraft.VersionManifest{}
			if err := json.Unmarshal(raw, manifest); err == nil {
				r.setManifest(manifest)
				return nil
			}
			r.Logger.Debug("ignoring invalid cached manifest")
		}
	}

	var lastErr error
	for _, url := range r.manifestURLs() {
		manifest := &minecraft.VersionManifest{}
		raw, err := r.Fetcher.FetchRaw(ctx, url, false)
		if err == nil {
			err = json.Unmarshal(raw, manifest)
		}
		if err == nil && len(manifest.Versions) == 0 {
			err = errors.New("manifest contains no versions")
		}
		if err != nil {
			lastErr = errors.Wrapf(err, "loading version manifest from %s", url)
			r.Logger.Debug("version manifest source failed", zap.String("url", url), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if err := r.Cache.Put(manifestCacheKey, raw, r.ttl()); err != nil {
			r.Logger.Warn("could not cache version manifest", zap.Error(err))
		}
		r.setManifest(manifest)
		return nil
	}
	return lastErr
}

func (r *Resolver) ttl() time.Duration {
	if r.TTL == 0 {
		return DefaultTTL
	}
	return r.TTL
}

func (r *Resolver) setManifest(m *minecraft.VersionManifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifest = m
}

// Manifest returns the loaded manifest. It is loaded if required
func (r *Resolver) Manifest(ctx context.Context) (*minecraft.VersionManifest, error) {
	r.mu.Lock()
	manifest := r.manifest
	r.mu.Unlock()
	if manifest != nil {
		return manifest, nil
	}
	if err := r.LoadManifest(ctx, false); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manifest, nil
}

// ListVersions returns the versions of the given types (all for no types), newest first
func (r *Resolver) ListVersions(ctx context.Context, types ...string) ([]minecraft.ManifestVersion, error) {
	manifest, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.Filter(types...), nil
}

// Latest returns the latest release and snapshot ids
func (r *Resolver) Latest(ctx context.Context) (release string, snapshot string, err error) {
	manifest, err := r.Manifest(ctx)
	if err != nil {
		return "", "", err
	}
	return manifest.Latest.Release, manifest.Latest.Snapshot, nil
}

// Find returns the manifest entry of a version
func (r *Resolver) Find(ctx context.Context, id string) (*minecraft.ManifestVersion, error) {
	manifest, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	version := manifest.Find(id)
	if version == nil {
		return nil, errors.Wrap(ErrUnknownVersion, id)
	}
	return version, nil
}

// GetVersionInfo fetches the descriptor of a version. The raw json is returned as well
func (r *Resolver) GetVersionInfo(ctx context.Context, id string) (*minecraft.LaunchManifest, []byte, error) {
	version, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	raw, err := r.Fetcher.FetchRaw(ctx, version.URL, r.UseMirror)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetching descriptor of %s", id)
	}
	if version.Sha1 != "" {
		sum := sha1.Sum(raw)
		if actual := hex.EncodeToString(sum[:]); !strings.EqualFold(actual, version.Sha1) {
			return nil, nil, &downloadmgr.ErrInvalidSha{FileName: version.URL, ExpectedSha: version.Sha1, ActualSha: actual}
		}
	}

	manifest := &minecraft.LaunchManifest{}
	if err := json.Unmarshal(raw, manifest); err != nil {
		return nil, nil, errors.Wrapf(err, "parsing descriptor of %s", id)
	}
	return manifest, raw, nil
}

// DownloadVersion fetches a descriptor and saves it unchanged as `versions/<installName>/<id>.json`
func (r *Resolver) DownloadVersion(ctx context.Context, id string, installName string) (*minecraft.LaunchManifest, error) {
	manifest, raw, err := r.GetVersionInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(r.Layout.VersionJSON(installName, id), raw); err != nil {
		return nil, err
	}
	return manifest, nil
}

// SaveVersion writes m as `versions/<dir>/<file>.json`
func (r *Resolver) SaveVersion(dir string, file string, m *minecraft.LaunchManifest) error {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return err
	}
	return WriteFile(r.Layout.VersionJSON(dir, file), buf.Bytes())
}

// ReadInstalled reads `versions/<name>/<name>.json`
func (r *Resolver) ReadInstalled(name string) (*minecraft.LaunchManifest, error) {
	return r.ReadVersionFile(name, name)
}

// ReadVersionFile reads `versions/<dir>/<file>.json`
func (r *Resolver) ReadVersionFile(dir string, file string) (*minecraft.LaunchManifest, error) {
	raw, err := os.ReadFile(r.Layout.VersionJSON(dir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotInstalled, dir)
		}
		return nil, err
	}
	manifest := &minecraft.LaunchManifest{}
	if err := json.Unmarshal(raw, manifest); err != nil {
		return nil, errors.Wrapf(err, "parsing %s.json", file)
	}
	return manifest, nil
}

// ResolveInherited walks the inheritsFrom chain using installed versions only.
// The returned chain is ordered root first and ends with m.
func (r *Resolver) ResolveInherited(m *minecraft.LaunchManifest) ([]*minecraft.LaunchManifest, error) {
	chain := []*minecraft.LaunchManifest{m}
	seen := map[string]bool{m.ID: true}
	current := m
	for current.InheritsFrom != "" {
		parentID := current.InheritsFrom
		if seen[parentID] {
			return nil, errors.Wrap(ErrInheritanceCycle, parentID)
		}
		seen[parentID] = true

		parent, err := r.ReadInstalled(parentID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving parent of %s", current.ID)
		}
		chain = append([]*minecraft.LaunchManifest{parent}, chain...)
		current = parent
	}
	return chain, nil
}

// WriteFile writes data to path, creating parent directories
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
