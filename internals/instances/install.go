package instances

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InstallOption configures a single installation
type InstallOption func(o *installOptions)

type installOptions struct {
	progress       ProgressFunc
	extraLibraries minecraft.Libraries
	fabricAPI      string
}

// WithProgress receives every progress change of the installation
func WithProgress(fn ProgressFunc) InstallOption {
	return func(o *installOptions) { o.progress = fn }
}

// WithExtraLibraries adds libraries to the loader descriptor before it is merged
func WithExtraLibraries(libs ...minecraft.Library) InstallOption {
	return func(o *installOptions) { o.extraLibraries = append(o.extraLibraries, libs...) }
}

// WithFabricAPI installs the fabric api mod into `versions/<name>/mods/`.
// version is a modrinth version number or id, empty or "latest" picks the newest release.
// Only fabric installs accept it.
func WithFabricAPI(version string) InstallOption {
	return func(o *installOptions) {
		o.fabricAPI = strings.TrimSpace(version)
		if o.fabricAPI == "" {
			o.fabricAPI = FabricAPILatest
		}
	}
}

func newInstallOptions(opts []InstallOption) *installOptions {
	o := &installOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultName is the install name used for loader installs without a custom name
func DefaultName(mcVersion string, kind loaders.Kind, loaderVersion string) string {
	return fmt.Sprintf("%s-%s-%s", mcVersion, kind, loaderVersion)
}

// installName returns the trimmed custom name or fallback
func installName(customName string, fallback string) (string, error) {
	name := strings.TrimSpace(customName)
	if name == "" {
		name = fallback
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\:`) {
		return "", errors.Wrap(ErrInvalidName, name)
	}
	return name, nil
}

// DownloadVanilla installs a vanilla version as `versions/<name>/<name>.json` (and `.jar`).
// The name defaults to the version id. Failures are also reported as the error stage.
func (m *Manager) DownloadVanilla(ctx context.Context, versionID string, customName string, opts ...InstallOption) (*minecraft.LaunchManifest, error) {
	o := newInstallOptions(opts)
	r := newReporter(o.progress)

	if o.fabricAPI != "" {
		err := errors.Wrap(ErrFabricAPIRequiresFabric, "vanilla")
		r.fail(err)
		return nil, err
	}

	manifest, err := m.downloadVanilla(ctx, r, versionID, customName)
	if err != nil {
		r.fail(err)
		return nil, err
	}
	r.report(StageComplete, 1, 1, "installed "+manifest.ID)
	return manifest, nil
}

func (m *Manager) downloadVanilla(ctx context.Context, r *reporter, versionID string, customName string) (*minecraft.LaunchManifest, error) {
	name, err := installName(customName, versionID)
	if err != nil {
		return nil, err
	}
	logger := m.logger.With(zap.String("version", versionID), zap.String("name", name))
	logger.Info("installing vanilla")

	vanilla, err := m.installBase(ctx, r, versionID, name)
	if err != nil {
		return nil, err
	}

	// the downloaded json can stay untouched if the names match
	var renamed *minecraft.LaunchManifest
	final := vanilla
	if name != vanilla.ID {
		renamed = vanilla.Clone()
		renamed.ID = name
		final = renamed
	}

	meta := &Metadata{
		Name:             name,
		MinecraftVersion: vanilla.ID,
		Loader:           LoaderVanilla,
	}
	if err := m.finalize(r, vanilla.ID, name, renamed, meta); err != nil {
		return nil, err
	}

	logger.Info("installed vanilla")
	return final, nil
}

// DownloadWithLoader installs a minecraft version patched by a loader.
// An empty loaderVersion installs the latest stable loader version. The name defaults to DefaultName.
// Failures are also reported as the error stage.
func (m *Manager) DownloadWithLoader(ctx context.Context, mcVersion string, kind loaders.Kind, loaderVersion string, customName string, opts ...InstallOption) (*minecraft.LaunchManifest, error) {
	o := newInstallOptions(opts)
	r := newReporter(o.progress)

	if o.fabricAPI != "" && kind != loaders.Fabric {
		err := errors.Wrap(ErrFabricAPIRequiresFabric, kind.String())
		r.fail(err)
		return nil, err
	}

	merged, err := m.downloadWithLoader(ctx, r, o, mcVersion, kind, loaderVersion, customName)
	if err != nil {
		r.fail(err)
		return nil, err
	}
	r.report(StageComplete, 1, 1, "installed "+merged.ID)
	return merged, nil
}

func (m *Manager) downloadWithLoader(ctx context.Context, r *reporter, o *installOptions, mcVersion string, kind loaders.Kind, loaderVersion string, customName string) (*minecraft.LaunchManifest, error) {
	loader, err := loaders.New(kind, m.LoaderDeps)
	if err != nil {
		return nil, err
	}

	r.report(StageLoaderInfo, 0, 1, "fetching "+kind.String()+" versions")
	available, err := loader.FetchMetadata(ctx, mcVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s versions", kind)
	}
	var version loaders.Version
	if loaderVersion == "" {
		version, err = loaders.Latest(available)
	} else {
		version, err = loaders.Find(available, loaderVersion)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s for minecraft %s", kind, mcVersion)
	}

	name, err := installName(customName, DefaultName(mcVersion, kind, version.ID))
	if err != nil {
		return nil, err
	}
	logger := m.logger.With(
		zap.String("version", mcVersion),
		zap.Stringer("loader", kind),
		zap.String("loaderVersion", version.ID),
		zap.String("name", name),
	)
	logger.Info("installing with loader")

	vanilla, err := m.installBase(ctx, r, mcVersion, name)
	if err != nil {
		return nil, err
	}

	target := &loaders.Target{
		MinecraftVersion: mcVersion,
		LoaderVersion:    version.ID,
		InstallName:      name,
		Vanilla:          vanilla,
		MinecraftJar:     m.Layout.VersionJar(name, vanilla.ID),
		Progress:         r.report,
	}
	overlay, err := loader.Install(ctx, target)
	if err != nil {
		return nil, errors.Wrapf(err, "installing %s %s", kind, version.ID)
	}

	if len(o.extraLibraries) != 0 {
		_, err := m.Acquirer.DownloadLibraries(ctx, o.extraLibraries, "", func(done int, total int) {
			r.report(StageLoaderLibraries, done, total, "downloading extra libraries")
		})
		if err != nil {
			return nil, errors.Wrap(err, "downloading extra libraries")
		}
		overlay.Libraries = append(overlay.Libraries, o.extraLibraries...)
	}

	merged := minecraft.Merge(vanilla, overlay, name)
	meta := &Metadata{
		Name:             name,
		MinecraftVersion: mcVersion,
		Loader:           kind.String(),
		LoaderVersion:    version.ID,
	}

	if o.fabricAPI != "" {
		api, err := m.installFabricAPI(ctx, r, name, mcVersion, o.fabricAPI)
		if err != nil {
			return nil, err
		}
		meta.FabricAPIVersion = api.VersionNumber
	}

	if err := m.finalize(r, vanilla.ID, name, merged, meta); err != nil {
		return nil, err
	}

	logger.Info("installed with loader")
	return merged, nil
}

// installBase downloads the vanilla descriptor, client jar, libraries and assets into `versions/<name>/`
func (m *Manager) installBase(ctx context.Context, r *reporter, versionID string, name string) (*minecraft.LaunchManifest, error) {
	// every install starts at the preferred mirror again
	m.Fetcher.Mirrors.Reset()

	r.report(StageIndex, 0, 1, "resolving "+versionID)
	vanilla, err := m.Resolver.DownloadVersion(ctx, versionID, name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", versionID)
	}
	r.report(StageIndex, 1, 1, "resolved "+versionID)

	r.report(StageClient, 0, 1, "downloading "+vanilla.ID+".jar")
	m.reuseJar(vanilla, name)
	if err := m.Acquirer.DownloadClient(ctx, vanilla, name); err != nil {
		return nil, errors.Wrap(err, "downloading client jar")
	}
	r.report(StageClient, 1, 1, "downloaded "+vanilla.ID+".jar")

	if err := m.acquire(ctx, r, vanilla, name); err != nil {
		return nil, err
	}
	return vanilla, nil
}

// acquire downloads libraries and assets concurrently
func (m *Manager) acquire(ctx context.Context, r *reporter, vanilla *minecraft.LaunchManifest, name string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	g.Go(func() error {
		r.report(StageLibraries, 0, len(vanilla.Libraries), "downloading libraries")
		_, err := m.Acquirer.DownloadLibraries(gctx, vanilla.Libraries, m.Layout.NativesDir(name), func(done int, total int) {
			r.report(StageLibraries, done, total, fmt.Sprintf("libraries %d/%d", done, total))
		})
		return errors.Wrap(err, "downloading libraries")
	})
	g.Go(func() error {
		r.report(StageAssets, 0, 0, "downloading asset index")
		_, err := m.Acquirer.DownloadAssets(gctx, vanilla.AssetIndex, func(done int, total int) {
			r.report(StageAssets, done, total, fmt.Sprintf("assets %d/%d", done, total))
		})
		return errors.Wrap(err, "downloading assets")
	})

	return g.Wait()
}

// reuseJar moves an already installed and valid `<name>.jar` back to `<id>.jar`,
// so reinstalling does not download the client again
func (m *Manager) reuseJar(vanilla *minecraft.LaunchManifest, name string) {
	client := vanilla.ClientDownload()
	if name == vanilla.ID || client == nil {
		return
	}
	installed := m.Layout.VersionJar(name, name)
	if err := downloadmgr.Verify(installed, client.Size, client.Sha1); err != nil {
		return
	}
	if err := os.Rename(installed, m.Layout.VersionJar(name, vanilla.ID)); err != nil {
		m.logger.Debug("could not reuse client jar", zap.Error(err))
	}
}

// finalize writes the final json (if merged is set), moves `<id>.jar` to `<name>.jar`,
// removes the stale `<id>.json` and writes the install metadata
func (m *Manager) finalize(r *reporter, baseID string, name string, merged *minecraft.LaunchManifest, meta *Metadata) error {
	r.report(StageGenerateJSON, 0, 1, "writing "+name+".json")

	if merged != nil {
		if err := m.Resolver.SaveVersion(name, name, merged); err != nil {
			return errors.Wrapf(err, "writing %s.json", name)
		}
	}

	if baseID != name {
		if err := m.moveJar(baseID, name); err != nil {
			return errors.Wrapf(err, "renaming %s.jar", baseID)
		}
		stale := m.Layout.VersionJSON(name, baseID)
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	meta.InstalledAt = time.Now().UTC().Truncate(time.Second)
	if err := WriteMetadata(m.Layout.VersionDir(name), meta); err != nil {
		return err
	}

	r.report(StageGenerateJSON, 1, 1, "wrote "+filepath.Base(m.Layout.VersionJSON(name, name)))
	return nil
}

func (m *Manager) moveJar(baseID string, name string) error {
	from := m.Layout.VersionJar(name, baseID)
	to := m.Layout.VersionJar(name, name)
	if _, err := os.Stat(from); err != nil {
		if os.IsNotExist(err) {
			// already renamed
			if _, statErr := os.Stat(to); statErr == nil {
				return nil
			}
		}
		return err
	}
	if err := os.Remove(to); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(from, to)
}
