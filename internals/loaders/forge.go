package loaders

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dchest/uniuri"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrInstallerUnavailable is returned when no installer url worked
	ErrInstallerUnavailable = errors.New("installer could not be downloaded")
	// ErrMissingVersionJSON is returned for installers without a version.json
	ErrMissingVersionJSON = errors.New("installer contains no version.json")
)

// flavor is the difference between forge and neoforge
type flavor struct {
	kind Kind
	// listPath is the bmclapi path of the version list
	listPath func(mcVersion string) string
	parse    func(raw []byte, mcVersion string) ([]Version, error)
	// installerPath is the maven path of the installer jar
	installerPath func(mcVersion string, v Version) string
	// officialMaven is the origin maven repository
	officialMaven string
}

type forgeBuild struct {
	Version   string  `json:"version"`
	MCVersion string  `json:"mcversion"`
	Branch    *string `json:"branch"`
	Build     int     `json:"build"`
	Modified  string  `json:"modified"`
}

type neoForgeBuild struct {
	Version       string `json:"version"`
	RawVersion    string `json:"rawVersion"`
	MCVersion     string `json:"mcversion"`
	InstallerPath string `json:"installerPath"`
}

var forgeFlavor = flavor{
	kind: Forge,
	listPath: func(mcVersion string) string {
		return "forge/minecraft/" + url.PathEscape(mcVersion)
	},
	parse: func(raw []byte, mcVersion string) ([]Version, error) {
		builds := make([]forgeBuild, 0)
		if err := json.Unmarshal(raw, &builds); err != nil {
			return nil, err
		}
		versions := make([]Version, 0, len(builds))
		for _, b := range builds {
			v := Version{ID: b.Version, MinecraftVersion: mcVersion, Stable: true}
			if b.Branch != nil {
				v.Branch = *b.Branch
			}
			versions = append(versions, v)
		}
		return versions, nil
	},
	installerPath: func(mcVersion string, v Version) string {
		full := mcVersion + "-" + v.ID
		if v.Branch != "" {
			full += "-" + v.Branch
		}
		return "net/minecraftforge/forge/" + full + "/forge-" + full + "-installer.jar"
	},
	officialMaven: minecraft.ForgeMavenURL,
}

var neoForgeFlavor = flavor{
	kind: NeoForge,
	listPath: func(mcVersion string) string {
		return "neoforge/list/" + url.PathEscape(mcVersion)
	},
	parse: func(raw []byte, mcVersion string) ([]Version, error) {
		builds := make([]neoForgeBuild, 0)
		if err := json.Unmarshal(raw, &builds); err != nil {
			return nil, err
		}
		versions := make([]Version, 0, len(builds))
		for _, b := range builds {
			versions = append(versions, Version{
				ID:               b.Version,
				MinecraftVersion: mcVersion,
				Stable:           !strings.Contains(b.Version, "beta") && !strings.Contains(b.Version, "alpha"),
			})
		}
		return versions, nil
	},
	installerPath: func(mcVersion string, v Version) string {
		// neoforge for 1.20.1 was still published as "forge"
		if mcVersion == "1.20.1" {
			full := mcVersion + "-" + v.ID
			return "net/neoforged/forge/" + full + "/forge-" + full + "-installer.jar"
		}
		return "net/neoforged/neoforge/" + v.ID + "/neoforge-" + v.ID + "-installer.jar"
	},
	officialMaven: minecraft.NeoForgeMavenURL,
}

// ForgeLoader installs forge and neoforge using their installer jar
type ForgeLoader struct {
	deps   *Deps
	flavor flavor
}

func (f *ForgeLoader) Kind() Kind { return f.flavor.kind }

// FetchMetadata lists the versions for mcVersion
func (f *ForgeLoader) FetchMetadata(ctx context.Context, mcVersion string) ([]Version, error) {
	return f.deps.cachedVersions(f.flavor.kind, mcVersion, func() ([]Version, error) {
		endpoint := joinURL(f.deps.BMCLAPIURL, f.flavor.listPath(mcVersion))
		raw, err := f.deps.Fetcher.FetchRaw(ctx, endpoint, false)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching %s versions", f.flavor.kind)
		}
		versions, err := f.flavor.parse(raw, mcVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s versions", f.flavor.kind)
		}
		return versions, nil
	})
}

// InstallerURLs returns the download urls of an installer, mirror first
func (f *ForgeLoader) InstallerURLs(mcVersion string, v Version) []string {
	path := f.flavor.installerPath(mcVersion, v)
	urls := []string{}
	if f.deps.UseMirror {
		urls = append(urls, joinURL(f.deps.BMCLAPIURL, "maven", path))
	}
	return append(urls, joinURL(f.flavor.officialMaven, path))
}

// Install downloads and runs the installer. The returned overlay is the installer's version.json
func (f *ForgeLoader) Install(ctx context.Context, t *Target) (*minecraft.LaunchManifest, error) {
	kind := f.flavor.kind.String()
	t.report(StageLoaderInfo, 0, 1, "fetching "+kind+" versions")
	version, err := resolveVersion(ctx, f, t)
	if err != nil {
		return nil, err
	}

	layout := f.deps.Acquirer.Layout
	scratch := filepath.Join(layout.ScratchDir(), uniuri.NewLen(10))
	if err := os.MkdirAll(scratch, os.ModePerm); err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	t.report(StageLoaderInfo, 0, 1, "downloading "+kind+" installer "+version.ID)
	installerJar := filepath.Join(scratch, "installer.jar")
	if err := f.downloadInstaller(ctx, t.MinecraftVersion, version, installerJar); err != nil {
		return nil, err
	}

	archive, err := installer.Extract(installerJar, layout.LibrariesDir(), scratch)
	if err != nil {
		return nil, err
	}
	t.report(StageLoaderInfo, 1, 1, kind+" "+version.ID)

	legacy, err := installer.InstallLegacy(archive, layout.LibrariesDir())
	switch {
	case err == nil:
		if err := downloadLoaderLibraries(ctx, f.deps, t, legacy.Libraries); err != nil {
			return nil, err
		}
		return legacy, nil
	case !errors.Is(err, installer.ErrNotLegacy):
		return nil, err
	}

	if archive.VersionJSON == nil {
		return nil, ErrMissingVersionJSON
	}
	overlay := &minecraft.LaunchManifest{}
	if err := json.Unmarshal(archive.VersionJSON, overlay); err != nil {
		return nil, errors.Wrap(err, "parsing installer version.json")
	}

	libs := append(append(minecraft.Libraries{}, archive.Profile.Libraries...), overlay.Libraries...)
	if err := downloadLoaderLibraries(ctx, f.deps, t, libs); err != nil {
		return nil, err
	}

	interpreter := &installer.Interpreter{
		Runner:  f.deps.Runner,
		Java:    f.deps.Java,
		Timeout: f.deps.ProcessorTimeout,
		Logger:  f.deps.logger(),
		OnProcessor: func(index int, total int, jar string) {
			t.report(StageProcessors, index-1, total, jar)
		},
	}
	env := installer.Environment{
		MinecraftJar:     t.MinecraftJar,
		MinecraftVersion: t.MinecraftVersion,
		Root:             layout.Root,
		InstallerPath:    installerJar,
		LibrariesDir:     layout.LibrariesDir(),
		ScratchDir:       scratch,
	}
	if err := interpreter.Run(ctx, archive.Profile, env); err != nil {
		return nil, err
	}
	t.report(StageProcessors, 1, 1, "processors done")

	return overlay, nil
}

func (f *ForgeLoader) downloadInstaller(ctx context.Context, mcVersion string, v Version, target string) error {
	var lastErr error
	for _, u := range f.InstallerURLs(mcVersion, v) {
		task := &downloadmgr.Task{URL: u, Target: target, Description: "installer"}
		err := f.deps.Fetcher.Fetch(ctx, task)
		if err == nil {
			return nil
		}
		lastErr = err
		f.deps.logger().Debug("installer source failed", zap.String("url", u), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Wrapf(ErrInstallerUnavailable, "%s %s: %s", f.flavor.kind, v.ID, lastErr)
}
