package loaders

import (
	"context"
	"net/url"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
)

type fabricLoaderEntry struct {
	Loader       fabricLoaderVersion  `json:"loader"`
	Intermediary fabricMappingVersion `json:"intermediary"`
}

type fabricLoaderVersion struct {
	Separator string `json:"separator"`
	Build     int    `json:"build"`
	Maven     string `json:"maven"`
	Version   string `json:"version"`
	Stable    bool   `json:"stable"`
}

type fabricMappingVersion struct {
	Maven   string `json:"maven"`
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// FabricLoader installs fabric. Fabric only needs its profile json and libraries
type FabricLoader struct {
	deps *Deps
}

func (f *FabricLoader) Kind() Kind { return Fabric }

// FetchMetadata lists the fabric loader versions for mcVersion
func (f *FabricLoader) FetchMetadata(ctx context.Context, mcVersion string) ([]Version, error) {
	return f.deps.cachedVersions(Fabric, mcVersion, func() ([]Version, error) {
		entries := make([]fabricLoaderEntry, 0)
		endpoint := joinURL(f.deps.FabricMetaURL, "v2/versions/loader", url.PathEscape(mcVersion))
		if err := f.deps.Fetcher.FetchJSON(ctx, endpoint, &entries, false); err != nil {
			return nil, errors.Wrap(err, "fetching fabric versions")
		}

		versions := make([]Version, 0, len(entries))
		for _, entry := range entries {
			versions = append(versions, Version{
				ID:               entry.Loader.Version,
				MinecraftVersion: mcVersion,
				Stable:           entry.Loader.Stable,
			})
		}
		return versions, nil
	})
}

// Install fetches the fabric profile and downloads its libraries
func (f *FabricLoader) Install(ctx context.Context, t *Target) (*minecraft.LaunchManifest, error) {
	t.report(StageLoaderInfo, 0, 1, "fetching fabric versions")
	version, err := resolveVersion(ctx, f, t)
	if err != nil {
		return nil, err
	}

	t.report(StageLoaderInfo, 0, 1, "fetching fabric profile "+version.ID)
	profile := &minecraft.LaunchManifest{}
	endpoint := joinURL(
		f.deps.FabricMetaURL,
		"v2/versions/loader",
		url.PathEscape(t.MinecraftVersion),
		url.PathEscape(version.ID),
		"profile/json",
	)
	if err := f.deps.Fetcher.FetchJSON(ctx, endpoint, profile, false); err != nil {
		return nil, errors.Wrapf(err, "fetching fabric profile %s", version.ID)
	}
	t.report(StageLoaderInfo, 1, 1, "fabric "+version.ID)

	if err := downloadLoaderLibraries(ctx, f.deps, t, profile.Libraries); err != nil {
		return nil, err
	}
	return profile, nil
}

// downloadLoaderLibraries downloads the libraries of an overlay descriptor
func downloadLoaderLibraries(ctx context.Context, deps *Deps, t *Target, libs minecraft.Libraries) error {
	t.report(StageLoaderLibraries, 0, len(libs), "downloading loader libraries")
	_, err := deps.Acquirer.DownloadLibraries(ctx, libs, "", func(done int, total int) {
		t.report(StageLoaderLibraries, done, total, "downloading loader libraries")
	})
	if err != nil {
		return errors.Wrap(err, "downloading loader libraries")
	}
	return nil
}
