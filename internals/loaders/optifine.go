package loaders

import (
	"context"
	"encoding/json"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
)

const (
	launchWrapper     = "net.minecraft:launchwrapper:1.12"
	launchWrapperMain = "net.minecraft.launchwrapper.Launch"
	optiFineTweaker   = "optifine.OptiFineTweaker"
)

type optiFineBuild struct {
	MCVersion string `json:"mcversion"`
	Type      string `json:"type"`
	Patch     string `json:"patch"`
	Filename  string `json:"filename"`
	Forge     string `json:"forge"`
}

// OptiFineLoader installs optifine as a launchwrapper tweaker.
// OptiFine builds are only available from bmclapi.
type OptiFineLoader struct {
	deps *Deps
}

func (o *OptiFineLoader) Kind() Kind { return OptiFine }

// FetchMetadata lists the optifine builds for mcVersion
func (o *OptiFineLoader) FetchMetadata(ctx context.Context, mcVersion string) ([]Version, error) {
	return o.deps.cachedVersions(OptiFine, mcVersion, func() ([]Version, error) {
		raw, err := o.deps.Fetcher.FetchRaw(ctx, joinURL(o.deps.BMCLAPIURL, "optifine", url.PathEscape(mcVersion)), false)
		if err != nil {
			return nil, errors.Wrap(err, "fetching optifine versions")
		}
		builds := make([]optiFineBuild, 0)
		if err := json.Unmarshal(raw, &builds); err != nil {
			return nil, errors.Wrap(err, "parsing optifine versions")
		}

		versions := make([]Version, 0, len(builds))
		for _, b := range builds {
			versions = append(versions, Version{
				ID:               b.Type + "_" + b.Patch,
				MinecraftVersion: mcVersion,
				Stable:           !strings.HasPrefix(strings.ToLower(b.Patch), "pre"),
				Type:             b.Type,
				Patch:            b.Patch,
			})
		}
		return versions, nil
	})
}

// Install downloads the optifine jar into the libraries directory and returns a launchwrapper overlay
func (o *OptiFineLoader) Install(ctx context.Context, t *Target) (*minecraft.LaunchManifest, error) {
	t.report(StageLoaderInfo, 0, 1, "fetching optifine versions")
	version, err := resolveVersion(ctx, o, t)
	if err != nil {
		return nil, err
	}
	mc := t.MinecraftVersion
	name := mc + "_" + version.ID

	lib := minecraft.Library{Name: "optifine:OptiFine:" + name}
	path := lib.Filepath()
	downloadURL := joinURL(o.deps.BMCLAPIURL, "optifine", url.PathEscape(mc), url.PathEscape(version.Type), url.PathEscape(version.Patch))
	lib.Downloads = &minecraft.LibraryDownloads{Artifact: &minecraft.Artifact{Path: path, URL: downloadURL}}

	t.report(StageLoaderInfo, 0, 1, "downloading optifine "+version.ID)
	task := &downloadmgr.Task{
		URL:         downloadURL,
		Target:      filepath.Join(o.deps.Acquirer.Layout.LibrariesDir(), filepath.FromSlash(path)),
		Description: "OptiFine " + name,
	}
	if err := o.deps.Fetcher.Fetch(ctx, task); err != nil {
		return nil, errors.Wrap(err, "downloading optifine")
	}
	t.report(StageLoaderInfo, 1, 1, "optifine "+version.ID)

	overlay := &minecraft.LaunchManifest{
		ID:           mc + "-OptiFine_" + version.ID,
		InheritsFrom: mc,
		MainClass:    launchWrapperMain,
		Libraries:    minecraft.Libraries{lib, {Name: launchWrapper}},
	}
	if t.Vanilla != nil && t.Vanilla.MinecraftArguments != "" {
		overlay.MinecraftArguments = t.Vanilla.MinecraftArguments + " --tweakClass " + optiFineTweaker
	} else {
		overlay.Arguments = &minecraft.Arguments{Game: []minecraft.Argument{
			minecraft.NewArgument("--tweakClass"),
			minecraft.NewArgument(optiFineTweaker),
		}}
	}

	if err := downloadLoaderLibraries(ctx, o.deps, t, overlay.Libraries); err != nil {
		return nil, err
	}
	return overlay, nil
}
