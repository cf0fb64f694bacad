package instances

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mrpack"
	"github.com/pkg/errors"
	strcase "github.com/stoewer/go-strcase"
	"go.uber.org/zap"
)

// PackName is the default install name of a pack
func PackName(index *mrpack.Index) string {
	name, err := installName(strcase.KebabCase(strings.TrimSpace(index.Name)), "")
	if name == "" || err != nil {
		return index.MinecraftVersion()
	}
	return name
}

// InstallPack installs a modrinth pack (`.mrpack`) as `versions/<name>/`.
// The minecraft version and loader come from the pack, its files and overrides
// are placed inside the version directory. The name defaults to PackName.
func (m *Manager) InstallPack(ctx context.Context, packPath string, customName string, opts ...InstallOption) (*minecraft.LaunchManifest, error) {
	o := newInstallOptions(opts)
	r := newReporter(o.progress)

	manifest, err := m.installPack(ctx, r, o, packPath, customName)
	if err != nil {
		r.fail(err)
		return nil, err
	}
	r.report(StageComplete, 1, 1, "installed "+manifest.ID)
	return manifest, nil
}

func (m *Manager) installPack(ctx context.Context, r *reporter, o *installOptions, packPath string, customName string) (*minecraft.LaunchManifest, error) {
	pack, err := mrpack.Open(packPath)
	if err != nil {
		return nil, err
	}
	index := pack.Index
	kind, loaderVersion, err := index.Loader()
	if err != nil {
		return nil, err
	}
	if o.fabricAPI != "" {
		return nil, errors.Wrap(ErrFabricAPIRequiresFabric, "packs bring their own mods")
	}

	mcVersion := index.MinecraftVersion()
	name, err := installName(customName, PackName(index))
	if err != nil {
		return nil, err
	}
	logger := m.logger.With(
		zap.String("pack", index.Name),
		zap.String("packVersion", index.VersionID),
		zap.String("name", name),
	)
	logger.Info("installing pack")

	var manifest *minecraft.LaunchManifest
	if kind == 0 {
		manifest, err = m.downloadVanilla(ctx, r, mcVersion, name)
	} else {
		manifest, err = m.downloadWithLoader(ctx, r, o, mcVersion, kind, loaderVersion, name)
	}
	if err != nil {
		return nil, err
	}

	dir := m.Layout.VersionDir(name)
	if err := m.downloadPackFiles(ctx, r, dir, index.ClientFiles()); err != nil {
		return nil, err
	}

	r.report(StageOverrides, 0, 2, "copying overrides")
	for n, prefix := range []string{mrpack.OverridesDir, mrpack.ClientOverridesDir} {
		written, err := installer.ExtractDir(pack.Path, prefix, dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("copied overrides", zap.String("prefix", prefix), zap.Int("files", written))
		r.report(StageOverrides, n+1, 2, fmt.Sprintf("copied %d files from %s", written, prefix))
	}

	meta, err := ReadMetadata(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", MetadataFile)
	}
	meta.Pack = index.Name
	meta.PackVersion = index.VersionID
	if err := WriteMetadata(dir, meta); err != nil {
		return nil, err
	}

	logger.Info("installed pack")
	return manifest, nil
}

// downloadPackFiles downloads every file of a pack into dir.
// Failed files are retried with their next download url, a file that fails on every url fails the install.
func (m *Manager) downloadPackFiles(ctx context.Context, r *reporter, dir string, files []mrpack.File) error {
	total := len(files)
	done := 0
	r.report(StagePackFiles, 0, total, "downloading pack files")

	remaining := files
	for round := 0; len(remaining) > 0; round++ {
		mgr := downloadmgr.New(m.Fetcher)
		if m.Config.Connections > 0 {
			mgr.Workers = m.Config.Connections
		}
		mgr.OnProgress = func(current int, _ int) {
			r.report(StagePackFiles, done+current, total, fmt.Sprintf("pack files %d/%d", done+current, total))
		}

		tasks := make([]*downloadmgr.Task, 0, len(remaining))
		for _, f := range remaining {
			tasks = append(tasks, &downloadmgr.Task{
				URL:         f.Downloads[round],
				Target:      filepath.Join(dir, filepath.FromSlash(f.Path)),
				Sha1:        f.Hashes.Sha1,
				Size:        f.FileSize,
				Description: f.Path,
			})
		}
		mgr.Add(tasks...)
		result := mgr.Start(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		done += result.Completed

		var retry []mrpack.File
		for i, t := range tasks {
			if t.Status() == downloadmgr.StatusCompleted {
				continue
			}
			if round+1 >= len(remaining[i].Downloads) {
				return &downloadmgr.BatchError{Phase: "pack files", Result: result}
			}
			m.logger.Debug("trying next pack download", zap.String("file", t.Description), zap.Error(t.Err()))
			retry = append(retry, remaining[i])
		}
		remaining = retry
	}
	return nil
}
