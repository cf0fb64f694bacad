// Package acquire downloads the client jar, libraries, natives and assets of a version
package acquire

import (
	"context"
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/versions"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoClientDownload is returned for descriptors without a client jar
var ErrNoClientDownload = errors.New("version has no client download")

// ProgressFunc receives the number of finished and total files of a batch
type ProgressFunc func(done int, total int)

// Acquirer downloads everything a version needs
type Acquirer struct {
	Layout    versions.Layout
	Fetcher   *downloadmgr.Fetcher
	Evaluator *minecraft.Evaluator
	Tolerance downloadmgr.Tolerance
	UseMirror bool
	// Workers is the number of parallel downloads per batch, 0 uses the default
	Workers int
	Logger  *zap.Logger
}

// New returns an Acquirer with default settings for the current platform
func New(root string, fetcher *downloadmgr.Fetcher) *Acquirer {
	return &Acquirer{
		Layout:    versions.Layout{Root: root},
		Fetcher:   fetcher,
		Evaluator: minecraft.DefaultEvaluator(),
		Tolerance: downloadmgr.DefaultTolerance,
		UseMirror: true,
		Logger:    zap.NewNop(),
	}
}

func (a *Acquirer) newManager(progress ProgressFunc) *downloadmgr.DownloadManager {
	mgr := downloadmgr.New(a.Fetcher)
	if a.Workers > 0 {
		mgr.Workers = a.Workers
	}
	mgr.OnProgress = progress
	return mgr
}

// judge returns a BatchError if the result exceeds the tolerance
func (a *Acquirer) judge(phase string, result *downloadmgr.Result) error {
	switch a.Tolerance.Judge(result) {
	case downloadmgr.VerdictFail:
		return &downloadmgr.BatchError{Phase: phase, Result: result}
	case downloadmgr.VerdictWarn:
		for _, failed := range result.Failed {
			a.Logger.Warn("download failed", zap.String("phase", phase), zap.String("url", failed.URL), zap.Error(failed.Err()))
		}
	}
	return nil
}

// DownloadLibraries downloads all libraries allowed on this platform and extracts their natives
// into nativesDir (skipped if nativesDir is empty). Files without an url are left to installer processors.
func (a *Acquirer) DownloadLibraries(ctx context.Context, libs minecraft.Libraries, nativesDir string, progress ProgressFunc) (*downloadmgr.Result, error) {
	resolved := NormalizeAll(libs, a.Evaluator)

	mgr := a.newManager(progress)
	natives := make(map[*downloadmgr.Task]ResolvedLibrary)
	for _, lib := range resolved {
		if lib.URL == "" {
			a.Logger.Debug("library has no url, expecting a processor to create it", zap.String("path", lib.Path))
			continue
		}
		task := &downloadmgr.Task{
			URL:         lib.URL,
			Target:      filepath.Join(a.Layout.LibrariesDir(), filepath.FromSlash(lib.Path)),
			Sha1:        lib.Sha1,
			Size:        lib.Size,
			UseMirror:   a.UseMirror,
			Description: lib.Name,
		}
		if err := minecraft.CheckPath(lib.Path); err != nil {
			mgr.Reject(task, errors.Wrapf(err, "library %s", lib.Name))
			continue
		}
		if lib.Native {
			natives[task] = lib
		}
		mgr.Add(task)
	}

	result := mgr.Start(ctx)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := a.judge("libraries", result); err != nil {
		return result, err
	}

	if nativesDir == "" {
		return result, nil
	}
	for task, lib := range natives {
		if task.Status() != downloadmgr.StatusCompleted {
			continue
		}
		if err := ExtractNatives(task.Target, nativesDir, lib.Exclude); err != nil {
			return result, errors.Wrapf(err, "extracting natives of %s", lib.Name)
		}
	}
	return result, nil
}

// DownloadClient downloads the client jar of m to `versions/<dir>/<m.ID>.jar`
func (a *Acquirer) DownloadClient(ctx context.Context, m *minecraft.LaunchManifest, dir string) error {
	client := m.ClientDownload()
	if client == nil || client.URL == "" {
		return errors.Wrap(ErrNoClientDownload, m.ID)
	}

	task := &downloadmgr.Task{
		URL:         client.URL,
		Target:      a.Layout.VersionJar(dir, m.ID),
		Sha1:        client.Sha1,
		Size:        client.Size,
		UseMirror:   a.UseMirror,
		Description: m.ID + ".jar",
	}
	return a.Fetcher.Fetch(ctx, task)
}
