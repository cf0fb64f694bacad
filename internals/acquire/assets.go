package acquire

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoAssetIndex is returned for descriptors without an asset index
var ErrNoAssetIndex = errors.New("version has no asset index")

// IndexPath returns `assets/indexes/<id>.json`
func (a *Acquirer) IndexPath(id string) string {
	return filepath.Join(a.Layout.AssetsDir(), "indexes", id+".json")
}

// ObjectPath returns `assets/objects/<hh>/<hash>`
func (a *Acquirer) ObjectPath(obj *minecraft.AssetObject) string {
	return filepath.Join(a.Layout.AssetsDir(), "objects", filepath.FromSlash(obj.UnixPath()))
}

// DownloadAssetIndex downloads (or reads the existing) asset index
func (a *Acquirer) DownloadAssetIndex(ctx context.Context, ref *minecraft.AssetIndexRef) (*minecraft.AssetIndex, error) {
	if ref == nil || ref.URL == "" {
		return nil, ErrNoAssetIndex
	}
	task := &downloadmgr.Task{
		URL:         ref.URL,
		Target:      a.IndexPath(ref.ID),
		Sha1:        ref.Sha1,
		Size:        ref.Size,
		UseMirror:   a.UseMirror,
		Description: "asset index " + ref.ID,
	}
	if err := a.Fetcher.Fetch(ctx, task); err != nil {
		return nil, errors.Wrap(err, "downloading asset index")
	}

	raw, err := os.ReadFile(task.Target)
	if err != nil {
		return nil, err
	}
	index := &minecraft.AssetIndex{}
	if err := json.Unmarshal(raw, index); err != nil {
		return nil, errors.Wrapf(err, "parsing asset index %s", ref.ID)
	}
	return index, nil
}

// DownloadAssets downloads the asset index and all of its objects.
// Objects that already exist with the right size are skipped without any request.
func (a *Acquirer) DownloadAssets(ctx context.Context, ref *minecraft.AssetIndexRef, progress ProgressFunc) (*downloadmgr.Result, error) {
	index, err := a.DownloadAssetIndex(ctx, ref)
	if err != nil {
		return nil, err
	}

	objects := index.Unique()
	mgr := a.newManager(nil)
	present := 0
	for i := range objects {
		obj := &objects[i]
		if err := obj.Validate(); err != nil {
			mgr.Reject(&downloadmgr.Task{Description: obj.Hash}, err)
			continue
		}
		target := a.ObjectPath(obj)
		if info, err := os.Stat(target); err == nil && info.Size() == obj.Size {
			present++
			continue
		}
		mgr.Add(&downloadmgr.Task{
			URL:         obj.DownloadURL(),
			Target:      target,
			Sha1:        obj.Hash,
			Size:        obj.Size,
			UseMirror:   a.UseMirror,
			Description: obj.Hash,
		})
	}

	if progress != nil {
		progress(present, len(objects))
		mgr.OnProgress = func(done int, total int) {
			progress(present+done, len(objects))
		}
	}

	result := mgr.Start(ctx)
	result.Total += present
	result.Completed += present
	result.Skipped += present
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := a.judge("assets", result); err != nil {
		return result, err
	}

	if err := a.copyLegacyAssets(ref.ID, index); err != nil {
		return result, err
	}
	return result, nil
}

// copyLegacyAssets copies objects to their readable names for old versions
func (a *Acquirer) copyLegacyAssets(id string, index *minecraft.AssetIndex) error {
	var dir string
	switch {
	case index.MapToResources:
		dir = filepath.Join(a.Layout.Root, "resources")
	case index.Virtual:
		dir = filepath.Join(a.Layout.AssetsDir(), "virtual", id)
	default:
		return nil
	}

	for name, obj := range index.Entries() {
		obj := obj
		if obj.Validate() != nil || minecraft.CheckPath(name) != nil {
			a.Logger.Debug("skipping invalid legacy asset", zap.String("name", name))
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if info, err := os.Stat(target); err == nil && info.Size() == obj.Size {
			continue
		}
		if err := copyFile(a.ObjectPath(&obj), target); err != nil {
			if os.IsNotExist(err) {
				// failed downloads were already tolerated
				a.Logger.Debug("skipping missing legacy asset", zap.String("name", name))
				continue
			}
			return errors.Wrapf(err, "copying legacy asset %s", name)
		}
	}
	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
