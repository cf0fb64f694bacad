package instances

import (
	"context"
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/modrinth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// FabricAPIProject is the modrinth slug of the fabric api mod
	FabricAPIProject = "fabric-api"
	// FabricAPILatest selects the newest release of the fabric api
	FabricAPILatest = "latest"
)

var (
	// ErrFabricAPINotFound is returned when no fabric api version matches
	ErrFabricAPINotFound = errors.New("fabric api version not found")
	// ErrFabricAPIRequiresFabric is returned when the fabric api is requested for other loaders
	ErrFabricAPIRequiresFabric = errors.New("the fabric api can only be installed with fabric")
)

// FabricAPIVersions returns the fabric api versions for a minecraft version, newest first
func (m *Manager) FabricAPIVersions(ctx context.Context, mcVersion string) ([]modrinth.Version, error) {
	return m.Modrinth.ListProjectVersion(ctx, FabricAPIProject, &modrinth.ListProjectVersionQuery{
		Loaders:      []string{"fabric"},
		GameVersions: []string{mcVersion},
	})
}

// pickFabricAPI returns the newest stable version for "latest" (or the newest one if none is stable).
// Anything else has to match a version number or id.
func pickFabricAPI(list []modrinth.Version, want string) (*modrinth.Version, error) {
	if len(list) == 0 {
		return nil, ErrFabricAPINotFound
	}
	if want == FabricAPILatest {
		for i := range list {
			if list[i].Stable() {
				return &list[i], nil
			}
		}
		return &list[0], nil
	}
	for i := range list {
		if list[i].VersionNumber == want || list[i].ID == want {
			return &list[i], nil
		}
	}
	return nil, errors.Wrap(ErrFabricAPINotFound, want)
}

// installFabricAPI downloads the fabric api jar into `versions/<name>/mods/`
func (m *Manager) installFabricAPI(ctx context.Context, r *reporter, name string, mcVersion string, want string) (*modrinth.Version, error) {
	r.report(StageFabricAPI, 0, 1, "fetching fabric api versions")
	list, err := m.FabricAPIVersions(ctx, mcVersion)
	if err != nil {
		return nil, errors.Wrap(err, "fetching fabric api versions")
	}
	version, err := pickFabricAPI(list, want)
	if err != nil {
		return nil, errors.Wrapf(err, "minecraft %s", mcVersion)
	}
	file := version.PrimaryFile()
	if file == nil {
		return nil, errors.Wrapf(ErrFabricAPINotFound, "%s has no files", version.VersionNumber)
	}
	if err := minecraft.CheckPath(file.Filename); err != nil {
		return nil, errors.Wrapf(err, "fabric api file %q", file.Filename)
	}

	task := &downloadmgr.Task{
		URL:         file.URL,
		Target:      filepath.Join(m.Layout.VersionDir(name), "mods", file.Filename),
		Sha1:        file.Hashes.Sha1,
		Size:        file.Size,
		Description: file.Filename,
	}
	r.report(StageFabricAPI, 0, 1, "downloading "+file.Filename)
	if err := m.Fetcher.Fetch(ctx, task); err != nil {
		return nil, errors.Wrapf(err, "downloading fabric api %s", version.VersionNumber)
	}
	r.report(StageFabricAPI, 1, 1, "downloaded "+file.Filename)

	m.logger.Info("installed fabric api",
		zap.String("name", name),
		zap.String("fabricApi", version.VersionNumber),
	)
	return version, nil
}
