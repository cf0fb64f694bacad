package installer

import (
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
)

// ErrNotLegacy is returned by InstallLegacy for modern installers
var ErrNotLegacy = errors.New("not a legacy installer")

// InstallLegacy extracts the universal jar of a legacy installer into the libraries directory
// and returns the embedded versionInfo as overlay descriptor.
func InstallLegacy(archive *Archive, librariesDir string) (*minecraft.LaunchManifest, error) {
	profile := archive.Profile
	if !profile.IsLegacy() {
		return nil, ErrNotLegacy
	}
	install := profile.Install

	target, err := mavenFile(librariesDir, install.Path)
	if err != nil {
		return nil, errors.Wrap(err, "invalid universal jar coordinate")
	}
	name := install.FilePath
	if name == "" {
		name = filepath.Base(target)
	}
	if err := ExtractFile(archive.Path, name, target); err != nil {
		return nil, errors.Wrap(err, "extracting universal jar")
	}

	overlay := profile.VersionInfo.Clone()
	libs := make(minecraft.Libraries, 0, len(overlay.Libraries))
	for _, lib := range overlay.Libraries {
		if lib.ClientReq != nil && !*lib.ClientReq {
			continue
		}
		if lib.Name == install.Path {
			// extracted above, nothing to download
			path, _ := minecraft.MavenPath(lib.Name)
			lib.URL = ""
			lib.Downloads = &minecraft.LibraryDownloads{Artifact: &minecraft.Artifact{Path: path}}
		}
		libs = append(libs, lib)
	}
	overlay.Libraries = libs
	return overlay, nil
}
