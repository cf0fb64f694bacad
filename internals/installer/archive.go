package installer

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dchest/uniuri"
	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
	"github.com/pkg/errors"
)

const (
	profileFile = "install_profile.json"
	versionFile = "version.json"
)

var (
	// ErrMissingProfile is returned for installer jars without an install_profile.json
	ErrMissingProfile = errors.New("installer contains no install_profile.json")
	// ErrFileNotFound is returned when a requested file is not part of an archive
	ErrFileNotFound = errors.New("file not found in archive")
)

// Archive is an opened installer jar
type Archive struct {
	Path    string
	Profile *Profile
	// VersionJSON is the raw version.json (nil for legacy installers)
	VersionJSON []byte
}

// Extract reads the installer at path. Bundled `maven/` files are written to librariesDir,
// `data/` files to `<scratchDir>/data`.
func Extract(path string, librariesDir string, scratchDir string) (*Archive, error) {
	archive := &Archive{Path: path}
	var rawProfile []byte

	err := archiver.NewZip().Walk(path, func(f archiver.File) error {
		if f.IsDir() {
			return nil
		}
		name := entryName(f)

		switch {
		case name == profileFile:
			raw, err := io.ReadAll(f)
			rawProfile = raw
			return err
		case name == versionFile:
			raw, err := io.ReadAll(f)
			archive.VersionJSON = raw
			return err
		case strings.HasPrefix(name, "maven/"):
			target, err := safeJoin(librariesDir, strings.TrimPrefix(name, "maven/"))
			if err != nil {
				return err
			}
			return writeFile(target, f, f.Size())
		case strings.HasPrefix(name, "data/"):
			target, err := safeJoin(scratchDir, name)
			if err != nil {
				return err
			}
			return writeFile(target, f, -1)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading installer %s", filepath.Base(path))
	}

	if rawProfile == nil {
		return nil, ErrMissingProfile
	}
	profile, err := ParseProfile(rawProfile)
	if err != nil {
		return nil, err
	}
	archive.Profile = profile
	return archive, nil
}

// ExtractFile writes the first entry whose name equals name (or ends with `/name`) to target
func ExtractFile(path string, name string, target string) error {
	found := false
	err := archiver.NewZip().Walk(path, func(f archiver.File) error {
		if f.IsDir() {
			return nil
		}
		entry := entryName(f)
		if entry != name && !strings.HasSuffix(entry, "/"+name) {
			return nil
		}
		found = true
		if err := writeFile(target, f, -1); err != nil {
			return err
		}
		return archiver.ErrStopWalk
	})
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrap(ErrFileNotFound, name)
	}
	return nil
}

// ExtractDir writes every file below prefix (like `overrides/`) into dir, keeping the
// path after the prefix. Existing files are replaced. It returns the number of written files.
func ExtractDir(path string, prefix string, dir string) (int, error) {
	written := 0
	err := archiver.NewZip().Walk(path, func(f archiver.File) error {
		if f.IsDir() {
			return nil
		}
		name := entryName(f)
		if !strings.HasPrefix(name, prefix) || name == prefix {
			return nil
		}
		target, err := safeJoin(dir, strings.TrimPrefix(name, prefix))
		if err != nil {
			return err
		}
		if err := writeFile(target, f, -1); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return written, errors.Wrapf(err, "extracting %s from %s", prefix, filepath.Base(path))
	}
	return written, nil
}

// entryName is the full slash separated path of a zip entry
func entryName(f archiver.File) string {
	switch header := f.Header.(type) {
	case zip.FileHeader:
		return header.Name
	case *zip.FileHeader:
		return header.Name
	}
	return f.Name()
}

func safeJoin(dir string, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(filepath.Separator)) {
		return "", errors.Errorf("illegal file path in archive: %s", name)
	}
	return target, nil
}

// writeFile copies r to target. Existing files with the same size are kept if size >= 0.
// The content is written to a temporary file first and renamed into place.
func writeFile(target string, r io.Reader, size int64) error {
	if size >= 0 {
		if info, err := os.Stat(target); err == nil && info.Size() == size {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return err
	}
	tmp := target + "." + uniuri.NewLen(8) + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
