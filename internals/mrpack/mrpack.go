// Package mrpack reads modrinth modpacks (`.mrpack` files)
package mrpack

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/modrinth"
	"github.com/pkg/errors"
)

const (
	// IndexFile is the pack description at the root of every mrpack
	IndexFile = "modrinth.index.json"
	// OverridesDir is copied into the instance directory
	OverridesDir = "overrides/"
	// ClientOverridesDir is copied after OverridesDir and replaces its files
	ClientOverridesDir = "client-overrides/"
)

// Env values of a file
const (
	EnvRequired    = "required"
	EnvOptional    = "optional"
	EnvUnsupported = "unsupported"
)

var (
	// ErrMissingIndex is returned for archives without a modrinth.index.json
	ErrMissingIndex = errors.New("not a modrinth pack: missing " + IndexFile)
	// ErrInvalidPack is returned for indexes that can not be installed
	ErrInvalidPack = errors.New("invalid modrinth pack")
	// ErrUnsupportedLoader is returned for packs that need a loader this tool can not install
	ErrUnsupportedLoader = errors.New("unsupported pack loader")
)

// Index is the content of modrinth.index.json
type Index struct {
	FormatVersion int               `json:"formatVersion"`
	Game          string            `json:"game"`
	VersionID     string            `json:"versionId"`
	Name          string            `json:"name"`
	Summary       string            `json:"summary,omitempty"`
	Files         []File            `json:"files"`
	Dependencies  map[string]string `json:"dependencies"`
}

// File is a file that has to be downloaded into the instance
type File struct {
	// Path is relative to the instance directory
	Path      string          `json:"path"`
	Hashes    modrinth.Hashes `json:"hashes"`
	Env       *Env            `json:"env,omitempty"`
	Downloads []string        `json:"downloads"`
	FileSize  int64           `json:"fileSize"`
}

// Env tells on which side a file is needed
type Env struct {
	Client string `json:"client"`
	Server string `json:"server"`
}

// ClientSide is false for server only files
func (f *File) ClientSide() bool {
	return f.Env == nil || f.Env.Client != EnvUnsupported
}

// Pack is an opened mrpack
type Pack struct {
	Path  string
	Index *Index
}

// Open reads and validates the index of the mrpack at path
func Open(path string) (*Pack, error) {
	var raw []byte
	err := archiver.NewZip().Walk(path, func(f archiver.File) error {
		name := f.Name()
		if header, ok := f.Header.(zip.FileHeader); ok {
			name = header.Name
		}
		if name != IndexFile {
			return nil
		}
		content, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		raw = content
		return archiver.ErrStopWalk
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filepath.Base(path))
	}
	if raw == nil {
		return nil, ErrMissingIndex
	}

	index := &Index{}
	if err := json.Unmarshal(raw, index); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", IndexFile)
	}
	if err := index.Validate(); err != nil {
		return nil, err
	}
	return &Pack{Path: path, Index: index}, nil
}

// Validate checks the format version, the minecraft dependency and every file path
func (i *Index) Validate() error {
	if i.FormatVersion != 1 {
		return errors.Wrapf(ErrInvalidPack, "unsupported format version %d", i.FormatVersion)
	}
	if i.Game != "minecraft" {
		return errors.Wrapf(ErrInvalidPack, "unsupported game %q", i.Game)
	}
	if i.MinecraftVersion() == "" {
		return errors.Wrap(ErrInvalidPack, "no minecraft dependency")
	}
	for _, f := range i.Files {
		if err := minecraft.CheckPath(f.Path); err != nil {
			return errors.Wrapf(ErrInvalidPack, "file %s: %s", f.Path, err)
		}
		if len(f.Downloads) == 0 {
			return errors.Wrapf(ErrInvalidPack, "file %s has no downloads", f.Path)
		}
	}
	return nil
}

// MinecraftVersion returns the minecraft dependency
func (i *Index) MinecraftVersion() string {
	return strings.TrimSpace(i.Dependencies["minecraft"])
}

// Loader returns the loader and loader version of the pack.
// Packs without a loader dependency return 0 and no error.
func (i *Index) Loader() (loaders.Kind, string, error) {
	deps := map[string]loaders.Kind{
		"fabric-loader": loaders.Fabric,
		"forge":         loaders.Forge,
		"neoforge":      loaders.NeoForge,
	}
	for _, name := range []string{"fabric-loader", "forge", "neoforge"} {
		if version, ok := i.Dependencies[name]; ok {
			return deps[name], version, nil
		}
	}
	if version, ok := i.Dependencies["quilt-loader"]; ok {
		return 0, "", errors.Wrapf(ErrUnsupportedLoader, "quilt-loader %s", version)
	}
	return 0, "", nil
}

// ClientFiles returns the files needed on the client
func (i *Index) ClientFiles() []File {
	files := make([]File, 0, len(i.Files))
	for _, f := range i.Files {
		if f.ClientSide() {
			files = append(files, f)
		}
	}
	return files
}
