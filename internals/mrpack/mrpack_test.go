package mrpack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/pkg/errors"
)

func writePack(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.mrpack")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	w := zip.NewWriter(out)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

const fabricIndex = `{
	"formatVersion": 1,
	"game": "minecraft",
	"versionId": "5.1.0",
	"name": "Tiny Pack",
	"files": [
		{
			"path": "mods/sodium.jar",
			"hashes": {"sha1": "0000000000000000000000000000000000000001", "sha512": "ff"},
			"env": {"client": "required", "server": "unsupported"},
			"downloads": ["https://cdn.modrinth.com/data/AANobbMI/versions/1/sodium.jar"],
			"fileSize": 10
		},
		{
			"path": "mods/server-only.jar",
			"hashes": {"sha1": "0000000000000000000000000000000000000002"},
			"env": {"client": "unsupported", "server": "required"},
			"downloads": ["https://cdn.modrinth.com/data/x/versions/1/server-only.jar"],
			"fileSize": 5
		},
		{
			"path": "config/no-env.json",
			"hashes": {"sha1": "0000000000000000000000000000000000000003"},
			"downloads": ["https://cdn.modrinth.com/data/y/versions/1/no-env.json"],
			"fileSize": 2
		}
	],
	"dependencies": {"minecraft": "1.20.1", "fabric-loader": "0.16.10"}
}`

func TestOpen(t *testing.T) {
	pack, err := Open(writePack(t, map[string]string{
		IndexFile:               fabricIndex,
		"overrides/options.txt": "fov:90",
	}))
	if err != nil {
		t.Fatal(err)
	}

	index := pack.Index
	if index.Name != "Tiny Pack" || index.VersionID != "5.1.0" || index.MinecraftVersion() != "1.20.1" {
		t.Errorf("unexpected index %+v", index)
	}
	kind, version, err := index.Loader()
	if err != nil || kind != loaders.Fabric || version != "0.16.10" {
		t.Errorf("Loader() = %s %s %v", kind, version, err)
	}

	files := index.ClientFiles()
	if len(files) != 2 || files[0].Path != "mods/sodium.jar" || files[1].Path != "config/no-env.json" {
		t.Errorf("unexpected client files %+v", files)
	}
	if files[0].Hashes.Sha1 != "0000000000000000000000000000000000000001" || files[0].FileSize != 10 {
		t.Errorf("unexpected file %+v", files[0])
	}
}

func TestOpen_missingIndex(t *testing.T) {
	_, err := Open(writePack(t, map[string]string{"overrides/options.txt": "fov:90"}))
	if !errors.Is(err, ErrMissingIndex) {
		t.Errorf("expected ErrMissingIndex, got %v", err)
	}
}

func TestIndex_Validate(t *testing.T) {
	valid := func() Index {
		return Index{
			FormatVersion: 1,
			Game:          "minecraft",
			Dependencies:  map[string]string{"minecraft": "1.20.1"},
			Files: []File{{
				Path:      "mods/a.jar",
				Downloads: []string{"https://cdn.modrinth.com/a.jar"},
			}},
		}
	}

	tests := []struct {
		name   string
		modify func(i *Index)
		ok     bool
	}{
		{"valid", func(i *Index) {}, true},
		{"format version", func(i *Index) { i.FormatVersion = 2 }, false},
		{"game", func(i *Index) { i.Game = "terraria" }, false},
		{"no minecraft", func(i *Index) { delete(i.Dependencies, "minecraft") }, false},
		{"path traversal", func(i *Index) { i.Files[0].Path = "../../.bashrc" }, false},
		{"absolute path", func(i *Index) { i.Files[0].Path = "/etc/passwd" }, false},
		{"no downloads", func(i *Index) { i.Files[0].Downloads = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := valid()
			tt.modify(&index)
			err := index.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidPack) {
				t.Fatalf("expected ErrInvalidPack, got %v", err)
			}
		})
	}
}

func TestIndex_Loader(t *testing.T) {
	tests := []struct {
		deps    map[string]string
		kind    loaders.Kind
		version string
		wantErr error
	}{
		{map[string]string{"minecraft": "1.20.1"}, 0, "", nil},
		{map[string]string{"minecraft": "1.20.1", "forge": "47.2.0"}, loaders.Forge, "47.2.0", nil},
		{map[string]string{"minecraft": "1.20.1", "neoforge": "47.1.106"}, loaders.NeoForge, "47.1.106", nil},
		{map[string]string{"minecraft": "1.20.1", "quilt-loader": "0.21.0"}, 0, "", ErrUnsupportedLoader},
	}
	for _, tt := range tests {
		index := &Index{Dependencies: tt.deps}
		kind, version, err := index.Loader()
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%v: expected %v, got %v", tt.deps, tt.wantErr, err)
			}
			continue
		}
		if err != nil || kind != tt.kind || version != tt.version {
			t.Errorf("%v: Loader() = %s %s %v", tt.deps, kind, version, err)
		}
	}
}
