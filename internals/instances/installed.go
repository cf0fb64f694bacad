package instances

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// MetadataFile is written next to the json of every version installed by this tool
const MetadataFile = "mcinstall.toml"

// LoaderVanilla is the loader type of unmodified versions
const LoaderVanilla = "vanilla"

// Metadata describes how a version was installed. Pack is only set for modrinth pack installs
type Metadata struct {
	Name             string    `toml:"name" json:"name" yaml:"name"`
	MinecraftVersion string    `toml:"minecraft_version" json:"minecraftVersion" yaml:"minecraftVersion"`
	Loader           string    `toml:"loader" json:"loader" yaml:"loader"`
	LoaderVersion    string    `toml:"loader_version,omitempty" json:"loaderVersion,omitempty" yaml:"loaderVersion,omitempty"`
	FabricAPIVersion string    `toml:"fabric_api_version,omitempty" json:"fabricApiVersion,omitempty" yaml:"fabricApiVersion,omitempty"`
	Pack             string    `toml:"pack,omitempty" json:"pack,omitempty" yaml:"pack,omitempty"`
	PackVersion      string    `toml:"pack_version,omitempty" json:"packVersion,omitempty" yaml:"packVersion,omitempty"`
	InstalledAt      time.Time `toml:"installed_at" json:"installedAt" yaml:"installedAt"`
}

// WriteMetadata writes `<dir>/mcinstall.toml`
func WriteMetadata(dir string, meta *Metadata) error {
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Order(toml.OrderPreserve).Encode(meta); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetadataFile), buf.Bytes(), 0644)
}

// ReadMetadata reads `<dir>/mcinstall.toml`
func ReadMetadata(dir string) (*Metadata, error) {
	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	meta := &Metadata{}
	if err := toml.Unmarshal(raw, meta); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", MetadataFile)
	}
	return meta, nil
}

// InstalledVersion is a version found in the versions directory
type InstalledVersion struct {
	ID         string `json:"id" yaml:"id"`
	LoaderType string `json:"loaderType" yaml:"loaderType"`
	// Type is the version type of the json (release, snapshot, …)
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	JarExists  bool   `json:"jarExists" yaml:"jarExists"`
	JSONExists bool   `json:"jsonExists" yaml:"jsonExists"`
	// Metadata is only set for versions installed by this tool
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Complete returns true if both the jar and the json exist
func (i *InstalledVersion) Complete() bool {
	return i.JarExists && i.JSONExists
}

// ListInstalledVersions scans `versions/` for directories containing `<name>.json` or `<name>.jar`
func (m *Manager) ListInstalledVersions() ([]InstalledVersion, error) {
	entries, err := os.ReadDir(m.Layout.VersionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []InstalledVersion{}, nil
		}
		return nil, err
	}

	installed := make([]InstalledVersion, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		version, ok := m.inspect(entry.Name())
		if ok {
			installed = append(installed, version)
		}
	}

	slices.SortFunc(installed, func(a, b InstalledVersion) bool {
		return a.ID < b.ID
	})
	return installed, nil
}

// Installed returns the installed version called name
func (m *Manager) Installed(name string) (*InstalledVersion, error) {
	version, ok := m.inspect(name)
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "version %s", name)
	}
	return &version, nil
}

func (m *Manager) inspect(name string) (InstalledVersion, bool) {
	version := InstalledVersion{
		ID:         name,
		JarExists:  fileExists(m.Layout.VersionJar(name, name)),
		JSONExists: fileExists(m.Layout.VersionJSON(name, name)),
	}
	if !version.JarExists && !version.JSONExists {
		return version, false
	}

	if meta, err := ReadMetadata(m.Layout.VersionDir(name)); err == nil {
		version.Metadata = meta
		version.LoaderType = meta.Loader
	}

	if version.JSONExists {
		if manifest, err := m.Resolver.ReadInstalled(name); err == nil {
			version.Type = manifest.Type
			if version.LoaderType == "" {
				version.LoaderType = DetectLoader(manifest)
			}
		}
	}
	if version.LoaderType == "" {
		version.LoaderType = LoaderVanilla
	}
	return version, true
}

// DetectLoader guesses the loader of a version json without install metadata
func DetectLoader(m *minecraft.LaunchManifest) string {
	mainClass := strings.ToLower(m.MainClass)
	switch {
	case strings.Contains(mainClass, "fabricmc"):
		return loaders.Fabric.String()
	case strings.Contains(mainClass, "launchwrapper") && hasLibrary(m, "optifine:"):
		return loaders.OptiFine.String()
	case hasLibrary(m, "net.neoforged"):
		return loaders.NeoForge.String()
	case hasLibrary(m, "net.minecraftforge:forge") || hasLibrary(m, "net.minecraftforge:fmlloader"):
		return loaders.Forge.String()
	case hasLibrary(m, "optifine:"):
		return loaders.OptiFine.String()
	}
	return LoaderVanilla
}

func hasLibrary(m *minecraft.LaunchManifest, prefix string) bool {
	for _, lib := range m.Libraries {
		if strings.HasPrefix(strings.ToLower(lib.Name), prefix) {
			return true
		}
	}
	return false
}

// Classpath returns the classpath of an installed version, including the jars of
// every installed version in its inheritsFrom chain
func (m *Manager) Classpath(name string) ([]string, error) {
	manifest, err := m.Resolver.ReadInstalled(name)
	if err != nil {
		return nil, err
	}
	chain, err := m.Resolver.ResolveInherited(manifest)
	if err != nil {
		return nil, err
	}

	paths := minecraft.Classpath(chain, m.Acquirer.Evaluator, m.Layout.LibrariesDir())
	// version jars go last, parents before children
	jars := 0
	for _, version := range chain {
		jar := m.Layout.VersionJar(version.ID, version.ID)
		if fileExists(jar) {
			paths = append(paths, jar)
			jars++
		}
	}
	if jars == 0 {
		paths = append(paths, m.Layout.VersionJar(chain[0].ID, chain[0].ID))
	}
	return paths, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
