package versions

import "path/filepath"

// Layout describes the directory structure of a minecraft root directory
type Layout struct {
	Root string
}

// VersionsDir is `<root>/versions`
func (l Layout) VersionsDir() string {
	return filepath.Join(l.Root, "versions")
}

// VersionDir is `<root>/versions/<name>`
func (l Layout) VersionDir(name string) string {
	return filepath.Join(l.VersionsDir(), name)
}

// VersionJSON is `<root>/versions/<dir>/<file>.json`
func (l Layout) VersionJSON(dir string, file string) string {
	return filepath.Join(l.VersionDir(dir), file+".json")
}

// VersionJar is `<root>/versions/<dir>/<file>.jar`
func (l Layout) VersionJar(dir string, file string) string {
	return filepath.Join(l.VersionDir(dir), file+".jar")
}

// NativesDir is `<root>/versions/<name>/natives`
func (l Layout) NativesDir(name string) string {
	return filepath.Join(l.VersionDir(name), "natives")
}

// LibrariesDir is `<root>/libraries`
func (l Layout) LibrariesDir() string {
	return filepath.Join(l.Root, "libraries")
}

// AssetsDir is `<root>/assets`
func (l Layout) AssetsDir() string {
	return filepath.Join(l.Root, "assets")
}

// CacheDir holds cached metadata like the version manifest
func (l Layout) CacheDir() string {
	return filepath.Join(l.Root, ".mcinstall", "cache")
}

// ScratchDir holds temporary installer data
func (l Layout) ScratchDir() string {
	return filepath.Join(l.Root, ".mcinstall-tmp")
}
