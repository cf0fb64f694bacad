package minecraft

import (
	"os"
	"path/filepath"
	"strings"
)

// Classpath returns the ordered library paths for a manifest chain.
// The chain has to be ordered root first (the vanilla manifest comes first).
// When two libraries share a `group:artifact` key the later one replaces the earlier one in place.
// Entries with a classifier (natives) are never deduplicated.
func Classpath(chain []*LaunchManifest, e *Evaluator, librariesDir string) []string {
	paths := make([]string, 0)
	positions := make(map[string]int)

	add := func(key string, relPath string) {
		if CheckPath(relPath) != nil {
			return
		}
		full := filepath.Join(librariesDir, filepath.FromSlash(relPath))
		if key != "" {
			if i, ok := positions[key]; ok {
				paths[i] = full
				return
			}
			positions[key] = len(paths)
		}
		paths = append(paths, full)
	}

	for _, manifest := range chain {
		for _, lib := range manifest.Libraries.Required(e) {
			lib := lib
			if classifier := lib.NativeClassifier(e); classifier != "" {
				add("", nativePath(&lib, classifier))
				if lib.MainArtifact() == nil {
					continue
				}
			}

			key := lib.DedupKey()
			if lib.HasClassifier() {
				key = ""
			}
			add(key, lib.Filepath())
		}
	}
	return paths
}

// JoinClasspath joins the paths with the platform separator
func JoinClasspath(paths []string) string {
	return strings.Join(paths, string(os.PathListSeparator))
}

// nativePath returns the slash separated path of a natives classifier
func nativePath(lib *Library, classifier string) string {
	if lib.Downloads != nil {
		if native, ok := lib.Downloads.Classifiers[classifier]; ok && native.Path != "" {
			return native.Path
		}
	}
	c, err := lib.Coordinate()
	if err != nil {
		return ""
	}
	return c.WithClassifier(classifier).Path()
}

// NativeArtifact returns the natives artifact (including a derived url) for the evaluated platform.
// The second return value is false if the library has no natives for this platform.
func (l *Library) NativeArtifact(e *Evaluator) (Artifact, bool) {
	classifier := l.NativeClassifier(e)
	if classifier == "" {
		return Artifact{}, false
	}
	if l.Downloads != nil {
		if native, ok := l.Downloads.Classifiers[classifier]; ok {
			if native.Path == "" {
				native.Path = nativePath(l, classifier)
			}
			return native, true
		}
	}

	path := nativePath(l, classifier)
	if path == "" {
		return Artifact{}, false
	}
	base := l.URL
	if base == "" {
		base = RepositoryFor(l.Name)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Artifact{Path: path, URL: base + path}, true
}
