package acquire

import (
	"github.com/minepkg/mcinstall/internals/minecraft"
)

// ResolvedLibrary is one file of a library, no matter how the library was described
type ResolvedLibrary struct {
	Name string
	// Path is slash separated and relative to the libraries directory
	Path string
	// URL is empty for files that are produced by an installer processor
	URL  string
	Sha1 string
	Size int64
	// Native files get extracted into the natives directory
	Native  bool
	Exclude []string
}

// Normalize turns a library into the files it needs on the evaluated platform.
// Libraries excluded by their rules return nil.
//
// Libraries either come with a `downloads` block (vanilla, forge) or only a `name`
// and an optional maven `url` (fabric, legacy forge). Natives are resolved by the `natives` map.
func Normalize(lib *minecraft.Library, e *minecraft.Evaluator) []ResolvedLibrary {
	if !e.Evaluate(lib.Rules) {
		return nil
	}

	resolved := make([]ResolvedLibrary, 0, 2)

	switch artifact := lib.MainArtifact(); {
	case artifact != nil:
		path := artifact.Path
		if path == "" {
			path = lib.Filepath()
		}
		if path != "" {
			resolved = append(resolved, ResolvedLibrary{
				Name: lib.Name,
				Path: path,
				URL:  artifact.URL,
				Sha1: artifact.Sha1,
				Size: artifact.Size,
			})
		}
	case lib.Downloads == nil && lib.Name != "":
		if path := lib.Filepath(); path != "" {
			resolved = append(resolved, ResolvedLibrary{
				Name: lib.Name,
				Path: path,
				URL:  lib.DownloadURL(),
				Sha1: lib.Sha1,
				Size: lib.Size,
			})
		}
	}

	if native, ok := lib.NativeArtifact(e); ok {
		var exclude []string
		if lib.Extract != nil {
			exclude = lib.Extract.Exclude
		}
		resolved = append(resolved, ResolvedLibrary{
			Name:    lib.Name,
			Path:    native.Path,
			URL:     native.URL,
			Sha1:    native.Sha1,
			Size:    native.Size,
			Native:  true,
			Exclude: exclude,
		})
	}

	return resolved
}

// NormalizeAll normalizes every library. Files with the same path are only returned once
func NormalizeAll(libs minecraft.Libraries, e *minecraft.Evaluator) []ResolvedLibrary {
	seen := make(map[string]bool, len(libs))
	all := make([]ResolvedLibrary, 0, len(libs))
	for i := range libs {
		for _, r := range Normalize(&libs[i], e) {
			if seen[r.Path] {
				continue
			}
			seen[r.Path] = true
			all = append(all, r)
		}
	}
	return all
}
