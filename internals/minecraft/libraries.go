package minecraft

import (
	"strings"
)

const (
	// LibrariesURL is the default maven repository of vanilla libraries
	LibrariesURL     = "https://libraries.minecraft.net/"
	FabricMavenURL   = "https://maven.fabricmc.net/"
	ForgeMavenURL    = "https://maven.minecraftforge.net/"
	NeoForgeMavenURL = "https://maven.neoforged.net/releases/"
)

// Libraries as a collection of minecraft libs
type Libraries []Library

// Required returns only the libraries allowed by their rules
func (l Libraries) Required(e *Evaluator) Libraries {
	required := make(Libraries, 0, len(l))
	for _, lib := range l {
		if !e.Evaluate(lib.Rules) {
			continue
		}
		required = append(required, lib)
	}
	return required
}

// Library is a minecraft library
type Library struct {
	// Name is the maven coordinate of this library
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	// URL is the maven repository root for libraries without a downloads block
	URL string `json:"url,omitempty"`
	// Rules is a list of rules that determine whether this library should be included.
	// If no rules are specified, the library is included by default.
	Rules []Rule `json:"rules,omitempty"`
	// Natives is a map of OS names to classifier names.
	// This field is no longer used after 1.19
	Natives map[string]string `json:"natives,omitempty"`
	Extract *Extract          `json:"extract,omitempty"`

	// Sha1 and Size are set by some loader metadata instead of a downloads block
	Sha1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`

	// ClientReq and ServerReq are used by legacy forge manifests
	ClientReq *bool `json:"clientreq,omitempty"`
	ServerReq *bool `json:"serverreq,omitempty"`
}

// LibraryDownloads is the structured download block of a library
type LibraryDownloads struct {
	Artifact *Artifact `json:"artifact,omitempty"`
	// Classifiers is a list of additional artifacts.
	// It is used to download native libraries.
	Classifiers map[string]Artifact `json:"classifiers,omitempty"`
}

// Extract lists path prefixes that should not be extracted from native jars
type Extract struct {
	Exclude []string `json:"exclude,omitempty"`
}

// Coordinate parses the name of this library
func (l *Library) Coordinate() (Coordinate, error) {
	return ParseCoordinate(l.Name)
}

// DedupKey is the identity used when merging manifests.
// It is `group:artifact` unless the name carries a classifier.
func (l *Library) DedupKey() string {
	c, err := l.Coordinate()
	if err != nil {
		return l.Name
	}
	if c.Classifier != "" {
		return l.Name
	}
	return c.Key()
}

// HasClassifier is true if the name carries a classifier
func (l *Library) HasClassifier() bool {
	c, err := l.Coordinate()
	return err == nil && c.Classifier != ""
}

// MainArtifact returns the structured artifact if there is one
func (l *Library) MainArtifact() *Artifact {
	if l.Downloads == nil {
		return nil
	}
	return l.Downloads.Artifact
}

// NativeClassifier returns the natives classifier for the evaluated platform.
// `${arch}` is replaced by 64 or 32.
func (l *Library) NativeClassifier(e *Evaluator) string {
	classifier := l.Natives[e.OS]
	if classifier == "" {
		return ""
	}
	bits := "32"
	if e.Is64Bit() {
		bits = "64"
	}
	return strings.ReplaceAll(classifier, "${arch}", bits)
}

// Filepath returns the slash separated path relative to the libraries folder
func (l *Library) Filepath() string {
	if a := l.MainArtifact(); a != nil && a.Path != "" {
		return a.Path
	}
	path, err := MavenPath(l.Name)
	if err != nil {
		return ""
	}
	return path
}

// DownloadURL returns the download url of the main artifact
func (l *Library) DownloadURL() string {
	if a := l.MainArtifact(); a != nil {
		// an empty url means a processor produces this file
		return a.URL
	}
	base := l.URL
	if base == "" {
		base = RepositoryFor(l.Name)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + l.Filepath()
}

// RepositoryFor returns the default maven repository for a library name
func RepositoryFor(name string) string {
	switch {
	case strings.HasPrefix(name, "net.fabricmc:"):
		return FabricMavenURL
	case strings.HasPrefix(name, "net.neoforged"):
		return NeoForgeMavenURL
	case strings.HasPrefix(name, "net.minecraftforge:"), strings.HasPrefix(name, "cpw.mods:"):
		return ForgeMavenURL
	}
	return LibrariesURL
}
