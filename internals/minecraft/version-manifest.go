package minecraft

import "golang.org/x/exp/slices"

const (
	// TypeSnapshot is a snapshot release
	TypeSnapshot = "snapshot"
	// TypeRelease is a full "normal" release
	TypeRelease = "release"
	// TypeOldBeta is a "old_beta" release
	TypeOldBeta = "old_beta"
	// TypeOldAlpha is a "old_alpha" release
	TypeOldAlpha = "old_alpha"
)

// VersionManifest is the global version index (version_manifest_v2.json)
type VersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

// ManifestVersion is one entry in the version manifest
type ManifestVersion struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	URL             string `json:"url"`
	Sha1            string `json:"sha1,omitempty"`
	Time            string `json:"time,omitempty"`
	ReleaseTime     string `json:"releaseTime,omitempty"`
	ComplianceLevel int    `json:"complianceLevel,omitempty"`
}

// Find returns the entry with the given id or nil
func (v *VersionManifest) Find(id string) *ManifestVersion {
	for i := range v.Versions {
		if v.Versions[i].ID == id {
			return &v.Versions[i]
		}
	}
	return nil
}

// Filter returns all versions matching one of the given types.
// No types returns everything.
func (v *VersionManifest) Filter(types ...string) []ManifestVersion {
	if len(types) == 0 {
		return append([]ManifestVersion(nil), v.Versions...)
	}
	filtered := make([]ManifestVersion, 0, len(v.Versions))
	for _, version := range v.Versions {
		if slices.Contains(types, version.Type) {
			filtered = append(filtered, version)
		}
	}
	return filtered
}
