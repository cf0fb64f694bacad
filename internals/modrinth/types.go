package modrinth

import "time"

// Version types
const (
	VersionRelease = "release"
	VersionBeta    = "beta"
	VersionAlpha   = "alpha"
)

type File struct {
	Hashes   Hashes `json:"hashes"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
}

type Hashes struct {
	Sha512 string `json:"sha512,omitempty"`
	Sha1   string `json:"sha1"`
}

type Version struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Featured      bool      `json:"featured"`
	Name          string    `json:"name"`
	VersionNumber string    `json:"version_number"`
	DatePublished time.Time `json:"date_published"`
	Downloads     int       `json:"downloads"`
	VersionType   string    `json:"version_type"`
	Files         []File    `json:"files"`
	GameVersions  []string  `json:"game_versions"`
	Loaders       []string  `json:"loaders"`
}

// Stable is true for release versions
func (v *Version) Stable() bool {
	return v.VersionType == VersionRelease
}

// PrimaryFile returns the file marked as primary, or the first one
func (v *Version) PrimaryFile() *File {
	for i := range v.Files {
		if v.Files[i].Primary {
			return &v.Files[i]
		}
	}
	if len(v.Files) == 0 {
		return nil
	}
	return &v.Files[0]
}
