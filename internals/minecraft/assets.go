package minecraft

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// ErrInvalidHash is returned for asset objects without a 40 character hex sha1
var ErrInvalidHash = errors.New("invalid asset hash")

// ResourcesURL is the origin of all asset objects
const ResourcesURL = "https://resources.download.minecraft.net/"

// AssetIndex is just a map containing AssetObjects
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects,omitempty"`
	// Files is used by very old (pre 1.6) indexes
	Files map[string]AssetObject `json:"files,omitempty"`
	// Virtual indexes are copied to `assets/virtual/<id>`
	Virtual bool `json:"virtual,omitempty"`
	// MapToResources indexes are copied to the game directory
	MapToResources bool `json:"map_to_resources,omitempty"`
}

// Entries returns the objects of the index (or the legacy files map)
func (a *AssetIndex) Entries() map[string]AssetObject {
	if len(a.Objects) != 0 {
		return a.Objects
	}
	return a.Files
}

// Unique returns every object once, keyed by hash
func (a *AssetIndex) Unique() []AssetObject {
	byHash := make(map[string]AssetObject, len(a.Entries()))
	for _, obj := range a.Entries() {
		byHash[obj.Hash] = obj
	}
	return maps.Values(byHash)
}

// AssetObject is one minecraft asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Validate checks that the hash is a sha1 hex string
func (a *AssetObject) Validate() error {
	if len(a.Hash) != 40 {
		return errors.Wrap(ErrInvalidHash, a.Hash)
	}
	if _, err := hex.DecodeString(a.Hash); err != nil {
		return errors.Wrap(ErrInvalidHash, a.Hash)
	}
	return nil
}

// UnixPath returns the path including the folder
// example: fe/fe32f3b8…
// Invalid objects return an empty string.
func (a *AssetObject) UnixPath() string {
	if a.Validate() != nil {
		return ""
	}
	return a.Hash[:2] + "/" + a.Hash
}

// DownloadURL returns the download url for this asset
func (a *AssetObject) DownloadURL() string {
	return ResourcesURL + a.UnixPath()
}
