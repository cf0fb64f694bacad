package loaders

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	// ErrNoVersions is returned when a loader has no versions for a minecraft version
	ErrNoVersions = errors.New("no loader versions available")
	// ErrVersionNotFound is returned for unknown loader versions
	ErrVersionNotFound = errors.New("loader version not found")
)

// Version is one installable loader version
type Version struct {
	ID               string `json:"id" yaml:"id"`
	MinecraftVersion string `json:"minecraftVersion" yaml:"minecraftVersion"`
	Stable           bool   `json:"stable" yaml:"stable"`
	// Branch is only used by old forge versions
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
	// Type and Patch are only used by optifine
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Patch string `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// SortVersions sorts versions newest first
func SortVersions(versions []Version) {
	slices.SortStableFunc(versions, func(a, b Version) bool {
		return CompareVersions(a.ID, b.ID) > 0
	})
}

// CompareVersions compares two version strings. Semver is used if both parse,
// otherwise the dot separated parts are compared numerically (forge uses 4 parts).
func CompareVersions(a string, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	partsA := strings.FieldsFunc(a, isSeparator)
	partsB := strings.FieldsFunc(b, isSeparator)
	for i := 0; i < len(partsA) && i < len(partsB); i++ {
		if c := comparePart(partsA[i], partsB[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(partsA) < len(partsB):
		return -1
	case len(partsA) > len(partsB):
		return 1
	}
	return 0
}

func isSeparator(r rune) bool {
	return r == '.' || r == '-' || r == '_' || r == '+'
}

func comparePart(a string, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		// numbers are newer than pre release labels
		return 1
	case errB == nil:
		return -1
	}
	return strings.Compare(a, b)
}

// Latest returns the newest stable version, or the newest one if none is stable.
// versions have to be sorted.
func Latest(versions []Version) (Version, error) {
	if len(versions) == 0 {
		return Version{}, ErrNoVersions
	}
	for _, v := range versions {
		if v.Stable {
			return v, nil
		}
	}
	return versions[0], nil
}

// Find returns the version with the given id
func Find(versions []Version, id string) (Version, error) {
	for _, v := range versions {
		if v.ID == id {
			return v, nil
		}
	}
	return Version{}, errors.Wrap(ErrVersionNotFound, id)
}
