package utils

import (
	"strings"

	"github.com/jwalton/gchalk"
)

// maxVersionWidth keeps long forge and optifine ids from breaking prompt layouts
const maxVersionWidth = 24

// PrettyVersion returns a version id for terminal printing. Unstable versions are dimmed
func PrettyVersion(version string, stable bool) string {
	// trim first to avoid broken colors
	if len(version) > maxVersionWidth {
		version = version[:maxVersionWidth-2] + " …"
	}

	if stable {
		return version + gchalk.Green(" (stable)")
	}

	parts := strings.SplitN(version, "-", 2)
	if len(parts) == 2 {
		return parts[0] + gchalk.Gray("-"+parts[1])
	}
	return gchalk.Gray(version)
}
