package minecraft

import (
	"regexp"
	"runtime"
	"strings"
)

// Rule is a rule that can be applied to an argument or library.
// It can be used to determine if the argument or library should be applied to a specific OS.
type Rule struct {
	Action   string          `json:"action"`
	OS       *OS             `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// OS defines the feature of an OS that can be used in a [Rule] to determine if it should be applied.
type OS struct {
	Name string `json:"name,omitempty"`
	// Version of the os (can be a regex string)
	Version string `json:"version,omitempty"`
	// Arch of the system
	Arch string `json:"arch,omitempty"`
}

const (
	ActionAllow    = "allow"
	ActionDisallow = "disallow"
)

// Evaluator decides whether platform-conditioned artifacts apply.
// The zero value matches nothing but rule-less lists; use [NewEvaluator].
type Evaluator struct {
	// OS is windows, osx or linux
	OS string
	// Arch is x64, x86, arm64 or arm
	Arch string
	// OSVersion is matched against version regexes. Empty never matches.
	OSVersion string
	// Features that are enabled. Rules with features only apply if all of them match.
	Features map[string]bool
}

// NewEvaluator returns an evaluator for the given go style os and arch
func NewEvaluator(goos string, goarch string) *Evaluator {
	return &Evaluator{
		OS:   NormalizeOS(goos),
		Arch: NormalizeArch(goarch),
	}
}

// DefaultEvaluator returns an evaluator for the current platform
func DefaultEvaluator() *Evaluator {
	return NewEvaluator(runtime.GOOS, runtime.GOARCH)
}

// NormalizeOS maps go os names to the names used in version manifests
func NormalizeOS(goos string) string {
	switch strings.ToLower(goos) {
	case "darwin", "macos", "osx":
		return "osx"
	case "windows":
		return "windows"
	case "linux":
		return "linux"
	}
	return strings.ToLower(goos)
}

// NormalizeArch maps architecture names to x64, x86, arm64 or arm
func NormalizeArch(arch string) string {
	arch = strings.ToLower(arch)
	switch {
	case arch == "amd64" || arch == "x86_64" || arch == "x64":
		return "x64"
	case arch == "386" || arch == "i386" || arch == "i686" || arch == "x86":
		return "x86"
	case strings.HasPrefix(arch, "arm") || strings.HasPrefix(arch, "aarch"):
		if strings.Contains(arch, "64") {
			return "arm64"
		}
		return "arm"
	}
	return arch
}

// Is64Bit is used for the `${arch}` placeholder in native classifiers
func (e *Evaluator) Is64Bit() bool {
	return e.Arch == "x64" || e.Arch == "arm64"
}

// Evaluate returns true if the rules allow the current platform.
// An empty list always allows. Otherwise everything is disallowed until a matching
// rule allows it. Later matching rules override earlier ones.
func (e *Evaluator) Evaluate(rules []Rule) bool {
	if len(rules) == 0 {
		return true
	}

	allowed := false
	for _, rule := range rules {
		if !rule.appliesFor(e) {
			continue
		}
		switch rule.Action {
		case ActionAllow:
			allowed = true
		case ActionDisallow:
			allowed = false
		}
	}
	return allowed
}

// appliesFor returns true if the conditions of the rule match the evaluator
func (r Rule) appliesFor(e *Evaluator) bool {
	if r.OS != nil {
		if r.OS.Name != "" && NormalizeOS(r.OS.Name) != e.OS {
			return false
		}
		if r.OS.Arch != "" && NormalizeArch(r.OS.Arch) != e.Arch {
			return false
		}
		if r.OS.Version != "" {
			if e.OSVersion == "" {
				return false
			}
			matched, err := regexp.MatchString(r.OS.Version, e.OSVersion)
			if err != nil || !matched {
				return false
			}
		}
	}

	for feature, wanted := range r.Features {
		if e.Features[feature] != wanted {
			return false
		}
	}

	return true
}
