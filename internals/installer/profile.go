package installer

import (
	"encoding/json"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// SideClient is the only side processors are run for
const SideClient = "client"

// Profile is the install_profile.json of a forge or neoforge installer
type Profile struct {
	Spec      int    `json:"spec"`
	Profile   string `json:"profile"`
	Version   string `json:"version"`
	Minecraft string `json:"minecraft"`
	// JSON is the path of the version json inside the installer, usually `/version.json`
	JSON       string               `json:"json"`
	Path       string               `json:"path"`
	Data       map[string]DataEntry `json:"data"`
	Processors []Processor          `json:"processors"`
	Libraries  minecraft.Libraries  `json:"libraries"`

	// Install and VersionInfo are only set by legacy (pre 1.13) installers
	Install     *LegacyInstall            `json:"install,omitempty"`
	VersionInfo *minecraft.LaunchManifest `json:"versionInfo,omitempty"`
}

// IsLegacy is true for installers without processors that ship the universal jar
func (p *Profile) IsLegacy() bool {
	return p.Install != nil && p.VersionInfo != nil
}

// LegacyInstall is the `install` block of legacy installers
type LegacyInstall struct {
	ProfileName string `json:"profileName"`
	Target      string `json:"target"`
	// Path is the maven coordinate of the universal jar
	Path      string `json:"path"`
	Version   string `json:"version"`
	FilePath  string `json:"filePath"`
	Minecraft string `json:"minecraft"`
}

// DataEntry is one value of the profile's data table
type DataEntry struct {
	Client string `json:"client"`
	Server string `json:"server"`
}

// UnmarshalJSON accepts a plain string (used for both sides) or a {client, server} object
func (d *DataEntry) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		d.Client = plain
		d.Server = plain
		return nil
	}
	type entry DataEntry
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	*d = DataEntry(e)
	return nil
}

// Processor is one step of the processor chain
type Processor struct {
	// Jar is the maven coordinate of the processor jar
	Jar       string   `json:"jar"`
	Classpath []string `json:"classpath"`
	Args      []string `json:"args"`
	// Sides the processor runs on. Empty means every side
	Sides []string `json:"sides,omitempty"`
	// Outputs maps produced files to their expected sha1, both may contain variables
	Outputs map[string]string `json:"outputs,omitempty"`
}

// RunsOn returns true if the processor should run for side
func (p *Processor) RunsOn(side string) bool {
	return len(p.Sides) == 0 || slices.Contains(p.Sides, side)
}

// ParseProfile parses an install_profile.json
func ParseProfile(raw []byte) (*Profile, error) {
	profile := &Profile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		return nil, errors.Wrap(err, "parsing install profile")
	}
	return profile, nil
}
