package minecraft

import (
	"encoding/json"
)

// LaunchManifest is a version.json descriptor. It describes one launchable version
// (vanilla or patched by a loader) including its libraries, arguments and assets.
type LaunchManifest struct {
	ID           string `json:"id"`
	InheritsFrom string `json:"inheritsFrom,omitempty"`
	// Type is release, snapshot, old_beta or old_alpha
	Type      string `json:"type,omitempty"`
	MainClass string `json:"mainClass,omitempty"`
	// MinecraftArguments are used before 1.13
	MinecraftArguments string `json:"minecraftArguments,omitempty"`
	// Arguments is the new (complicated) system
	Arguments   *Arguments     `json:"arguments,omitempty"`
	Downloads   *Downloads     `json:"downloads,omitempty"`
	Libraries   Libraries      `json:"libraries"`
	Assets      string         `json:"assets,omitempty"`
	AssetIndex  *AssetIndexRef `json:"assetIndex,omitempty"`
	JavaVersion *JavaVersion   `json:"javaVersion,omitempty"`
	Jar         string         `json:"jar,omitempty"`

	ComplianceLevel        int             `json:"complianceLevel,omitempty"`
	MinimumLauncherVersion int             `json:"minimumLauncherVersion,omitempty"`
	Time                   string          `json:"time,omitempty"`
	ReleaseTime            string          `json:"releaseTime,omitempty"`
	Logging                json.RawMessage `json:"logging,omitempty"`
}

// Arguments contains the game and jvm arguments of a manifest
type Arguments struct {
	Game []Argument `json:"game,omitempty"`
	JVM  []Argument `json:"jvm,omitempty"`
}

// Downloads are the client and server jars of a vanilla manifest
type Downloads struct {
	Client         *Artifact `json:"client,omitempty"`
	ClientMappings *Artifact `json:"client_mappings,omitempty"`
	Server         *Artifact `json:"server,omitempty"`
	ServerMappings *Artifact `json:"server_mappings,omitempty"`
}

// AssetIndexRef points to the asset index json of a version
type AssetIndexRef struct {
	ID        string `json:"id"`
	Sha1      string `json:"sha1,omitempty"`
	Size      int64  `json:"size,omitempty"`
	TotalSize int64  `json:"totalSize,omitempty"`
	URL       string `json:"url"`
}

// JavaVersion is read but not enforced
type JavaVersion struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

// MinecraftVersion returns the vanilla version this manifest is based on
func (l *LaunchManifest) MinecraftVersion() string {
	if l.InheritsFrom != "" {
		return l.InheritsFrom
	}
	return l.ID
}

// ClientDownload returns the client jar artifact or nil
func (l *LaunchManifest) ClientDownload() *Artifact {
	if l.Downloads == nil {
		return nil
	}
	return l.Downloads.Client
}

// Clone returns a deep copy of the manifest
func (l *LaunchManifest) Clone() *LaunchManifest {
	raw, err := json.Marshal(l)
	if err != nil {
		// every field of the manifest is marshalable
		panic(err)
	}
	clone := &LaunchManifest{}
	if err := json.Unmarshal(raw, clone); err != nil {
		panic(err)
	}
	return clone
}

// Argument is either a plain string or an object containing a value and rules
type Argument struct {
	Value stringSlice
	Rules []Rule

	plain bool
}

type conditionalArgument struct {
	Rules []Rule      `json:"rules"`
	Value stringSlice `json:"value"`
}

// NewArgument returns a plain string argument
func NewArgument(s string) Argument {
	return Argument{Value: stringSlice{s}, plain: true}
}

// IsPlain is true if the argument has no rules
func (a Argument) IsPlain() bool {
	return a.plain
}

// UnmarshalJSON accepts strings and rule objects
func (a *Argument) UnmarshalJSON(data []byte) error {
	if len(data) != 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = NewArgument(s)
		return nil
	}

	var cond conditionalArgument
	if err := json.Unmarshal(data, &cond); err != nil {
		return err
	}
	*a = Argument{Value: cond.Value, Rules: cond.Rules}
	return nil
}

// MarshalJSON writes the argument in the same shape it was read
func (a Argument) MarshalJSON() ([]byte, error) {
	if a.plain && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	return json.Marshal(conditionalArgument{Rules: a.Rules, Value: a.Value})
}
