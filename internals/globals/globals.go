// Package globals holds the process wide cli state and turns the viper config into an installer config
package globals

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/minepkg/mcinstall/internals/cmdlog"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// ConfigDir contains config.toml
	ConfigDir string
	Logger    = cmdlog.New()
	// Zap is the diagnostics logger, a no-op unless verbose logging is enabled
	Zap = zap.NewNop()
)

// Config keys and their defaults
var Defaults = map[string]interface{}{
	"root":                  DefaultRoot(),
	"usemirror":             true,
	"mirrors":               []string{"bmclapi", "mcbbs"},
	"download.attempts":     downloadmgr.DefaultAttempts,
	"download.connections":  0,
	"download.ratelimit":    0.0,
	"tolerance.smallbatch":  downloadmgr.DefaultTolerance.SmallBatch,
	"tolerance.maxrate":     downloadmgr.DefaultTolerance.MaxFailureRate,
	"tolerance.maxfailures": downloadmgr.DefaultTolerance.MaxFailures,
	"java":                  "java",
	"processor.timeout":     "300s",
	"manifest.ttl":          "24h",
	"noninteractive":        false,
	"verboselogging":        false,
}

// DefaultRoot is the default minecraft directory of the platform
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minecraft"
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, ".minecraft")
	}
	return filepath.Join(home, ".minecraft")
}

// SetDefaults registers Defaults with viper
func SetDefaults() {
	for key, value := range Defaults {
		viper.SetDefault(key, value)
	}
}

// InstanceConfig builds the installer config from viper
func InstanceConfig() instances.Config {
	cfg := instances.DefaultConfig(viper.GetString("root"))
	cfg.UseMirror = viper.GetBool("usemirror")
	for _, name := range viper.GetStringSlice("mirrors") {
		source, err := mirror.ParseSource(strings.TrimSpace(name))
		if err != nil {
			Logger.Warn("ignoring " + err.Error())
			continue
		}
		cfg.Mirrors = append(cfg.Mirrors, source)
	}

	cfg.Attempts = viper.GetInt("download.attempts")
	cfg.Connections = viper.GetInt("download.connections")
	cfg.RateLimit = viper.GetFloat64("download.ratelimit")
	cfg.Tolerance = downloadmgr.Tolerance{
		SmallBatch:     viper.GetInt("tolerance.smallbatch"),
		MaxFailureRate: viper.GetFloat64("tolerance.maxrate"),
		MaxFailures:    viper.GetInt("tolerance.maxfailures"),
	}
	cfg.Java = viper.GetString("java")
	cfg.ProcessorTimeout = viper.GetDuration("processor.timeout")
	cfg.ManifestTTL = viper.GetDuration("manifest.ttl")
	cfg.Logger = Zap
	return cfg
}

// NewManager returns a Manager for the current config
func NewManager() *instances.Manager {
	return instances.New(InstanceConfig())
}
