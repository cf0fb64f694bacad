package instances

import (
	"net/http"
	"time"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/minepkg/mcinstall/internals/versions"
	"go.uber.org/zap"
)

// MetadataHosts are throttled when Config.RateLimit is set
var MetadataHosts = []string{
	"piston-meta.mojang.com",
	"launchermeta.mojang.com",
	"meta.fabricmc.net",
	"api.modrinth.com",
}

// Config is everything the Manager needs to know about the installation
type Config struct {
	// Root is the minecraft directory containing versions/, libraries/ and assets/
	Root string
	// UseMirror enables the mirror sources
	UseMirror bool
	// Mirrors is the preferred source order. Empty means bmclapi, mcbbs, official
	Mirrors []mirror.Source

	// Attempts per file, 0 uses downloadmgr.DefaultAttempts
	Attempts int
	// Connections is the number of parallel downloads per batch, 0 means auto
	Connections int
	// RateLimit limits metadata requests per second, 0 disables it
	RateLimit float64
	Tolerance downloadmgr.Tolerance

	// Java is the java binary used for installer processors
	Java             string
	ProcessorTimeout time.Duration
	ManifestTTL      time.Duration

	Logger *zap.Logger

	// HTTPClient replaces the default ownhttp client
	HTTPClient *http.Client
	// Runner replaces the exec based processor runner
	Runner installer.Runner
	// Evaluator replaces the evaluator for the current platform
	Evaluator *minecraft.Evaluator
}

// DefaultConfig returns the default config for root
func DefaultConfig(root string) Config {
	return Config{
		Root:             root,
		UseMirror:        true,
		Attempts:         downloadmgr.DefaultAttempts,
		Tolerance:        downloadmgr.DefaultTolerance,
		Java:             "java",
		ProcessorTimeout: installer.DefaultTimeout,
		ManifestTTL:      versions.DefaultTTL,
	}
}

func (c Config) withDefaults() Config {
	if c.Attempts <= 0 {
		c.Attempts = downloadmgr.DefaultAttempts
	}
	if c.Tolerance == (downloadmgr.Tolerance{}) {
		c.Tolerance = downloadmgr.DefaultTolerance
	}
	if c.Java == "" {
		c.Java = "java"
	}
	if c.ProcessorTimeout <= 0 {
		c.ProcessorTimeout = installer.DefaultTimeout
	}
	if c.ManifestTTL <= 0 {
		c.ManifestTTL = versions.DefaultTTL
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
