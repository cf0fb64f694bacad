package dev

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/pbnjay/memory"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:    "info",
		Short:  "Prints the system and download settings",
		Hidden: false,
	}, &infoRunner{})

	SubCmd.AddCommand(cmd.Command)
}

type infoRunner struct{}

func (i *infoRunner) RunE(cmd *cobra.Command, args []string) error {
	cfg := globals.InstanceConfig()

	connections := cfg.Connections
	if connections <= 0 {
		connections = downloadmgr.DefaultConnections()
	}

	sources := mirror.OfficialOnly()
	if cfg.UseMirror {
		sources = mirror.NewSelector(cfg.Mirrors...)
	}

	globals.Logger.Headline("System")
	fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  cores: %d\n", downloadmgr.Cores())
	fmt.Printf("  memory: %s\n", humanize.IBytes(memory.TotalMemory()))

	globals.Logger.Headline("Downloads")
	fmt.Printf("  root: %s\n", cfg.Root)
	fmt.Printf("  connections: %d\n", connections)
	fmt.Printf("  orchestration workers: %d\n", downloadmgr.OrchestrationWorkers())
	fmt.Printf("  attempts: %d\n", cfg.Attempts)
	fmt.Printf("  sources: %v\n", sources.Sources())
	fmt.Printf(
		"  tolerance: %d files / %.0f%% / %d failures\n",
		cfg.Tolerance.SmallBatch,
		cfg.Tolerance.MaxFailureRate*100,
		cfg.Tolerance.MaxFailures,
	)
	if cfg.RateLimit > 0 {
		fmt.Printf("  metadata rate limit: %.1f/s\n", cfg.RateLimit)
	}

	globals.Logger.Headline("Installer")
	fmt.Printf("  java: %s\n", cfg.Java)
	fmt.Printf("  processor timeout: %s\n", cfg.ProcessorTimeout)
	fmt.Printf("  manifest ttl: %s\n", cfg.ManifestTTL)
	return nil
}
