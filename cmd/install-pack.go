package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	runner := &installPackRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "install-pack <file.mrpack>",
		Short: "Installs a Modrinth modpack",
		Long: `
Installs the Minecraft version and loader a Modrinth pack (.mrpack) depends on,
then downloads the pack files and copies its overrides into versions/<name>/.`,
		Example: strings.Join([]string{
			"mcinstall install-pack ./Fabulously.Optimized-5.4.1.mrpack",
			"mcinstall install-pack ./pack.mrpack --name my-pack",
		}, "\n"),
		Args: cobra.ExactArgs(1),
	}, runner)

	cmd.Flags().StringVarP(&runner.name, "name", "n", "", "install name, defaults to the pack name")
	cmd.Flags().BoolVar(&runner.noMirror, "no-mirror", false, "only download from the official sources")

	rootCmd.AddCommand(cmd.Command)
}

type installPackRunner struct {
	name     string
	noMirror bool
}

func (i *installPackRunner) RunE(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	packPath, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(packPath); err != nil {
		return &commands.CliError{
			Text:        fmt.Sprintf("can not read %s", args[0]),
			Suggestions: []string{"Pass the path of a downloaded .mrpack file"},
			Err:         err,
		}
	}
	interactive := !viper.GetBool("noninteractive") && isTerminal(os.Stdout)

	cfg := globals.InstanceConfig()
	if i.noMirror {
		cfg.UseMirror = false
	}
	mgr := instances.New(cfg)

	install := func(opts ...instances.InstallOption) (*minecraft.LaunchManifest, error) {
		return mgr.InstallPack(ctx, packPath, i.name, opts...)
	}

	var manifest *minecraft.LaunchManifest
	if interactive {
		manifest, err = runInstallUI(install, cancel)
	} else {
		manifest, err = runInstallPlain(install)
	}
	if err != nil {
		return installError(err)
	}

	globals.Logger.Success(fmt.Sprintf(
		"Installed %s with %s libraries",
		manifest.ID,
		utils.HumanInteger(len(manifest.Libraries)),
	))
	globals.Logger.Log("  " + mgr.Layout.VersionDir(manifest.ID))
	return nil
}
