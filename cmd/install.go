package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/minepkg/mcinstall/internals/cmdlog"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mrpack"
	"github.com/minepkg/mcinstall/internals/utils"
	"github.com/minepkg/mcinstall/internals/versions"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	runner := &installRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "install <minecraft version>",
		Short: "Installs a Minecraft version, optionally with a mod loader",
		Long: `
Downloads the version json, client jar, libraries and assets of a Minecraft version
into the minecraft directory. With --loader the loader is installed on top and a
single merged version json is written.`,
		Example: strings.Join([]string{
			"mcinstall install 1.20.1",
			"mcinstall install 1.20.1 --name my-release",
			"mcinstall install 1.20.1 --loader fabric",
			"mcinstall install 1.20.1 --loader fabric --fabric-api",
			"mcinstall install 1.20.1 --loader forge --loader-version 47.2.0 --name myserver",
		}, "\n"),
		Args: cobra.ExactArgs(1),
	}, runner)

	cmd.Flags().StringVarP(&runner.name, "name", "n", "", "install name, defaults to the version id")
	cmd.Flags().StringVarP(&runner.loader, "loader", "l", "", "loader to install (fabric, forge, neoforge, optifine)")
	cmd.Flags().StringVar(&runner.loaderVersion, "loader-version", "", "loader version, defaults to the latest stable one")
	cmd.Flags().StringVar(&runner.fabricAPI, "fabric-api", "", "also install the fabric api (optionally a specific version)")
	cmd.Flags().Lookup("fabric-api").NoOptDefVal = instances.FabricAPILatest
	cmd.Flags().BoolVar(&runner.noMirror, "no-mirror", false, "only download from the official sources")
	cmd.Flags().BoolVarP(&runner.yes, "yes", "y", false, "reinstall existing versions without asking")

	rootCmd.AddCommand(cmd.Command)
}

type installRunner struct {
	name          string
	loader        string
	loaderVersion string
	fabricAPI     string
	noMirror      bool
	yes           bool
}

func (i *installRunner) RunE(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcVersion := strings.TrimSpace(args[0])
	interactive := !viper.GetBool("noninteractive") && isTerminal(os.Stdout)

	cfg := globals.InstanceConfig()
	if i.noMirror {
		cfg.UseMirror = false
	}
	mgr := instances.New(cfg)

	var kind loaders.Kind
	if i.loader != "" {
		parsed, err := loaders.ParseKind(i.loader)
		if err != nil {
			return &commands.CliError{
				Text:        err.Error(),
				Suggestions: []string{"Use one of: " + kindList()},
			}
		}
		kind = parsed

		if i.loaderVersion == "" && interactive {
			version, err := i.selectLoaderVersion(ctx, mgr, kind, mcVersion)
			if errors.Is(err, utils.ErrAborted) {
				globals.Logger.Info("Aborting")
				return nil
			}
			if err != nil {
				return err
			}
			i.loaderVersion = version
		}
	}

	// without a loader version the default name is resolved during the install
	name := strings.TrimSpace(i.name)
	if name == "" && kind == 0 {
		name = mcVersion
	} else if name == "" && i.loaderVersion != "" {
		name = instances.DefaultName(mcVersion, kind, i.loaderVersion)
	}

	// reinstalling only downloads missing or broken files
	if name != "" && !i.yes && interactive && isInstalled(mgr, name) {
		overwrite, err := confirmation.New(
			fmt.Sprintf("%s is already installed. Reinstall it?", name),
			confirmation.No,
		).RunPrompt()
		if err != nil || !overwrite {
			globals.Logger.Info("Aborting")
			return nil
		}
	}

	if i.fabricAPI != "" && kind != loaders.Fabric {
		return &commands.CliError{
			Text:        "--fabric-api needs --loader fabric",
			Suggestions: []string{"Add --loader fabric"},
		}
	}

	install := func(opts ...instances.InstallOption) (*minecraft.LaunchManifest, error) {
		if i.fabricAPI != "" {
			opts = append(opts, instances.WithFabricAPI(i.fabricAPI))
		}
		if kind == 0 {
			return mgr.DownloadVanilla(ctx, mcVersion, i.name, opts...)
		}
		return mgr.DownloadWithLoader(ctx, mcVersion, kind, i.loaderVersion, i.name, opts...)
	}

	var manifest *minecraft.LaunchManifest
	var err error
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

func (i *installRunner) selectLoaderVersion(ctx context.Context, mgr *instances.Manager, kind loaders.Kind, mcVersion string) (string, error) {
	list, err := mgr.LoaderVersions(ctx, kind, mcVersion)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", &commands.CliError{
			Text: fmt.Sprintf("%s has no versions for minecraft %s", kind, mcVersion),
		}
	}

	items := make([]string, 0, len(list))
	cursor := -1
	for n, version := range list {
		items = append(items, utils.PrettyVersion(version.ID, version.Stable))
		if version.Stable && cursor == -1 {
			cursor = n
		}
	}
	if cursor == -1 {
		cursor = 0
	}

	picked, err := utils.SelectPrompt(&promptui.Select{
		Label:     fmt.Sprintf("%s version", kind),
		Items:     items,
		CursorPos: cursor,
		Size:      10,
	})
	if err != nil {
		return "", err
	}
	return list[picked].ID, nil
}

// runInstallPlain prints one line per stage
func runInstallPlain(install func(opts ...instances.InstallOption) (*minecraft.LaunchManifest, error)) (*minecraft.LaunchManifest, error) {
	spinner := cmdlog.NewMaybeSpinner(false)
	spinner.Start()
	defer spinner.Stop()

	return install(instances.WithProgress(func(p instances.Progress) {
		if p.Stage == instances.StageError {
			return
		}
		spinner.Update(stageLabel(p.Stage))
	}))
}

func installError(err error) error {
	switch {
	case errors.Is(err, instances.ErrBatchFailed):
		return commands.Wrap(err, "Run the same command again, finished files are not downloaded twice", "Try --no-mirror if a mirror is broken")
	case errors.Is(err, instances.ErrInvalidName):
		return commands.Wrap(err, "Names may not contain / \\ or :")
	case errors.Is(err, versions.ErrUnknownVersion), errors.Is(err, loaders.ErrVersionNotFound):
		return commands.Wrap(err, "Run \"mcinstall versions\" or \"mcinstall loaders\" to list available versions")
	case errors.Is(err, instances.ErrFabricAPINotFound):
		return commands.Wrap(err, "Run \"mcinstall fabric-api <minecraft version>\" to list available versions")
	case errors.Is(err, mrpack.ErrMissingIndex), errors.Is(err, mrpack.ErrInvalidPack):
		return commands.Wrap(err, "Only modrinth packs (.mrpack) can be installed")
	case errors.Is(err, mrpack.ErrUnsupportedLoader):
		return commands.Wrap(err, "Supported pack loaders are fabric, forge and neoforge")
	}
	var processorErr *installer.ProcessorError
	if errors.As(err, &processorErr) {
		return &commands.CliError{
			Text: err.Error(),
			Help: "Run with --verbose to see the output of " + processorErr.Jar,
			Err:  err,
		}
	}
	return err
}

func isInstalled(mgr *instances.Manager, name string) bool {
	existing, err := mgr.Installed(name)
	return err == nil && existing.Complete()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func stageLabel(stage string) string {
	switch stage {
	case instances.StageIndex:
		return "Fetching version index"
	case instances.StageClient:
		return "Downloading client"
	case instances.StageLibraries:
		return "Downloading libraries"
	case instances.StageAssets:
		return "Downloading assets"
	case instances.StageLoaderInfo:
		return "Fetching loader"
	case instances.StageLoaderLibraries:
		return "Downloading loader libraries"
	case instances.StageProcessors:
		return "Running installer processors"
	case instances.StageFabricAPI:
		return "Downloading fabric api"
	case instances.StagePackFiles:
		return "Downloading pack files"
	case instances.StageOverrides:
		return "Copying overrides"
	case instances.StageGenerateJSON:
		return "Writing version json"
	case instances.StageComplete:
		return "Done"
	}
	return stage
}
