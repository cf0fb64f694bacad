package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "loaders <fabric|forge|neoforge|optifine> <minecraft version>",
		Short: "Lists the loader versions available for a Minecraft version",
		Example: strings.Join([]string{
			"mcinstall loaders fabric 1.20.1",
			"mcinstall loaders forge 1.20.1 --stable",
		}, "\n"),
		Args: cobra.ExactArgs(2),
	}, &loadersRunner{})

	cmd.Flags().Bool("stable", false, "only list stable versions")
	addOutputFlag(cmd.Command)

	rootCmd.AddCommand(cmd.Command)
}

type loadersRunner struct{}

func (l *loadersRunner) RunE(cmd *cobra.Command, args []string) error {
	stableOnly, _ := cmd.Flags().GetBool("stable")

	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	kind, err := loaders.ParseKind(args[0])
	if err != nil {
		return &commands.CliError{
			Text:        err.Error(),
			Suggestions: []string{"Use one of: " + kindList()},
		}
	}

	mgr := globals.NewManager()
	list, err := mgr.LoaderVersions(cmd.Context(), kind, args[1])
	if err != nil {
		return err
	}

	if stableOnly {
		stable := list[:0]
		for _, version := range list {
			if version.Stable {
				stable = append(stable, version)
			}
		}
		list = stable
	}

	return p.Print(list, func(w io.Writer) {
		fmt.Fprintln(w, "VERSION\tMINECRAFT\tSTABLE")
		for _, version := range list {
			stable := gchalk.Gray("no")
			if version.Stable {
				stable = gchalk.Green("yes")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", version.ID, version.MinecraftVersion, stable)
		}
	})
}

func kindList() string {
	names := make([]string, 0, len(loaders.Kinds()))
	for _, kind := range loaders.Kinds() {
		names = append(names, kind.String())
	}
	return strings.Join(names, ", ")
}
