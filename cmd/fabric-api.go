package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "fabric-api <minecraft version>",
		Short: "Lists the fabric api versions available for a Minecraft version",
		Example: strings.Join([]string{
			"mcinstall fabric-api 1.20.1",
			"mcinstall fabric-api 1.20.1 -o json",
		}, "\n"),
		Args: cobra.ExactArgs(1),
	}, &fabricAPIRunner{})

	addOutputFlag(cmd.Command)

	rootCmd.AddCommand(cmd.Command)
}

type fabricAPIRunner struct{}

func (f *fabricAPIRunner) RunE(cmd *cobra.Command, args []string) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	mgr := globals.NewManager()
	list, err := mgr.FabricAPIVersions(cmd.Context(), args[0])
	if err != nil {
		return commands.Wrap(err, "Check your internet connection")
	}

	return p.Print(list, func(w io.Writer) {
		fmt.Fprintln(w, "VERSION\tTYPE\tPUBLISHED")
		for _, version := range list {
			kind := gchalk.Yellow(version.VersionType)
			if version.Stable() {
				kind = gchalk.Green(version.VersionType)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", version.VersionNumber, kind, version.DatePublished.Format("2006-01-02"))
		}
	})
}
