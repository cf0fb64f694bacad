package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:     "installed",
		Aliases: []string{"ls"},
		Short:   "Lists the versions installed in the minecraft directory",
		Args:    cobra.NoArgs,
	}, &installedRunner{})

	addOutputFlag(cmd.Command)

	rootCmd.AddCommand(cmd.Command)
}

type installedRunner struct{}

func (i *installedRunner) RunE(cmd *cobra.Command, args []string) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	mgr := globals.NewManager()
	list, err := mgr.ListInstalledVersions()
	if err != nil {
		return err
	}

	if len(list) == 0 && p.format == outputTable {
		globals.Logger.Info("No versions installed in " + mgr.Config.Root)
		return nil
	}

	return p.Print(list, func(w io.Writer) {
		fmt.Fprintln(w, "NAME\tLOADER\tSTATUS\tINSTALLED")
		for _, version := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", version.ID, version.LoaderType, installStatus(&version), installedAt(&version))
		}
	})
}

func installStatus(v *instances.InstalledVersion) string {
	switch {
	case v.Complete():
		return gchalk.Green("ok")
	case v.JSONExists:
		return gchalk.Yellow("no jar")
	}
	return gchalk.Yellow("no json")
}

func installedAt(v *instances.InstalledVersion) string {
	if v.Metadata == nil || v.Metadata.InstalledAt.IsZero() {
		return gchalk.Gray("-")
	}
	return humanize.Time(v.Metadata.InstalledAt)
}
