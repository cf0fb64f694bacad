package dev

import (
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:    "clear-cache",
		Short:  "Clears the cached version manifest",
		Hidden: false,
	}, &clearCacheRunner{})

	SubCmd.AddCommand(cmd.Command)
}

type clearCacheRunner struct{}

func (i *clearCacheRunner) RunE(cmd *cobra.Command, args []string) error {
	mgr := globals.NewManager()
	if err := mgr.ClearCache(); err != nil {
		return err
	}
	globals.Logger.Success("Cleared cache in " + mgr.Layout.CacheDir())
	return nil
}
