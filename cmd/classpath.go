package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/versions"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "classpath <name>",
		Short: "Prints the classpath of an installed version",
		Args:  cobra.ExactArgs(1),
	}, &classpathRunner{})

	cmd.Flags().Bool("lines", false, "print one entry per line")

	rootCmd.AddCommand(cmd.Command)
}

type classpathRunner struct{}

func (c *classpathRunner) RunE(cmd *cobra.Command, args []string) error {
	lines, _ := cmd.Flags().GetBool("lines")

	mgr := globals.NewManager()
	entries, err := mgr.Classpath(args[0])
	if err != nil {
		if errors.Is(err, versions.ErrNotInstalled) {
			return &commands.CliError{
				Text:        fmt.Sprintf("%s is not installed", args[0]),
				Suggestions: []string{"Run \"mcinstall installed\" to list installed versions"},
			}
		}
		return err
	}

	if lines {
		fmt.Println(strings.Join(entries, "\n"))
		return nil
	}
	fmt.Println(minecraft.JoinClasspath(entries))
	return nil
}
