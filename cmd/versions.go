package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:     "versions",
		Aliases: []string{"ls-remote"},
		Short:   "Lists the available Minecraft versions",
		Example: strings.Join([]string{
			"mcinstall versions",
			"mcinstall versions --type release --type snapshot",
			"mcinstall versions -o json",
		}, "\n"),
		Args: cobra.NoArgs,
	}, &versionsRunner{})

	cmd.Flags().StringSlice("type", nil, "only list these version types (release, snapshot, old_beta, old_alpha)")
	cmd.Flags().Bool("refresh", false, "ignore the cached version manifest")
	cmd.Flags().Int("limit", 0, "only list the newest n versions")
	addOutputFlag(cmd.Command)

	rootCmd.AddCommand(cmd.Command)
}

type versionsRunner struct{}

func (v *versionsRunner) RunE(cmd *cobra.Command, args []string) error {
	types, _ := cmd.Flags().GetStringSlice("type")
	refresh, _ := cmd.Flags().GetBool("refresh")
	limit, _ := cmd.Flags().GetInt("limit")

	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	mgr := globals.NewManager()
	if refresh {
		if err := mgr.Resolver.LoadManifest(cmd.Context(), true); err != nil {
			return err
		}
	}

	list, err := mgr.ListVersions(cmd.Context(), types...)
	if err != nil {
		return commands.Wrap(err, "Check your internet connection", "Try again with --refresh")
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return p.Print(list, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tTYPE\tRELEASED")
		for _, version := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", version.ID, styleVersionType(version), releaseDate(version))
		}
	})
}

func styleVersionType(v minecraft.ManifestVersion) string {
	switch v.Type {
	case "release":
		return gchalk.Green(v.Type)
	case "snapshot":
		return gchalk.Yellow(v.Type)
	}
	return gchalk.Gray(v.Type)
}

func releaseDate(v minecraft.ManifestVersion) string {
	// releaseTime is RFC 3339, the date is enough here
	if len(v.ReleaseTime) >= 10 {
		return v.ReleaseTime[:10]
	}
	return v.ReleaseTime
}
