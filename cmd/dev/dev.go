package dev

import (
	"github.com/spf13/cobra"
)

var SubCmd = &cobra.Command{
	Use:    "dev",
	Short:  "Commands for debugging the installer",
	Hidden: true,
}
