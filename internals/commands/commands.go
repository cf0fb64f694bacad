// Package commands wraps cobra commands so errors are rendered the same way everywhere
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ExitInterrupted is used when the command was canceled with ctrl+c
const ExitInterrupted = 130

type Command struct {
	*cobra.Command
	runner Runner
}

type Runner interface {
	RunE(cmd *cobra.Command, args []string) error
}

// exit is replaced in tests
var exit = os.Exit

func New(cmd *cobra.Command, run Runner) *Command {
	build := &Command{
		cmd,
		run,
	}
	build.Command.Run = func(cmd *cobra.Command, args []string) {
		err := run.RunE(cmd, args)
		if err != nil {
			exit(Report(cmd.ErrOrStderr(), err))
		}
	}

	return build
}

// Report renders err to w and returns the exit code to use
func Report(w io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, Emoji("✋ ")+"Canceled")
		return ExitInterrupted
	}

	var asCliErr *CliError
	if errors.As(err, &asCliErr) {
		fmt.Fprintln(w, asCliErr.RichError()+"\n")
		return 1
	}
	fmt.Fprintln(w, ErrorBox(err.Error(), ""))
	return 1
}
