package installer

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTimeout is the maximum runtime of one processor
const DefaultTimeout = 300 * time.Second

// ErrTimeout is returned when an external tool ran longer than its timeout
var ErrTimeout = errors.New("external tool timed out")

// ExternalTool is a program invocation
type ExternalTool struct {
	Program string
	Args    []string
	// Description is used in logs and errors
	Description string
}

func (t ExternalTool) String() string {
	return t.Program + " " + strings.Join(t.Args, " ")
}

// Runner runs external tools. It returns the exit code of the tool,
// err is only set if the tool could not be run (or timed out).
type Runner interface {
	Run(ctx context.Context, tool ExternalTool, dir string, timeout time.Duration) (int, error)
}

// ExecRunner runs tools as child processes
type ExecRunner struct {
	Logger *zap.Logger
}

// Run starts the tool in dir and waits for it to exit
func (r *ExecRunner) Run(ctx context.Context, tool ExternalTool, dir string, timeout time.Duration) (int, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool.Program, tool.Args...)
	cmd.Dir = dir
	output := &bytes.Buffer{}
	cmd.Stdout = output
	cmd.Stderr = output

	logger.Debug("running external tool", zap.String("tool", tool.Description), zap.Stringer("command", tool))
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return -1, errors.Wrapf(ErrTimeout, "%s after %s", tool.Description, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug(
				"external tool failed",
				zap.String("tool", tool.Description),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.String("output", tail(output.String(), 20)),
			)
			return exitErr.ExitCode(), nil
		}
		return -1, errors.Wrapf(err, "starting %s", tool.Program)
	}
	return 0, nil
}

// tail returns the last n lines of s
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
