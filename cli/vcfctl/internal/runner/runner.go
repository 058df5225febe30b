package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"vcfkit/cli/vcfctl/internal/execx"
)

// DefaultTimeout bounds compose and host commands unless Options says otherwise.
const DefaultTimeout = 10 * time.Minute

// ExitError reports a host command that ran and exited non-zero, or could not start.
type ExitError struct {
	Command string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: exit %d: %v", e.Command, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: exit %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Options describes how docker compose is invoked.
type Options struct {
	Dry bool
	// Command is the compose entrypoint argv, e.g. [docker compose] or [docker-compose].
	Command []string
	Timeout time.Duration
	// Stderr receives dry-run echoes. Defaults to os.Stderr.
	Stderr io.Writer
}

func (o Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

func (o Options) argv(fileArgs, args []string) (string, []string) {
	cmd := o.Command
	if len(cmd) == 0 {
		cmd = []string{"docker", "compose"}
	}
	all := append(append(append([]string{}, cmd[1:]...), fileArgs...), args...)
	return cmd[0], all
}

// Compose runs the compose command with the provided file arguments and subcommand.
// When opts.Dry is true it only prints the command.
func Compose(ctx context.Context, opts Options, fileArgs []string, args ...string) error {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := execx.WithTimeoutCtx(ctx, timeout)
	defer cancel()
	name, all := opts.argv(fileArgs, args)
	if opts.Dry {
		fmt.Fprintln(opts.stderr(), "+ "+execx.Line(name, all))
		return nil
	}
	return check(name, all, execx.RunCtx(cctx, name, all...))
}

// ComposeInteractive executes compose without a timeout, for log following.
func ComposeInteractive(opts Options, fileArgs []string, args ...string) error {
	name, all := opts.argv(fileArgs, args)
	if opts.Dry {
		fmt.Fprintln(opts.stderr(), "+ "+execx.Line(name, all))
		return nil
	}
	return check(name, all, execx.Run(name, all...))
}

func check(name string, args []string, res execx.Result) error {
	if res.OK() {
		return nil
	}
	return &ExitError{Command: execx.Line(name, args), Code: res.Code, Err: res.Err}
}
