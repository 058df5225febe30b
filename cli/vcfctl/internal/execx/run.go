package execx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type Result struct {
	Code int
	Err  error
}

// OK reports whether the command exited zero.
func (r Result) OK() bool { return r.Code == 0 && r.Err == nil }

func Run(name string, args ...string) Result {
	return RunCtx(context.Background(), name, args...)
}

func RunCtx(ctx context.Context, name string, args ...string) Result {
	trace(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	return Result{Code: exitCode(ctx, err), Err: err}
}

// Capture runs a command and returns stdout as string and exit code.
func Capture(ctx context.Context, name string, args ...string) (string, Result) {
	trace(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	return string(out), Result{Code: exitCode(ctx, err), Err: err}
}

// WithTimeoutCtx bounds parent by d. A zero d means no deadline.
func WithTimeoutCtx(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// LookPath reports the resolved path of name on PATH.
func LookPath(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// Line renders an argv the way it is echoed in debug and dry-run output.
func Line(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func trace(name string, args []string) {
	if os.Getenv("VCFKIT_DEBUG") == "1" {
		fmt.Fprintf(os.Stderr, "+ %s\n", Line(name, args))
		return
	}
	log.WithField("cmd", Line(name, args)).Debug("exec")
}

func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124
	}
	return 1
}
