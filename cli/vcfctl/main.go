// Command vcfctl prepares the variant database stack: it makes sure the VCF
// data file is present under ./data, starts the services with
// `docker compose up -d`, and prints a completion notice.
//
// Configuration is read from ./vcfkit.yaml (or $VCFKIT_CONFIG) when present;
// without it the built-in defaults apply.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vcfkit/cli/vcfctl/internal/fetch"
	"vcfkit/cli/vcfctl/internal/runner"
)

// Exit codes.
const (
	ExitSuccess = 0
	// ExitFailure covers a missing download tool and any other failure.
	ExitFailure = 1
	ExitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// usageError marks bad invocations.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, fetch.ErrNoDownloader) {
		return ExitFailure
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	var ee *runner.ExitError
	if errors.As(err, &ee) && ee.Code > 0 {
		return ee.Code
	}
	return ExitFailure
}
