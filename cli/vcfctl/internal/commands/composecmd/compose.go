package composecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vcfkit/cli/vcfctl/internal/compose"
	"vcfkit/cli/vcfctl/internal/config"
	"vcfkit/cli/vcfctl/internal/fetch"
	"vcfkit/cli/vcfctl/internal/paths"
	"vcfkit/cli/vcfctl/internal/runner"
	"vcfkit/cli/vcfctl/internal/stack"
	"vcfkit/cli/vcfctl/internal/steps"
)

// Commands returns the compose lifecycle commands.
func Commands(sc *steps.Context) []*cobra.Command {
	var follow bool
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Show service logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleLogs(sc, follow)
		},
	}
	logs.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")

	return []*cobra.Command{
		{
			Use:   "up",
			Short: "Start the services detached",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return handleUp(sc) },
		},
		{
			Use:   "down",
			Short: "Stop and remove the services",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return handleDown(sc) },
		},
		{
			Use:   "status",
			Short: "Show service and data file status",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return handleStatus(sc) },
		},
		logs,
	}
}

func handleUp(sc *steps.Context) error {
	if err := config.ApplyEnv(sc.Config, stack.EnvBase(sc)); err != nil {
		return err
	}
	return run(sc, compose.UpArgs(sc.Config.Compose)...)
}

func handleDown(sc *steps.Context) error {
	return run(sc, compose.DownArgs()...)
}

func handleStatus(sc *steps.Context) error {
	req := stack.FetchRequest(sc, false)
	st, err := fetch.Check(req.Target, req.Integrity)
	if err != nil {
		return err
	}
	rel := paths.Rel(sc.Root, req.Target)
	if st.State == fetch.Missing {
		fmt.Fprintf(sc.Out, "data: %s (%s)\n", rel, st.State)
	} else {
		fmt.Fprintf(sc.Out, "data: %s (%s, %d bytes)\n", rel, st.State, st.Size)
	}
	return run(sc, compose.PsArgs(sc.Config.Compose)...)
}

func handleLogs(sc *steps.Context, follow bool) error {
	var extra []string
	if follow {
		extra = append(extra, "-f")
	}
	files, err := stack.ComposeFiles(sc)
	if err != nil {
		return err
	}
	args := compose.LogsArgs(sc.Config.Compose, extra)
	if follow {
		return runner.ComposeInteractive(stack.ComposeOptions(sc), files, args...)
	}
	return runner.Compose(sc.Ctx, stack.ComposeOptions(sc), files, args...)
}

func run(sc *steps.Context, args ...string) error {
	files, err := stack.ComposeFiles(sc)
	if err != nil {
		return err
	}
	return runner.Compose(sc.Ctx, stack.ComposeOptions(sc), files, args...)
}
