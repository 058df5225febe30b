package setupcmd

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vcfkit/cli/vcfctl/internal/compose"
	"vcfkit/cli/vcfctl/internal/config"
	"vcfkit/cli/vcfctl/internal/fetch"
	"vcfkit/cli/vcfctl/internal/paths"
	"vcfkit/cli/vcfctl/internal/runner"
	"vcfkit/cli/vcfctl/internal/stack"
	"vcfkit/cli/vcfctl/internal/steps"
)

// NewCommand returns the setup command. sc is filled in by the root command
// before RunE runs.
func NewCommand(sc *steps.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Download the VCF data file if absent and start the database stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(sc)
		},
	}
}

// Run executes the setup steps in order.
func Run(sc *steps.Context) error {
	return Steps().Run(sc)
}

// Steps returns the setup procedure as an ordered registry.
func Steps() *steps.Registry {
	r := steps.New()
	r.Register("fetch", FetchStep)
	r.Register("up", upStep)
	r.Register("notice", noticeStep)
	return r
}

// FetchStep makes sure the data file exists. It is shared with the fetch command.
func FetchStep(c *steps.Context) error {
	return fetchData(c, false)
}

func fetchData(c *steps.Context, force bool) error {
	req := stack.FetchRequest(c, force)
	rel := paths.Rel(c.Root, req.Target)
	out, err := fetch.Ensure(c.Ctx, req)
	switch {
	case errors.Is(err, fetch.ErrNoDownloader):
		fmt.Fprintf(c.Err, "Error: none of %s is installed. Install one of them and re-run.\n",
			strings.Join(c.Config.Data.Downloaders, ", "))
		return err
	case err != nil:
		if c.Strict {
			return err
		}
		log.WithError(err).WithField("path", rel).Warn("data download failed, continuing")
		return nil
	}
	switch out.Action {
	case fetch.Skipped:
		fmt.Fprintf(c.Out, "%s already exists, skipping download.\n", rel)
	case fetch.Downloaded:
		fmt.Fprintf(c.Out, "Downloaded %s to %s using %s.\n", c.Config.Data.URL, rel, out.Tool)
	case fetch.Planned:
		fmt.Fprintf(c.Out, "Would download %s to %s using %s.\n", c.Config.Data.URL, rel, out.Tool)
	}
	return nil
}

// ForceFetch refetches the data file regardless of its current state.
func ForceFetch(c *steps.Context) error {
	return fetchData(c, true)
}

func upStep(c *steps.Context) error {
	if err := config.ApplyEnv(c.Config, stack.EnvBase(c)); err != nil {
		if c.Strict {
			return err
		}
		log.WithError(err).Warn("could not load compose environment")
	}
	files, err := stack.ComposeFiles(c)
	if err != nil {
		if c.Strict {
			return err
		}
		log.WithError(err).Warn("compose files unavailable, starting with compose defaults")
		files = nil
	}
	fmt.Fprintln(c.Out, "Starting services...")
	if err := runner.Compose(c.Ctx, stack.ComposeOptions(c), files, compose.UpArgs(c.Config.Compose)...); err != nil {
		if c.Strict {
			return err
		}
		log.WithError(err).Warn("compose up failed, continuing")
	}
	return nil
}

func noticeStep(c *steps.Context) error {
	target := paths.Rel(c.Root, paths.Target(c.Root, c.Config.Data))
	line := stack.ComposeLine(c, nil, compose.UpArgs(c.Config.Compose)...)
	fmt.Fprintf(c.Out, "Setup complete. Services were started in the background (%s); data file: %s\n", line, target)
	return nil
}
