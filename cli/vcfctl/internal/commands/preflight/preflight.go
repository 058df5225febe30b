package preflight

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vcfkit/cli/vcfctl/internal/compose"
	"vcfkit/cli/vcfctl/internal/execx"
	"vcfkit/cli/vcfctl/internal/fetch"
	"vcfkit/cli/vcfctl/internal/paths"
	"vcfkit/cli/vcfctl/internal/stack"
	"vcfkit/cli/vcfctl/internal/steps"
)

func NewCommand(sc *steps.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check host prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(sc)
		},
	}
}

// Run prints one line per check and fails when the stack cannot be set up.
func Run(sc *steps.Context) error {
	ok := true
	ctx, cancel := execx.WithTimeoutCtx(sc.Ctx, 30*time.Second)
	defer cancel()

	cmd := sc.Config.Compose.Command
	if _, res := execx.Capture(ctx, cmd[0], "version"); res.Code != 0 {
		fmt.Fprintf(sc.Err, "[preflight] %s not available or daemon unreachable\n", cmd[0])
		ok = false
	} else {
		fmt.Fprintf(sc.Out, "[preflight] %s: OK\n", cmd[0])
	}
	versionArgs := append(append([]string{}, cmd[1:]...), "version")
	if out, res := execx.Capture(ctx, cmd[0], versionArgs...); res.Code != 0 {
		fmt.Fprintf(sc.Err, "[preflight] %s not working\n", strings.Join(cmd, " "))
		ok = false
	} else if v := firstLine(out); v != "" {
		fmt.Fprintf(sc.Out, "[preflight] %s: OK (%s)\n", strings.Join(cmd, " "), v)
	} else {
		fmt.Fprintf(sc.Out, "[preflight] %s: OK\n", strings.Join(cmd, " "))
	}

	if dl, err := fetch.Select(sc.Config.Data.Downloaders); err != nil {
		fmt.Fprintf(sc.Err, "[preflight] downloader: %v\n", err)
		ok = false
	} else {
		fmt.Fprintf(sc.Out, "[preflight] downloader: OK (%s)\n", dl.Name())
	}

	if len(sc.Config.Compose.Files) > 0 {
		if _, err := stack.ComposeFiles(sc); err != nil {
			fmt.Fprintf(sc.Err, "[preflight] %v\n", err)
			ok = false
		} else {
			fmt.Fprintln(sc.Out, "[preflight] compose files: OK")
		}
	} else if f := compose.DefaultFile(sc.Root); f != "" {
		fmt.Fprintf(sc.Out, "[preflight] compose file: OK (%s)\n", paths.Rel(sc.Root, f))
	} else {
		fmt.Fprintf(sc.Err, "[preflight] no compose file found in %s\n", sc.Root)
	}

	req := stack.FetchRequest(sc, false)
	st, err := fetch.Check(req.Target, req.Integrity)
	switch {
	case err != nil:
		fmt.Fprintf(sc.Err, "[preflight] data file: %v\n", err)
		ok = false
	case st.State.Complete():
		fmt.Fprintf(sc.Out, "[preflight] data file: OK (%s, %d bytes)\n", st.State, st.Size)
	default:
		fmt.Fprintf(sc.Out, "[preflight] data file: %s, will be downloaded\n", st.State)
	}

	if !ok {
		return fmt.Errorf("preflight checks failed")
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
