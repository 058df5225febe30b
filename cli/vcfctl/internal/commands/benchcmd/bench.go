// Package benchcmd runs the query latency benchmark against configured targets.
package benchcmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vcfkit/cli/vcfctl/internal/bench"
	"vcfkit/cli/vcfctl/internal/steps"
)

type flags struct {
	iterations  int
	warmup      int
	output      string
	targets     string
	queries     string
	queryConfig string
}

func NewCommand(sc *steps.Context) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark variant query latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := sc.Config.Bench
			if !cmd.Flags().Changed("iterations") {
				f.iterations = b.Iterations
			}
			if !cmd.Flags().Changed("warmup") {
				f.warmup = b.Warmup
			}
			if !cmd.Flags().Changed("output") {
				f.output = b.Output
			}
			if !cmd.Flags().Changed("query-config") {
				f.queryConfig = b.QueryConfig
			}
			return Run(sc, f)
		},
	}
	cmd.Flags().IntVar(&f.iterations, "iterations", 100, "Number of iterations per query")
	cmd.Flags().IntVar(&f.warmup, "warmup", 10, "Number of warmup iterations")
	cmd.Flags().StringVar(&f.output, "output", "benchmark_results.csv", "Output CSV file")
	cmd.Flags().StringVar(&f.targets, "targets", "all", `Targets to test (comma-separated or "all")`)
	cmd.Flags().StringVar(&f.queries, "queries", "all", `Queries to run (comma-separated like "Q1,Q2,Q3" or "all")`)
	cmd.Flags().StringVar(&f.queryConfig, "query-config", "query_config.json", "Path to query configuration JSON file")
	return cmd
}

func Run(sc *steps.Context, f flags) error {
	if f.iterations < 1 {
		return fmt.Errorf("--iterations must be at least 1")
	}
	targets, err := bench.Targets(f.targets, sc.Config.Bench)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(sc.Out, "No database benchmark targets configured.")
		fmt.Fprintln(sc.Out, "Set bench.sqlite.path and bench.sqlite.statements in the config file.")
		return nil
	}

	queries, _ := bench.LoadQueries(resolve(sc.Root, f.queryConfig))
	if f.queries != "all" {
		queries = bench.Filter(queries, f.queries)
		fmt.Fprintf(sc.Out, "Running filtered queries: %s\n", f.queries)
	}

	runID := uuid.NewString()
	log.WithField("run_id", runID).Debug("benchmark run")
	results := bench.Benchmark(sc.Ctx, targets, queries, bench.Options{
		Iterations: f.iterations,
		Warmup:     f.warmup,
		RunID:      runID,
		Out:        sc.Out,
	})
	if len(results) == 0 {
		fmt.Fprintln(sc.Out, "\nNo results collected")
		return nil
	}
	out := resolve(sc.Root, f.output)
	if err := bench.SaveCSV(results, out); err != nil {
		return err
	}
	fmt.Fprintf(sc.Out, "\nResults saved to %s\n", out)
	fmt.Fprintf(sc.Out, "\nTotal results collected: %d\n", len(results))
	return nil
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
