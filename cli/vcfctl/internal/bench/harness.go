package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrNotImplemented is returned by a target that cannot answer a query method.
var ErrNotImplemented = errors.New("query method not implemented")

// Target is a database under test.
type Target interface {
	Name() string
	Connect(ctx context.Context) error
	Close() error
	// Query runs method with params and returns the number of rows returned.
	Query(ctx context.Context, method string, params map[string]any) (int, error)
}

// CacheWarm labels iterations that ran after warmup.
const CacheWarm = "warm"

type Result struct {
	Database     string
	QueryType    string
	ResponseTime float64 // milliseconds
	RowsReturned int
	CacheState   string
	Timestamp    time.Time
	RunID        string
}

// TimeQuery runs fn and returns its latency in milliseconds.
func TimeQuery(fn func() (int, error)) (float64, int, error) {
	start := time.Now()
	rows, err := fn()
	elapsed := time.Since(start)
	return float64(elapsed.Nanoseconds()) / 1e6, rows, err
}

// Run executes q against t iterations times. Failed iterations are logged and skipped.
func Run(ctx context.Context, t Target, q Query, iterations int, cacheState, runID string) []Result {
	results := make([]Result, 0, iterations)
	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		ms, rows, err := TimeQuery(func() (int, error) {
			return t.Query(ctx, q.Method, q.Params)
		})
		if err != nil {
			log.WithFields(log.Fields{"database": t.Name(), "query": q.ID}).
				WithError(err).Errorf("iteration %d failed", i+1)
			continue
		}
		results = append(results, Result{
			Database:     t.Name(),
			QueryType:    q.ID,
			ResponseTime: ms,
			RowsReturned: rows,
			CacheState:   cacheState,
			Timestamp:    time.Now(),
			RunID:        runID,
		})
	}
	return results
}

// Warmup runs q n times, discarding timings.
func Warmup(ctx context.Context, t Target, q Query, n int) {
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		if _, err := t.Query(ctx, q.Method, q.Params); err != nil {
			log.WithFields(log.Fields{"database": t.Name(), "query": q.ID}).WithError(err).Warn("warmup error")
		}
	}
}

type Options struct {
	Iterations int
	Warmup     int
	RunID      string
	Out        io.Writer
}

// Benchmark runs every query against every target in order and returns all results.
// A target that fails to connect is skipped.
func Benchmark(ctx context.Context, targets []Target, queries []Query, opts Options) []Result {
	var all []Result
	rule := strings.Repeat("=", 80)
	for _, t := range targets {
		fmt.Fprintf(opts.Out, "\n%s\nBenchmarking: %s\n%s\n", rule, t.Name(), rule)
		if err := t.Connect(ctx); err != nil {
			fmt.Fprintf(opts.Out, "Failed to connect to %s: %v\n", t.Name(), err)
			continue
		}
		fmt.Fprintf(opts.Out, "Connected to %s\n", t.Name())

		for _, q := range queries {
			fmt.Fprintf(opts.Out, "\nRunning %s: %s...\n", q.ID, q.Description)
			if opts.Warmup > 0 {
				fmt.Fprintf(opts.Out, "  Warmup: %d iterations...\n", opts.Warmup)
				Warmup(ctx, t, q, opts.Warmup)
			}
			results := Run(ctx, t, q, opts.Iterations, CacheWarm, opts.RunID)
			all = append(all, results...)
			PrintSummary(opts.Out, results, q.ID, t.Name())
		}

		if err := t.Close(); err != nil {
			fmt.Fprintf(opts.Out, "Error disconnecting from %s: %v\n", t.Name(), err)
		} else {
			fmt.Fprintf(opts.Out, "\nDisconnected from %s\n", t.Name())
		}
	}
	return all
}
