package bench

import (
	"fmt"
	"io"
	"math"
	"sort"
)

type Summary struct {
	Iterations int
	Mean       float64
	Median     float64
	Min        float64
	Max        float64
	// StdDev is the sample standard deviation; valid only when Iterations > 1.
	StdDev float64
	P95    float64
	P99    float64
}

// Summarize computes latency statistics. ok is false for no results.
func Summarize(results []Result) (s Summary, ok bool) {
	n := len(results)
	if n == 0 {
		return s, false
	}
	times := make([]float64, n)
	var total float64
	for i, r := range results {
		times[i] = r.ResponseTime
		total += r.ResponseTime
	}
	sort.Float64s(times)

	s.Iterations = n
	s.Mean = total / float64(n)
	s.Min = times[0]
	s.Max = times[n-1]
	if n%2 == 1 {
		s.Median = times[n/2]
	} else {
		s.Median = (times[n/2-1] + times[n/2]) / 2
	}
	if n > 1 {
		var sq float64
		for _, v := range times {
			d := v - s.Mean
			sq += d * d
		}
		s.StdDev = math.Sqrt(sq / float64(n-1))
	}
	s.P95 = times[int(float64(n)*0.95)]
	s.P99 = times[int(float64(n)*0.99)]
	return s, true
}

// PrintSummary writes the statistics block for one database/query pair.
func PrintSummary(w io.Writer, results []Result, queryID, database string) {
	s, ok := Summarize(results)
	if !ok {
		fmt.Fprintf(w, "\nNo results for %s - %s\n", database, queryID)
		return
	}
	fmt.Fprintf(w, "\n%s - %s:\n", database, queryID)
	fmt.Fprintf(w, "  Iterations: %d\n", s.Iterations)
	fmt.Fprintf(w, "  Mean: %.2f ms\n", s.Mean)
	fmt.Fprintf(w, "  Median: %.2f ms\n", s.Median)
	fmt.Fprintf(w, "  Min: %.2f ms\n", s.Min)
	fmt.Fprintf(w, "  Max: %.2f ms\n", s.Max)
	if s.Iterations > 1 {
		fmt.Fprintf(w, "  Std Dev: %.2f ms\n", s.StdDev)
	} else {
		fmt.Fprintln(w, "  Std Dev: N/A")
	}
	fmt.Fprintf(w, "  P95: %.2f ms\n", s.P95)
	fmt.Fprintf(w, "  P99: %.2f ms\n", s.P99)
}
