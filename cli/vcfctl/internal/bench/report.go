package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// TimestampLayout matches ISO-8601 with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var csvHeader = []string{"database", "query_type", "response_time_ms", "rows_returned", "cache_state", "timestamp", "run_id"}

// SaveCSV writes results with a header row to path, replacing any existing file.
func SaveCSV(results []Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	for _, r := range results {
		rec := []string{
			r.Database,
			r.QueryType,
			strconv.FormatFloat(r.ResponseTime, 'f', -1, 64),
			strconv.Itoa(r.RowsReturned),
			r.CacheState,
			r.Timestamp.Format(TimestampLayout),
			r.RunID,
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
