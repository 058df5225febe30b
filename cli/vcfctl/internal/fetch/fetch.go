package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"vcfkit/cli/vcfctl/internal/execx"
	"vcfkit/cli/vcfctl/internal/paths"
)

type Request struct {
	URL    string
	Target string
	// Downloaders lists tool names in preference order.
	Downloaders []string
	Integrity   Integrity
	// Force refetches even when the target looks complete.
	Force   bool
	Dry     bool
	Timeout time.Duration
}

type Action int

const (
	// Skipped means the target was already complete.
	Skipped Action = iota
	Downloaded
	// Planned is a dry run that would have downloaded.
	Planned
)

func (a Action) String() string {
	switch a {
	case Skipped:
		return "skipped"
	case Downloaded:
		return "downloaded"
	case Planned:
		return "planned"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

type Outcome struct {
	Action Action
	Tool   string
	// Before is the target state found on entry.
	Before Status
	// After is the target state on return.
	After Status
}

// Ensure creates the target directory and downloads req.URL into req.Target
// unless a complete file is already there. A dry run touches nothing on disk.
func Ensure(ctx context.Context, req Request) (Outcome, error) {
	var out Outcome
	fields := log.Fields{"path": req.Target, "url": req.URL}

	if !req.Dry {
		if err := os.MkdirAll(filepath.Dir(req.Target), 0o755); err != nil {
			return out, fmt.Errorf("create data dir: %w", err)
		}
	}
	before, err := Check(req.Target, req.Integrity)
	if err != nil {
		return out, err
	}
	out.Before, out.After = before, before
	if before.State.Complete() && !req.Force {
		log.WithFields(fields).WithField("state", before.State).Debug("data file already present")
		return out, nil
	}
	switch before.State {
	case Corrupt, Empty:
		log.WithFields(fields).WithError(before.Reason).Warn("existing data file is unusable, refetching")
	}

	dl, err := Select(req.Downloaders)
	if err != nil {
		return out, err
	}
	out.Tool = dl.Name()
	fields["tool"] = dl.Name()
	if req.Dry {
		out.Action = Planned
		log.WithFields(fields).Info("dry run: would download data file")
		return out, nil
	}

	part := paths.Partial(req.Target)
	if err := os.Remove(part); err != nil && !errors.Is(err, os.ErrNotExist) {
		return out, fmt.Errorf("remove stale partial download: %w", err)
	}
	cctx, cancel := execx.WithTimeoutCtx(ctx, req.Timeout)
	defer cancel()

	log.WithFields(fields).Info("downloading data file")
	start := time.Now()
	if err := dl.Fetch(cctx, req.URL, part); err != nil {
		_ = os.Remove(part)
		return out, fmt.Errorf("download %s with %s: %w", req.URL, dl.Name(), err)
	}
	got, err := Check(part, req.Integrity)
	if err != nil {
		_ = os.Remove(part)
		return out, err
	}
	if !got.State.Complete() {
		_ = os.Remove(part)
		return out, fmt.Errorf("download %s: %w", req.URL, got.Reason)
	}
	if err := os.Rename(part, req.Target); err != nil {
		_ = os.Remove(part)
		return out, fmt.Errorf("move download into place: %w", err)
	}
	out.Action = Downloaded
	out.After = got
	log.WithFields(fields).WithFields(log.Fields{
		"bytes":   got.Size,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("data file downloaded")
	return out, nil
}
