package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"vcfkit/cli/vcfctl/internal/execx"
	"vcfkit/cli/vcfctl/internal/runner"
)

// Downloader fetches url into dest.
type Downloader interface {
	Name() string
	Available() bool
	Fetch(ctx context.Context, url, dest string) error
}

type toolDownloader struct {
	name string
	argv func(url, dest string) []string
}

func (t toolDownloader) Name() string { return t.name }

func (t toolDownloader) Available() bool {
	_, ok := execx.LookPath(t.name)
	return ok
}

func (t toolDownloader) Fetch(ctx context.Context, url, dest string) error {
	args := t.argv(url, dest)
	res := execx.RunCtx(ctx, t.name, args...)
	if !res.OK() {
		return &runner.ExitError{Command: execx.Line(t.name, args), Code: res.Code, Err: res.Err}
	}
	return nil
}

// Curl follows redirects and fails on HTTP errors instead of saving the error page.
func Curl() Downloader {
	return toolDownloader{name: "curl", argv: func(url, dest string) []string {
		return []string{"-fsSL", "-o", dest, url}
	}}
}

func Wget() Downloader {
	return toolDownloader{name: "wget", argv: func(url, dest string) []string {
		return []string{"-q", "-O", dest, url}
	}}
}

// HTTP downloads in-process. It is only used when listed explicitly.
func HTTP(client *http.Client) Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return httpDownloader{client: client}
}

type httpDownloader struct {
	client *http.Client
}

func (httpDownloader) Name() string    { return "http" }
func (httpDownloader) Available() bool { return true }

func (h httpDownloader) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// New returns the built-in downloader called name.
func New(name string) (Downloader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "curl":
		return Curl(), nil
	case "wget":
		return Wget(), nil
	case "http":
		return HTTP(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDownloader, name)
	}
}

// Select returns the first available downloader among names, in order.
// Unknown names are logged and skipped.
func Select(names []string) (Downloader, error) {
	for _, name := range names {
		d, err := New(name)
		if err != nil {
			log.WithError(err).Warn("skipping downloader")
			continue
		}
		if d.Available() {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w (tried %s)", ErrNoDownloader, strings.Join(names, ", "))
}
