package fetch

import "errors"

var (
	// ErrNoDownloader means none of the configured download tools is installed.
	ErrNoDownloader = errors.New("no download tool available")

	ErrUnknownDownloader = errors.New("unknown downloader")
	ErrEmptyDownload     = errors.New("downloaded file is empty")
	ErrSizeMismatch      = errors.New("size mismatch")
	ErrChecksumMismatch  = errors.New("sha256 mismatch")
)
