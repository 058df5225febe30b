// Package fetch makes sure the VCF data file is present on disk.
//
// A download only happens when the target is missing, empty, or fails the
// configured integrity pin. Bytes land in <target>.part first and are renamed
// into place once the downloader exits cleanly, so an interrupted run never
// leaves a file that a later run mistakes for a finished one.
//
// Downloaders are tried in configured order (curl, then wget by default); the
// first one found on PATH is used. When none is found Ensure returns
// ErrNoDownloader.
package fetch
