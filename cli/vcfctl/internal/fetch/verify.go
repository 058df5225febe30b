package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Integrity pins what a complete data file looks like. Zero values skip a check.
type Integrity struct {
	SHA256 string
	Size   int64
}

func (i Integrity) Configured() bool {
	return strings.TrimSpace(i.SHA256) != "" || i.Size > 0
}

type State int

const (
	Missing State = iota
	Empty
	// Present is a non-empty file with no integrity pin to check against.
	Present
	Verified
	Corrupt
)

func (s State) String() string {
	switch s {
	case Missing:
		return "missing"
	case Empty:
		return "empty"
	case Present:
		return "present"
	case Verified:
		return "verified"
	case Corrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Complete reports whether the file can be used without refetching.
func (s State) Complete() bool { return s == Present || s == Verified }

type Status struct {
	State State
	Size  int64
	// Reason explains Corrupt and Empty states.
	Reason error
}

// Check inspects path against want. The error is reserved for I/O failures.
func Check(path string, want Integrity) (Status, error) {
	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Status{State: Missing}, nil
	}
	if err != nil {
		return Status{}, err
	}
	if st.IsDir() {
		return Status{}, fmt.Errorf("%s is a directory", path)
	}
	out := Status{Size: st.Size()}
	if st.Size() == 0 {
		out.State = Empty
		out.Reason = ErrEmptyDownload
		return out, nil
	}
	if !want.Configured() {
		out.State = Present
		return out, nil
	}
	if want.Size > 0 && st.Size() != want.Size {
		out.State = Corrupt
		out.Reason = fmt.Errorf("%w: have %d bytes, want %d", ErrSizeMismatch, st.Size(), want.Size)
		return out, nil
	}
	if sum := strings.TrimSpace(want.SHA256); sum != "" {
		got, err := hashFile(path)
		if err != nil {
			return Status{}, err
		}
		if !strings.EqualFold(got, sum) {
			out.State = Corrupt
			out.Reason = fmt.Errorf("%w: have %s, want %s", ErrChecksumMismatch, got, strings.ToLower(sum))
			return out, nil
		}
	}
	out.State = Verified
	return out, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
