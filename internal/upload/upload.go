// Package upload stores client-submitted binaries through one of two
// interchangeable backends and returns a reference URL. Validation is
// shared so both backends enforce the same limits.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MaxFileSize is the ingest ceiling for both backends.
const MaxFileSize = 5 << 20 // 5 MB

var (
	// ErrNoFile means no file bytes were provided.
	ErrNoFile = errors.New("upload: no file supplied")
	// ErrFileTooLarge means the file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("upload: file too large")
	// ErrStorageUnavailable wraps a backend transport or auth failure.
	ErrStorageUnavailable = errors.New("upload: storage unavailable")
)

// File is one uploaded binary plus its client-reported metadata.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Backend validates and durably stores a file, returning a reference URL
// a client can use to render the asset later.
type Backend interface {
	Ingest(ctx context.Context, f File) (string, error)
}

// validate runs before any backend I/O so oversized files never reach
// the transport.
func validate(f File) error {
	if len(f.Data) == 0 {
		return ErrNoFile
	}
	size := f.Size
	if size <= 0 {
		size = int64(len(f.Data))
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}
	return nil
}

// objectName builds the stored name as {unixMillis}-{originalBase}.
func objectName(now time.Time, original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}
