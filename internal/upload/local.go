package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Local writes files to a directory served by the API under /uploads.
// The returned reference is a server-relative path, only resolvable
// through this server's static file route.
type Local struct {
	dir string
	now func() time.Time
}

// NewLocal builds a local-disk backend rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{dir: dir, now: time.Now}
}

var _ Backend = (*Local)(nil)

func (l *Local) Ingest(ctx context.Context, f File) (string, error) {
	if err := validate(f); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	name := objectName(l.now(), f.Name)
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return "/uploads/" + name, nil
}
