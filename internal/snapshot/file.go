package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/five82/roster/internal/pathutil"
)

// DefaultPath is where the file backend keeps the snapshot.
const DefaultPath = "~/.local/share/roster/users.json"

const lockRetryDelay = 25 * time.Millisecond

// File keeps the snapshot in a single JSON file. A sibling .lock file
// serializes access between roster processes. Every operation opens its own
// lock handle; flock locks on one handle convert instead of conflicting.
type File struct {
	path     string
	lockPath string
}

var _ Backend = (*File)(nil)

// NewFile returns a file backend at path, or DefaultPath when empty.
func NewFile(path string) (*File, error) {
	if path == "" {
		path = DefaultPath
	}
	resolved, err := pathutil.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}
	return &File{
		path:     resolved,
		lockPath: resolved + ".lock",
	}, nil
}

// Path returns the resolved snapshot file path.
func (f *File) Path() string {
	return f.path
}

// Read returns the stored bytes or ErrNoSnapshot.
func (f *File) Read(ctx context.Context) ([]byte, error) {
	if _, err := os.Stat(f.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	lock := flock.New(f.lockPath)
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock snapshot: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock snapshot: not acquired")
	}
	defer func() { _ = lock.Close() }()

	data, err := os.ReadFile(f.path) //nolint:gosec // path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Write replaces the snapshot atomically (temp file + rename).
func (f *File) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	lock := flock.New(f.lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock snapshot: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock snapshot: not acquired")
	}
	defer func() { _ = lock.Close() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Close is a no-op; lock handles are released after each operation.
func (f *File) Close() error {
	return nil
}
