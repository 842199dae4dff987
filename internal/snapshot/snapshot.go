// Package snapshot persists the cached user collection under a single key.
// Backends store opaque bytes; the caller owns the encoding.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoSnapshot is returned by Read when nothing has been written yet.
var ErrNoSnapshot = errors.New("no snapshot")

// Backend reads and overwrites one snapshot value.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options select and configure a backend.
type Options struct {
	Backend       string
	Path          string // file backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

// Open builds the backend named by opts.Backend. An empty name means file.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFile(opts.Path)
	case BackendRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Key:      opts.RedisKey,
		})
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", opts.Backend)
	}
}
