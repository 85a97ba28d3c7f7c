package library

import (
	"context"
	"time"

	"mpdfm/cache"
	"mpdfm/logger"
)

// Service serves the library listing, caching scan results in Redis. The
// cache is best-effort: if Redis is down the service degrades to scanning
// the directory on every call.
type Service struct {
	dir string
	ttl time.Duration
}

// NewService creates a library service over the given music directory.
func NewService(dir string, ttl time.Duration) *Service {
	return &Service{dir: dir, ttl: ttl}
}

// Dir returns the music directory the service scans.
func (s *Service) Dir() string {
	return s.dir
}

// Files returns the sorted relative paths of all playable files, from cache
// when possible.
func (s *Service) Files(ctx context.Context) ([]string, error) {
	files, err := cache.GetLibrary(ctx)
	if err != nil {
		logger.Warn("library cache read failed, falling back to scan", logger.ErrorField(err))
	} else if files != nil {
		return files, nil
	}

	files, err = Scan(s.dir)
	if err != nil {
		return nil, err
	}

	if err := cache.SetLibrary(ctx, files, s.ttl); err != nil {
		logger.Warn("library cache write failed", logger.ErrorField(err))
	}
	return files, nil
}

// Invalidate drops the cached listing.
func (s *Service) Invalidate(ctx context.Context) {
	if err := cache.InvalidateLibrary(ctx); err != nil {
		logger.Warn("library cache invalidation failed", logger.ErrorField(err))
	}
}
