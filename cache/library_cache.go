package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mpdfm/db"

	"github.com/redis/go-redis/v9"
)

// libraryKey holds the JSON-encoded library listing.
const libraryKey = "library:files"

// GetLibrary returns the cached library listing, or (nil, nil) on a cache
// miss.
func GetLibrary(ctx context.Context) ([]string, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	data, err := db.RedisClient.Get(ctx, libraryKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get library cache: %w", err)
	}

	var files []string
	if err := json.Unmarshal([]byte(data), &files); err != nil {
		return nil, fmt.Errorf("failed to decode library cache: %w", err)
	}
	return files, nil
}

// SetLibrary stores the library listing with the given TTL.
func SetLibrary(ctx context.Context, files []string, ttl time.Duration) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("failed to encode library cache: %w", err)
	}

	if err := db.RedisClient.Set(ctx, libraryKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set library cache: %w", err)
	}
	return nil
}

// InvalidateLibrary drops the cached listing so the next read rescans.
func InvalidateLibrary(ctx context.Context) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	if err := db.RedisClient.Del(ctx, libraryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate library cache: %w", err)
	}
	return nil
}
