package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

type fileRecord struct {
	Data      json.RawMessage `json:"data"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}

// fileCache is a memory cache snapshotted to a single JSON file after every write,
// so a short lived CLI process can pick up where the previous one stopped.
type fileCache struct {
	*memoryCache
	path string
}

func NewFileCache(path string) (CacheService, error) {
	c := &fileCache{
		memoryCache: NewMemoryCache().(*memoryCache),
		path:        path,
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	var records map[string]fileRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}
	for key, r := range records {
		c.entries[key] = memoryEntry{data: r.Data, expiresAt: r.ExpiresAt}
	}
	return c, nil
}

func (f *fileCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := f.memoryCache.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return f.save()
}

func (f *fileCache) Delete(ctx context.Context, key string) error {
	if err := f.memoryCache.Delete(ctx, key); err != nil {
		return err
	}
	return f.save()
}

func (f *fileCache) DeletePattern(ctx context.Context, pattern string) error {
	if err := f.memoryCache.DeletePattern(ctx, pattern); err != nil {
		return err
	}
	return f.save()
}

func (f *fileCache) save() error {
	f.mu.Lock()
	records := make(map[string]fileRecord, len(f.entries))
	now := f.now()
	for key, e := range f.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			continue
		}
		records[key] = fileRecord{Data: e.data, ExpiresAt: e.expiresAt}
	}
	f.mu.Unlock()

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", f.path, err)
	}
	return nil
}
