package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/cache"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
)

const sessionKeyPrefix = "kambaz:session:"

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is a cookie jar that mirrors the cookies of each host into a cache so
// the next process can resume the backend session.
type PersistentJar struct {
	jar    *cookiejar.Jar
	cache  cache.CacheService
	ttl    time.Duration
	logger utils.Logger
}

func NewPersistentJar(store cache.CacheService, ttl time.Duration, logger utils.Logger) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &PersistentJar{jar: jar, cache: store, ttl: ttl, logger: logger}, nil
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := j.persist(ctx, u); err != nil {
		j.logger.Warn("Failed to persist session cookies", "host", u.Host, "error", err)
	}
}

func (j *PersistentJar) persist(ctx context.Context, u *url.URL) error {
	current := j.jar.Cookies(u)
	if len(current) == 0 {
		return j.cache.Delete(ctx, sessionKey(u))
	}

	stored := make([]storedCookie, len(current))
	for i, c := range current {
		stored[i] = storedCookie{Name: c.Name, Value: c.Value}
	}
	return j.cache.Set(ctx, sessionKey(u), stored, j.ttl)
}

// Restore loads the cookies persisted for u. Nothing persisted is not an error.
func (j *PersistentJar) Restore(ctx context.Context, u *url.URL) error {
	var stored []storedCookie
	err := j.cache.Get(ctx, sessionKey(u), &stored)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session cookies: %w", err)
	}

	cookies := make([]*http.Cookie, len(stored))
	for i, s := range stored {
		cookies[i] = &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"}
	}
	j.jar.SetCookies(u, cookies)
	j.logger.Debug("Restored session cookies", "host", u.Host, "count", len(cookies))
	return nil
}

// Forget expires the cookies of u in the jar and removes the persisted copy
func (j *PersistentJar) Forget(ctx context.Context, u *url.URL) error {
	current := j.jar.Cookies(u)
	expired := make([]*http.Cookie, len(current))
	for i, c := range current {
		expired[i] = &http.Cookie{Name: c.Name, Path: "/", MaxAge: -1}
	}
	j.jar.SetCookies(u, expired)
	return j.cache.Delete(ctx, sessionKey(u))
}

func sessionKey(u *url.URL) string {
	return sessionKeyPrefix + u.Host
}
