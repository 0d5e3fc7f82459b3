package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type cacheEntry struct {
	Content    []byte
	Expiration time.Time
}

type memoryCache struct {
	sync.RWMutex
	items map[string]cacheEntry
}

var cache = &memoryCache{
	items: make(map[string]cacheEntry),
}

// CacheConfig configures the response cache middleware.
type CacheConfig struct {
	Expiration time.Duration
	Methods    []string
	KeyFunc    func(*gin.Context) string
}

// DefaultCacheConfig is used when no config is given.
var DefaultCacheConfig = CacheConfig{
	Expiration: 5 * time.Minute,
	Methods:    []string{http.MethodGet},
	KeyFunc:    defaultKeyFunc,
}

// defaultKeyFunc keys on path plus sorted query parameters.
func defaultKeyFunc(c *gin.Context) string {
	path := c.Request.URL.Path

	queryParams := c.Request.URL.Query()
	var queryKeys []string
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var queryString string
	for _, key := range queryKeys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			queryString += key + "=" + value + "&"
		}
	}

	hasher := md5.New()
	hasher.Write([]byte(path + "?" + queryString))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Cache creates a response cache middleware for idempotent endpoints.
func Cache(config ...CacheConfig) gin.HandlerFunc {
	var cfg CacheConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultCacheConfig
	}

	if cfg.Expiration <= 0 {
		cfg.Expiration = DefaultCacheConfig.Expiration
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = DefaultCacheConfig.Methods
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = DefaultCacheConfig.KeyFunc
	}

	return func(c *gin.Context) {
		methodAllowed := false
		for _, method := range cfg.Methods {
			if c.Request.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)

		cache.RLock()
		entry, found := cache.items[key]
		cache.RUnlock()

		if found && entry.Expiration.After(time.Now()) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Content)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			cache.Lock()
			cache.items[key] = cacheEntry{
				Content:    writer.body.Bytes(),
				Expiration: time.Now().Add(cfg.Expiration),
			}
			cache.Unlock()
		}
	}
}

// PurgeCache drops every cached response.
func PurgeCache() {
	cache.Lock()
	cache.items = make(map[string]cacheEntry)
	cache.Unlock()
}

// PurgeCacheByPrefix drops cached responses whose key has the prefix.
func PurgeCacheByPrefix(prefix string) {
	cache.Lock()
	defer cache.Unlock()

	for key := range cache.items {
		if strings.HasPrefix(key, prefix) {
			delete(cache.items, key)
		}
	}
}

// CacheStats reports cache size and entry ages.
func CacheStats() map[string]interface{} {
	cache.RLock()
	defer cache.RUnlock()

	items := make([]map[string]interface{}, 0, len(cache.items))
	for key, entry := range cache.items {
		items = append(items, map[string]interface{}{
			"key":        key,
			"size":       len(entry.Content),
			"expiration": entry.Expiration.Format(time.RFC3339),
			"expired":    entry.Expiration.Before(time.Now()),
		})
	}

	return map[string]interface{}{
		"total_items": len(cache.items),
		"items":       items,
	}
}

// responseWriter captures the response body while writing it through.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func init() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()
			cache.Lock()
			for key, entry := range cache.items {
				if entry.Expiration.Before(now) {
					delete(cache.items, key)
				}
			}
			cache.Unlock()
		}
	}()
}
