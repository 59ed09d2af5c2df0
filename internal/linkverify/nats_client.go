package linkverify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/docsmith/docsmith/internal/config"
)

// CacheEntry is one cached external-link probe result.
type CacheEntry struct {
	URL       string    `json:"url"`
	OK        bool      `json:"ok"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Cache stores external probe results between verification runs.
type Cache interface {
	Get(ctx context.Context, url string) (*CacheEntry, bool)
	Set(ctx context.Context, entry *CacheEntry) error
	Close() error
}

// cacheTTL bounds how long a probe result stays authoritative.
const cacheTTL = 24 * time.Hour

// NATSCache caches probe results in a JetStream KV bucket and publishes
// broken-link events on the configured subject.
type NATSCache struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	kv      jetstream.KeyValue
	subject string
}

// NewNATSCache connects to NATS and initializes the KV bucket.
func NewNATSCache(cfg *config.EventsConfig) (*NATSCache, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("events are disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	cache := &NATSCache{conn: conn, js: js, subject: cfg.Subject}
	if err := cache.initKVBucket(cfg.KVBucket); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize KV bucket: %w", err)
	}

	slog.Info("NATS link cache initialized",
		slog.String("url", cfg.NATSURL),
		slog.String("kv_bucket", cfg.KVBucket))
	return cache, nil
}

// initKVBucket creates or gets the KV bucket for the link cache.
func (c *NATSCache) initKVBucket(bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := c.js.KeyValue(ctx, bucket)
	if err == nil {
		c.kv = kv
		return nil
	}

	kv, err = c.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "External link verification cache",
		MaxBytes:    100 * 1024 * 1024,
		History:     1,
	})
	if err != nil {
		return err
	}
	c.kv = kv
	return nil
}

// cacheKey sanitizes a URL for use as a KV key.
func cacheKey(url string) string {
	key := make([]byte, 0, len(url))
	for i := 0; i < len(url); i++ {
		ch := url[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			key = append(key, ch)
		default:
			key = append(key, '.')
		}
	}
	return string(key)
}

// Get returns a cached entry if present and still fresh.
func (c *NATSCache) Get(ctx context.Context, url string) (*CacheEntry, bool) {
	kve, err := c.kv.Get(ctx, cacheKey(url))
	if err != nil {
		return nil, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(kve.Value(), &entry); err != nil {
		return nil, false
	}
	if time.Since(entry.CheckedAt) > cacheTTL {
		return nil, false
	}
	return &entry, true
}

// Set stores a probe result and publishes an event for broken links.
func (c *NATSCache) Set(ctx context.Context, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if _, err := c.kv.Put(ctx, cacheKey(entry.URL), data); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	if !entry.OK && c.subject != "" {
		if err := c.conn.Publish(c.subject+".broken_link", data); err != nil {
			slog.Warn("Failed to publish broken link event", slog.String("url", entry.URL))
		}
	}
	return nil
}

// Close drains the NATS connection.
func (c *NATSCache) Close() error {
	c.conn.Close()
	return nil
}

// MemoryCache is an in-process Cache for single runs and tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*CacheEntry)}
}

func (m *MemoryCache) Get(_ context.Context, url string) (*CacheEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[url]
	if !ok || time.Since(entry.CheckedAt) > cacheTTL {
		return nil, false
	}
	return entry, true
}

func (m *MemoryCache) Set(_ context.Context, entry *CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.URL] = entry
	return nil
}

func (m *MemoryCache) Close() error { return nil }
