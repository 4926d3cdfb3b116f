package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/skybrief/aviation-nlp/internal/domain"
	"github.com/skybrief/aviation-nlp/internal/observability"
)

// CachedSummarizer wraps a Summarizer with an in-memory LRU cache keyed by
// content hash. Entries expire after the configured TTL so summaries of
// rolling weather products age out.
type CachedSummarizer struct {
	inner   Summarizer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSummarizer creates a cache decorator around a summarizer.
func NewCachedSummarizer(inner Summarizer, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedSummarizer {
	return &CachedSummarizer{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl),
		metrics: metrics,
	}
}

func (c *CachedSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	key := contentKey("summarize", text, strconv.Itoa(maxLength), strconv.Itoa(minLength))
	if v, ok := c.lookup(key); ok {
		return v.(string), nil
	}
	out, err := c.inner.Summarize(ctx, text, maxLength, minLength)
	if err != nil {
		return "", err
	}
	if out != "" {
		c.cache.put(key, out)
	}
	return out, nil
}

func (c *CachedSummarizer) SummarizeReport(ctx context.Context, kind domain.ReportKind, text string, maxLength int) (string, error) {
	key := contentKey("summarize-report", string(kind), text, strconv.Itoa(maxLength))
	if v, ok := c.lookup(key); ok {
		return v.(string), nil
	}
	out, err := c.inner.SummarizeReport(ctx, kind, text, maxLength)
	if err != nil {
		return "", err
	}
	if out != "" {
		c.cache.put(key, out)
	}
	return out, nil
}

func (c *CachedSummarizer) ParseNotam(ctx context.Context, notamText, airportCode string) (domain.StructuredNotam, error) {
	key := contentKey("parse-notam", notamText, airportCode)
	if v, ok := c.lookup(key); ok {
		return v.(domain.StructuredNotam), nil
	}
	out, err := c.inner.ParseNotam(ctx, notamText, airportCode)
	if err != nil {
		return domain.StructuredNotam{}, err
	}
	c.cache.put(key, out)
	return out, nil
}

func (c *CachedSummarizer) ExplainMetar(ctx context.Context, metarText string) (string, error) {
	key := contentKey("explain-metar", metarText)
	if v, ok := c.lookup(key); ok {
		return v.(string), nil
	}
	out, err := c.inner.ExplainMetar(ctx, metarText)
	if err != nil {
		return "", err
	}
	if out != "" {
		c.cache.put(key, out)
	}
	return out, nil
}

// HealthCheck delegates to the underlying summarizer.
func (c *CachedSummarizer) HealthCheck(ctx context.Context) error {
	return c.inner.HealthCheck(ctx)
}

func (c *CachedSummarizer) lookup(key string) (any, bool) {
	v, ok := c.cache.get(key)
	if ok {
		c.metrics.SummaryCache.WithLabelValues("hit").Inc()
	} else {
		c.metrics.SummaryCache.WithLabelValues("miss").Inc()
	}
	return v, ok
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// contentKey hashes an operation plus its normalized inputs, so repeats of
// the same content hit the cache even when spacing or casing differ.
func contentKey(op string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(op))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(normalizeContent(p)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeContent(text string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// lruCache is a thread-safe LRU cache with per-entry expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if domain.Now().After(e.expiresAt) {
		delete(c.entries, e.key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := domain.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
