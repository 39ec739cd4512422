package store

import (
	"container/list"
	"context"
	"sync"

	"github.com/dvloznov/spendscan/internal/domain"
)

// DefaultCardCacheSize bounds the cache when no explicit size is given.
const DefaultCardCacheSize = 128

// CardCache is a write-through LRU wrapper around a CardStore. Statement
// ingestion upserts the same card once per statement, so the cache turns
// repeat upserts into a map hit instead of a round trip. Safe for concurrent
// use.
type CardCache struct {
	inner CardStore

	mu      sync.Mutex
	maxSize int
	order   *list.List
	entries map[string]*list.Element
}

type cacheEntry struct {
	key    string
	cardID string
}

// NewCardCache wraps inner with an LRU of at most maxSize cards. A maxSize of
// zero or less falls back to DefaultCardCacheSize.
func NewCardCache(inner CardStore, maxSize int) *CardCache {
	if maxSize <= 0 {
		maxSize = DefaultCardCacheSize
	}
	return &CardCache{
		inner:   inner,
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func cardKey(card *domain.CardProfile) string {
	return card.Bank + "|" + card.MaskedNumber
}

// UpsertCard implements CardStore. A cached card returns its ID without
// touching the inner store.
func (c *CardCache) UpsertCard(ctx context.Context, card *domain.CardProfile) (string, error) {
	key := cardKey(card)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		id := el.Value.(*cacheEntry).cardID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	id, err := c.inner.UpsertCard(ctx, card)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return id, nil
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, cardID: id})
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return id, nil
}

// InsertBillingCycle implements CardStore by delegating to the inner store.
// Cycles are append-only so there is nothing to cache.
func (c *CardCache) InsertBillingCycle(ctx context.Context, cardID string, cycle *domain.BillingCycle) (string, error) {
	return c.inner.InsertBillingCycle(ctx, cardID, cycle)
}

// Invalidate drops the cached entry for a card, forcing the next upsert
// through to the inner store.
func (c *CardCache) Invalidate(card *domain.CardProfile) {
	key := cardKey(card)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}

// Len reports the number of cached cards.
func (c *CardCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

var _ CardStore = (*CardCache)(nil)
