package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/dvloznov/spendscan/internal/domain"
)

// countingCardStore records upsert traffic so tests can observe cache hits.
type countingCardStore struct {
	upserts int
	cycles  int
}

func (s *countingCardStore) UpsertCard(_ context.Context, card *domain.CardProfile) (string, error) {
	s.upserts++
	return fmt.Sprintf("card-%s-%s", card.Bank, card.MaskedNumber), nil
}

func (s *countingCardStore) InsertBillingCycle(_ context.Context, cardID string, _ *domain.BillingCycle) (string, error) {
	s.cycles++
	return cardID + "-cycle", nil
}

func TestCardCacheHit(t *testing.T) {
	inner := &countingCardStore{}
	cache := NewCardCache(inner, 4)
	card := &domain.CardProfile{Bank: "hdfc", MaskedNumber: "XXXX 9010"}

	id1, err := cache.UpsertCard(context.Background(), card)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	id2, err := cache.UpsertCard(context.Background(), card)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if id1 != id2 {
		t.Errorf("cache returned different IDs: %q vs %q", id1, id2)
	}
	if inner.upserts != 1 {
		t.Errorf("inner store saw %d upserts, want 1", inner.upserts)
	}
}

func TestCardCacheEviction(t *testing.T) {
	inner := &countingCardStore{}
	cache := NewCardCache(inner, 2)

	cards := []*domain.CardProfile{
		{Bank: "hdfc", MaskedNumber: "XXXX 0001"},
		{Bank: "icici", MaskedNumber: "XXXX 0002"},
		{Bank: "axis", MaskedNumber: "XXXX 0003"},
	}
	for _, c := range cards {
		if _, err := cache.UpsertCard(context.Background(), c); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	if cache.Len() != 2 {
		t.Fatalf("cache size = %d, want 2", cache.Len())
	}

	// The first card was evicted, so upserting it again hits the inner store.
	before := inner.upserts
	if _, err := cache.UpsertCard(context.Background(), cards[0]); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if inner.upserts != before+1 {
		t.Errorf("evicted card did not reach the inner store")
	}
}

func TestCardCacheInvalidate(t *testing.T) {
	inner := &countingCardStore{}
	cache := NewCardCache(inner, 4)
	card := &domain.CardProfile{Bank: "axis", MaskedNumber: "XXXX 7781"}

	if _, err := cache.UpsertCard(context.Background(), card); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	cache.Invalidate(card)

	if _, err := cache.UpsertCard(context.Background(), card); err != nil {
		t.Fatalf("upsert after invalidate: %v", err)
	}
	if inner.upserts != 2 {
		t.Errorf("inner store saw %d upserts, want 2", inner.upserts)
	}
}

func TestCardCacheDelegatesCycles(t *testing.T) {
	inner := &countingCardStore{}
	cache := NewCardCache(inner, 4)

	if _, err := cache.InsertBillingCycle(context.Background(), "card-1", &domain.BillingCycle{}); err != nil {
		t.Fatalf("InsertBillingCycle: %v", err)
	}
	if inner.cycles != 1 {
		t.Errorf("inner store saw %d cycle inserts, want 1", inner.cycles)
	}
}
