// Package memory provides in-memory store implementations. They back tests
// and single-process runs where BigQuery is not configured.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/store"
)

type storedTransaction struct {
	id        string
	candidate domain.TransactionCandidate
}

// Store keeps transactions, order items, cards and billing cycles in memory.
// Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	transactions []storedTransaction
	seen         map[string]struct{}
	items        []*domain.TransactionItem
	cardIDs      map[string]string
	cards        map[string]*domain.CardProfile
	cycles       map[string][]*domain.BillingCycle
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		seen:    make(map[string]struct{}),
		cardIDs: make(map[string]string),
		cards:   make(map[string]*domain.CardProfile),
		cycles:  make(map[string][]*domain.BillingCycle),
	}
}

// dedupKey identifies a transaction for duplicate suppression. Two candidates
// from the same bank with the same amount in the same minute are one event
// observed twice.
func dedupKey(c *domain.TransactionCandidate) string {
	return fmt.Sprintf("%s|%.2f|%s", c.Bank, c.Amount, c.Timestamp.UTC().Truncate(time.Minute).Format(time.RFC3339))
}

// InsertCandidates implements store.TransactionStore.
func (s *Store) InsertCandidates(ctx context.Context, candidates []*domain.TransactionCandidate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, c := range candidates {
		key := dedupKey(c)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.transactions = append(s.transactions, storedTransaction{
			id:        uuid.NewString(),
			candidate: *c,
		})
		inserted++
	}
	return inserted, nil
}

// LookupTransaction implements store.TransactionStore. The pattern uses SQL
// LIKE syntax; only the leading/trailing wildcard form produced by
// reconciliation is supported.
func (s *Store) LookupTransaction(ctx context.Context, placePattern string, at time.Time, amount float64) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	needle := strings.ToLower(strings.Trim(placePattern, "%"))
	minute := at.UTC().Truncate(time.Minute)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		if tx.candidate.Amount != amount {
			continue
		}
		if !tx.candidate.Timestamp.UTC().Truncate(time.Minute).Equal(minute) {
			continue
		}
		if strings.Contains(strings.ToLower(tx.candidate.Place), needle) ||
			strings.Contains(strings.ToLower(tx.candidate.RawText), needle) {
			return tx.id, true, nil
		}
	}
	return "", false, nil
}

// InsertTransactionItems implements store.TransactionStore.
func (s *Store) InsertTransactionItems(ctx context.Context, items []*domain.TransactionItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	return nil
}

// UpsertCard implements store.CardStore.
func (s *Store) UpsertCard(ctx context.Context, card *domain.CardProfile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := card.Bank + "|" + card.MaskedNumber

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.cardIDs[key]; ok {
		return id, nil
	}
	id := uuid.NewString()
	s.cardIDs[key] = id
	copied := *card
	s.cards[id] = &copied
	return id, nil
}

// InsertBillingCycle implements store.CardStore.
func (s *Store) InsertBillingCycle(ctx context.Context, cardID string, cycle *domain.BillingCycle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[cardID]; !ok {
		return "", fmt.Errorf("InsertBillingCycle: unknown card %q", cardID)
	}
	copied := *cycle
	s.cycles[cardID] = append(s.cycles[cardID], &copied)
	return uuid.NewString(), nil
}

// Transactions returns a snapshot of stored candidates, in insertion order.
func (s *Store) Transactions() []domain.TransactionCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TransactionCandidate, len(s.transactions))
	for i, tx := range s.transactions {
		out[i] = tx.candidate
	}
	return out
}

// Items returns a snapshot of stored transaction items.
func (s *Store) Items() []*domain.TransactionItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TransactionItem, len(s.items))
	copy(out, s.items)
	return out
}

// Cycles returns the billing cycles recorded for a card.
func (s *Store) Cycles(cardID string) []*domain.BillingCycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.BillingCycle(nil), s.cycles[cardID]...)
}

var _ store.TransactionStore = (*Store)(nil)
var _ store.CardStore = (*Store)(nil)
