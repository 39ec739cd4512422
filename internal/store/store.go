// Package store defines the persistence contracts that extraction and
// reconciliation depend on. Implementations live in the memory and bigquery
// subpackages.
package store

import (
	"context"
	"time"

	"github.com/dvloznov/spendscan/internal/domain"
)

// TransactionStore persists extracted transaction candidates and supports the
// lookups reconciliation needs.
type TransactionStore interface {
	// InsertCandidates persists a batch of candidates and returns how many
	// were actually written after duplicate suppression.
	InsertCandidates(ctx context.Context, candidates []*domain.TransactionCandidate) (int, error)

	// LookupTransaction finds a stored transaction whose place or raw text
	// matches placePattern (SQL LIKE semantics, % wildcards), whose timestamp
	// falls in the same minute as at, and whose amount equals amount. It
	// returns the transaction ID and true on a hit, and false when nothing
	// matched.
	LookupTransaction(ctx context.Context, placePattern string, at time.Time, amount float64) (string, bool, error)

	// InsertTransactionItems persists reconciled order line items.
	InsertTransactionItems(ctx context.Context, items []*domain.TransactionItem) error
}

// CardStore persists card profiles and their billing cycles.
type CardStore interface {
	// UpsertCard finds an existing card by (bank, masked number) or creates a
	// new one, returning its ID.
	UpsertCard(ctx context.Context, card *domain.CardProfile) (string, error)

	// InsertBillingCycle records one statement's billing cycle for a card and
	// returns the cycle ID.
	InsertBillingCycle(ctx context.Context, cardID string, cycle *domain.BillingCycle) (string, error)
}
