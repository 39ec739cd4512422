// Package reconcile attaches imported order line items to transactions that
// were extracted from SMS messages or card statements.
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/jobs"
	"github.com/dvloznov/spendscan/internal/store"
)

// UnmatchedGroup describes one order group that found no stored transaction.
type UnmatchedGroup struct {
	OrderID   string
	OrderedAt time.Time
	Merchant  string
	TotalOwed float64
	Items     []domain.OrderItemRecord
}

// Report summarizes one reconciliation run.
type Report struct {
	GroupsTotal   int
	GroupsMatched int
	ItemsInserted int
	Deferred      int
	Unmatched     []UnmatchedGroup
}

// Matcher reconciles order items against stored transactions. An optional
// publisher turns misses into deferred retry jobs instead of silent drops.
type Matcher struct {
	store     store.TransactionStore
	publisher jobs.Publisher
	logger    zerolog.Logger
}

// NewMatcher creates a Matcher. publisher may be nil, in which case unmatched
// groups are only reported.
func NewMatcher(txStore store.TransactionStore, publisher jobs.Publisher, logger zerolog.Logger) *Matcher {
	return &Matcher{store: txStore, publisher: publisher, logger: logger}
}

type orderGroup struct {
	// orderID is the first item's order id, kept only to label the group in
	// logs and reports.
	orderID   string
	orderedAt time.Time
	items     []domain.OrderItemRecord
	total     float64
}

// Reconcile matches the given order items against stored transactions.
// Items ordered within the same minute are one payment, no matter how the
// export splits them across order ids, so they are grouped by the minute
// and their owed amounts summed before the lookup. A group that matches
// inserts one transaction item per order item; a group that misses is dropped
// from output and, when a publisher is configured, re-queued for a later
// attempt.
func (m *Matcher) Reconcile(ctx context.Context, merchant string, items []domain.OrderItemRecord) (*Report, error) {
	if merchant == "" {
		return nil, fmt.Errorf("Reconcile: merchant is required")
	}

	groups := groupByMinute(items)
	pattern := "%" + strings.ToLower(merchant) + "%"

	report := &Report{GroupsTotal: len(groups)}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		txID, ok, err := m.store.LookupTransaction(ctx, pattern, g.orderedAt, g.total)
		if err != nil {
			return report, fmt.Errorf("Reconcile: looking up group %s@%s: %w",
				g.orderID, g.orderedAt.Format(time.RFC3339), err)
		}

		if !ok {
			m.logger.Debug().
				Str("order_id", g.orderID).
				Time("ordered_at", g.orderedAt).
				Float64("total_owed", g.total).
				Msg("no transaction matched order group")
			report.Unmatched = append(report.Unmatched, UnmatchedGroup{
				OrderID:   g.orderID,
				OrderedAt: g.orderedAt,
				Merchant:  merchant,
				TotalOwed: g.total,
				Items:     g.items,
			})
			if m.publisher != nil {
				job := &jobs.ReconcileJob{
					OrderID:   g.orderID,
					OrderedAt: g.orderedAt,
					Merchant:  merchant,
					TotalOwed: g.total,
					Items:     g.items,
				}
				if err := m.publisher.PublishReconcile(ctx, job); err != nil {
					m.logger.Warn().Err(err).Str("order_id", g.orderID).Msg("failed to defer order group")
				} else {
					report.Deferred++
				}
			}
			continue
		}

		rows := make([]*domain.TransactionItem, 0, len(g.items))
		for _, item := range g.items {
			rows = append(rows, domain.NewTransactionItem(txID, item))
		}
		if err := m.store.InsertTransactionItems(ctx, rows); err != nil {
			return report, fmt.Errorf("Reconcile: inserting items for group %s: %w", g.orderID, err)
		}

		report.GroupsMatched++
		report.ItemsInserted += len(rows)
		m.logger.Info().
			Str("order_id", g.orderID).
			Str("transaction_id", txID).
			Int("items", len(rows)).
			Msg("order group reconciled")
	}

	return report, nil
}

// groupByMinute buckets items by minute-truncated timestamp alone; one
// checkout can spread line items across order ids but pays once. Groups come
// back sorted by key so runs are deterministic.
func groupByMinute(items []domain.OrderItemRecord) []orderGroup {
	byKey := make(map[string]*orderGroup)
	for _, item := range items {
		minute := item.OrderedAt.UTC().Truncate(time.Minute)
		key := minute.Format(time.RFC3339)
		g, ok := byKey[key]
		if !ok {
			g = &orderGroup{orderID: item.OrderID, orderedAt: minute}
			byKey[key] = g
		}
		g.items = append(g.items, item)
		g.total += item.TotalOwed
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]orderGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, *byKey[k])
	}
	return groups
}
