package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/jobs"
)

// fakeTransactionStore wires canned lookup results into the matcher.
type fakeTransactionStore struct {
	lookupID string
	lookupOK bool

	lookups  []lookupCall
	inserted []*domain.TransactionItem
}

type lookupCall struct {
	pattern string
	at      time.Time
	amount  float64
}

func (f *fakeTransactionStore) InsertCandidates(context.Context, []*domain.TransactionCandidate) (int, error) {
	return 0, nil
}

func (f *fakeTransactionStore) LookupTransaction(_ context.Context, pattern string, at time.Time, amount float64) (string, bool, error) {
	f.lookups = append(f.lookups, lookupCall{pattern: pattern, at: at, amount: amount})
	return f.lookupID, f.lookupOK, nil
}

func (f *fakeTransactionStore) InsertTransactionItems(_ context.Context, items []*domain.TransactionItem) error {
	f.inserted = append(f.inserted, items...)
	return nil
}

type fakePublisher struct {
	published []*jobs.ReconcileJob
}

func (f *fakePublisher) PublishReconcile(_ context.Context, job *jobs.ReconcileJob) error {
	f.published = append(f.published, job)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func item(orderID string, at time.Time, owed float64, name string) domain.OrderItemRecord {
	return domain.OrderItemRecord{
		OrderID:     orderID,
		OrderedAt:   at,
		TotalOwed:   owed,
		Quantity:    1,
		ProductName: name,
	}
}

func TestReconcileGroupsSameMinute(t *testing.T) {
	ts := time.Date(2024, 1, 10, 14, 30, 5, 0, time.UTC)
	fake := &fakeTransactionStore{lookupID: "tx-1", lookupOK: true}
	m := NewMatcher(fake, nil, zerolog.Nop())

	// Two line items of one order, 30 seconds apart, are one payment.
	report, err := m.Reconcile(context.Background(), "amazon", []domain.OrderItemRecord{
		item("ord-1", ts, 499.00, "usb cable"),
		item("ord-1", ts.Add(30*time.Second), 800.00, "power bank"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.GroupsTotal)
	assert.Equal(t, 1, report.GroupsMatched)
	assert.Equal(t, 2, report.ItemsInserted)
	require.Len(t, fake.lookups, 1)
	assert.Equal(t, "%amazon%", fake.lookups[0].pattern)
	assert.Equal(t, 1299.00, fake.lookups[0].amount)

	require.Len(t, fake.inserted, 2)
	for _, row := range fake.inserted {
		assert.Equal(t, "tx-1", row.TransactionID)
		assert.Equal(t, domain.DefaultReturnStatus, row.ReturnStatus)
	}
}

func TestReconcileGroupsAcrossOrderIDs(t *testing.T) {
	ts := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)
	fake := &fakeTransactionStore{lookupID: "tx-7", lookupOK: true}
	m := NewMatcher(fake, nil, zerolog.Nop())

	// One checkout can split into several order ids; the payment is still a
	// single charge for the combined amount.
	report, err := m.Reconcile(context.Background(), "amazon", []domain.OrderItemRecord{
		item("ord-a", ts, 100.00, "notebook"),
		item("ord-b", ts.Add(30*time.Second), 50.00, "pen set"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.GroupsTotal)
	assert.Equal(t, 1, report.GroupsMatched)
	require.Len(t, fake.lookups, 1)
	assert.Equal(t, 150.00, fake.lookups[0].amount)
	assert.Equal(t, ts.Truncate(time.Minute), fake.lookups[0].at)

	require.Len(t, fake.inserted, 2)
	for _, row := range fake.inserted {
		assert.Equal(t, "tx-7", row.TransactionID)
	}
}

func TestReconcileMissDropsGroup(t *testing.T) {
	ts := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)
	fake := &fakeTransactionStore{lookupOK: false}
	m := NewMatcher(fake, nil, zerolog.Nop())

	report, err := m.Reconcile(context.Background(), "flipkart", []domain.OrderItemRecord{
		item("ord-2", ts, 2100.00, "headphones"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.GroupsMatched)
	assert.Empty(t, fake.inserted)
	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "ord-2", report.Unmatched[0].OrderID)
	assert.Equal(t, 2100.00, report.Unmatched[0].TotalOwed)
}

func TestReconcileMissDefersWhenPublisherSet(t *testing.T) {
	ts := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)
	fake := &fakeTransactionStore{lookupOK: false}
	pub := &fakePublisher{}
	m := NewMatcher(fake, pub, zerolog.Nop())

	report, err := m.Reconcile(context.Background(), "myntra", []domain.OrderItemRecord{
		item("ord-3", ts, 999.00, "sneakers"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Deferred)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "ord-3", pub.published[0].OrderID)
	assert.Equal(t, "myntra", pub.published[0].Merchant)
	assert.Equal(t, 999.00, pub.published[0].TotalOwed)
}

func TestReconcileSeparateMinutesSeparateGroups(t *testing.T) {
	ts := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)
	fake := &fakeTransactionStore{lookupID: "tx-9", lookupOK: true}
	m := NewMatcher(fake, nil, zerolog.Nop())

	report, err := m.Reconcile(context.Background(), "amazon", []domain.OrderItemRecord{
		item("ord-4", ts, 100.00, "a"),
		item("ord-4", ts.Add(2*time.Minute), 200.00, "b"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.GroupsTotal)
	require.Len(t, fake.lookups, 2)
	// Deterministic order: earlier minute first.
	assert.Equal(t, 100.00, fake.lookups[0].amount)
	assert.Equal(t, 200.00, fake.lookups[1].amount)
}

func TestReconcileRequiresMerchant(t *testing.T) {
	m := NewMatcher(&fakeTransactionStore{}, nil, zerolog.Nop())
	_, err := m.Reconcile(context.Background(), "", nil)
	assert.Error(t, err)
}
