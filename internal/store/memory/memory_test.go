package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/spendscan/internal/domain"
)

func candidate(bank string, amount float64, ts time.Time, place, raw string) *domain.TransactionCandidate {
	return &domain.TransactionCandidate{
		Source:    domain.SourceSMS,
		Direction: domain.DirectionSent,
		Amount:    amount,
		Timestamp: ts,
		Bank:      bank,
		Place:     place,
		RawText:   raw,
	}
}

func TestInsertCandidatesDedup(t *testing.T) {
	s := NewStore()
	ts := time.Date(2024, 1, 10, 14, 30, 5, 0, time.UTC)

	// Same bank, amount and minute: the second insert is suppressed even
	// though the seconds differ.
	n, err := s.InsertCandidates(context.Background(), []*domain.TransactionCandidate{
		candidate("HDFC", 450.00, ts, "zomato", "spent Rs 450 at zomato"),
		candidate("HDFC", 450.00, ts.Add(20*time.Second), "zomato", "spent Rs 450 at zomato"),
		candidate("ICICI", 450.00, ts, "zomato", "spent Rs 450 at zomato"),
	})
	if err != nil {
		t.Fatalf("InsertCandidates: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	if got := len(s.Transactions()); got != 2 {
		t.Errorf("stored = %d, want 2", got)
	}
}

func TestLookupTransaction(t *testing.T) {
	s := NewStore()
	ts := time.Date(2024, 1, 10, 14, 30, 5, 0, time.UTC)

	if _, err := s.InsertCandidates(context.Background(), []*domain.TransactionCandidate{
		candidate("HDFC", 1299.00, ts, "", "Rs 1299 spent at AMAZON on card"),
	}); err != nil {
		t.Fatalf("InsertCandidates: %v", err)
	}

	// Matches through raw text within the same minute.
	id, ok, err := s.LookupTransaction(context.Background(), "%amazon%", ts.Add(40*time.Second), 1299.00)
	if err != nil {
		t.Fatalf("LookupTransaction: %v", err)
	}
	if !ok || id == "" {
		t.Fatalf("lookup missed, ok=%v id=%q", ok, id)
	}

	// A different minute misses.
	if _, ok, _ := s.LookupTransaction(context.Background(), "%amazon%", ts.Add(2*time.Minute), 1299.00); ok {
		t.Errorf("lookup matched outside the minute window")
	}

	// A different amount misses.
	if _, ok, _ := s.LookupTransaction(context.Background(), "%amazon%", ts, 1298.00); ok {
		t.Errorf("lookup matched a different amount")
	}
}

func TestUpsertCardIdempotent(t *testing.T) {
	s := NewStore()
	card := &domain.CardProfile{Bank: "hdfc", MaskedNumber: "4523 XXXX XXXX 9010"}

	id1, err := s.UpsertCard(context.Background(), card)
	if err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	id2, err := s.UpsertCard(context.Background(), card)
	if err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	if id1 != id2 {
		t.Errorf("same card got two IDs: %q vs %q", id1, id2)
	}
}

func TestInsertBillingCycle(t *testing.T) {
	s := NewStore()
	card := &domain.CardProfile{Bank: "hdfc", MaskedNumber: "4523 XXXX XXXX 9010"}

	cardID, err := s.UpsertCard(context.Background(), card)
	if err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}

	cycle := &domain.BillingCycle{StatementMonth: "2024-01", TotalDue: 45230.50, Status: domain.CycleOpen}
	if _, err := s.InsertBillingCycle(context.Background(), cardID, cycle); err != nil {
		t.Fatalf("InsertBillingCycle: %v", err)
	}
	if got := len(s.Cycles(cardID)); got != 1 {
		t.Errorf("cycles = %d, want 1", got)
	}

	if _, err := s.InsertBillingCycle(context.Background(), "missing", cycle); err == nil {
		t.Errorf("InsertBillingCycle accepted an unknown card")
	}
}
