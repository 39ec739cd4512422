// Package bigquery persists extracted transactions, reconciled order items,
// cards and billing cycles in BigQuery.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/store"
)

const (
	transactionsTable     = "transactions"
	transactionItemsTable = "transaction_items"
	cardsTable            = "cards"
	billingCyclesTable    = "billing_cycles"
)

// Store implements store.TransactionStore and store.CardStore on top of a
// BigQuery dataset.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewStore creates a Store for the given project and dataset. The caller owns
// the client lifetime via Close.
func NewStore(ctx context.Context, projectID, datasetID string) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: bigquery client: %w", err)
	}
	return &Store{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// NewStoreWithClient creates a Store using the provided BigQuery client.
func NewStoreWithClient(client *bigquery.Client, projectID, datasetID string) *Store {
	return &Store{client: client, projectID: projectID, datasetID: datasetID}
}

// Close releases the underlying BigQuery client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) table(name string) *bigquery.Table {
	// Use fully qualified table name to avoid project ID issues
	return s.client.DatasetInProject(s.projectID, s.datasetID).Table(name)
}

func (s *Store) qualified(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.projectID, s.datasetID, name)
}

// InsertCandidates implements store.TransactionStore. Duplicates within the
// batch, keyed by bank, amount and minute, are suppressed before insert.
// Cross-batch duplicates are handled downstream by the minute-window lookup.
func (s *Store) InsertCandidates(ctx context.Context, candidates []*domain.TransactionCandidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(candidates))
	rows := make([]*TransactionRow, 0, len(candidates))
	now := time.Now().UTC()

	for _, c := range candidates {
		key := fmt.Sprintf("%s|%.2f|%s", c.Bank, c.Amount, c.Timestamp.UTC().Truncate(time.Minute).Format(time.RFC3339))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rows = append(rows, &TransactionRow{
			TransactionID: uuid.NewString(),
			Source:        string(c.Source),
			Direction:     string(c.Direction),
			Amount:        rat(c.Amount),
			EventTS:       c.Timestamp.UTC(),
			Bank:          c.Bank,
			Place:         bigquery.NullString{StringVal: c.Place, Valid: c.Place != ""},
			Category:      c.Category,
			RawText:       c.RawText,
			CreatedTS:     now,
		})
	}

	inserter := s.table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("InsertCandidates: inserting rows: %w", err)
	}

	return len(rows), nil
}

// LookupTransaction implements store.TransactionStore.
func (s *Store) LookupTransaction(ctx context.Context, placePattern string, at time.Time, amount float64) (string, bool, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT transaction_id
		FROM %s
		WHERE (LOWER(place) LIKE LOWER(@place) OR LOWER(raw_text) LIKE LOWER(@place))
		  AND TIMESTAMP_TRUNC(event_ts, MINUTE) = TIMESTAMP_TRUNC(@at, MINUTE)
		  AND amount = @amount
		LIMIT 1
	`, s.qualified(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "place", Value: placePattern},
		{Name: "at", Value: at.UTC()},
		{Name: "amount", Value: rat(amount)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return "", false, fmt.Errorf("LookupTransaction: query read: %w", err)
	}

	var row struct {
		TransactionID string `bigquery:"transaction_id"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("LookupTransaction: iter next: %w", err)
	}

	return row.TransactionID, true, nil
}

// InsertTransactionItems implements store.TransactionStore.
func (s *Store) InsertTransactionItems(ctx context.Context, items []*domain.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]*TransactionItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, &TransactionItemRow{
			ItemID:            uuid.NewString(),
			TransactionID:     item.TransactionID,
			OrderID:           item.OrderID,
			OrderDate:         civil.DateOf(item.OrderDate),
			UnitPrice:         rat(item.UnitPrice),
			Tax:               rat(item.Tax),
			Shipping:          rat(item.Shipping),
			Discount:          rat(item.Discount),
			TotalOwed:         rat(item.TotalOwed),
			Quantity:          int64(item.Quantity),
			ProductName:       item.ProductName,
			PaymentInstrument: item.PaymentInstrument,
			ReturnStatus:      item.ReturnStatus,
			ResolutionNote:    bigquery.NullString{StringVal: item.ResolutionNote, Valid: item.ResolutionNote != ""},
			CreatedTS:         now,
		})
	}

	inserter := s.table(transactionItemsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactionItems: inserting rows: %w", err)
	}

	return nil
}

// findCard looks up an existing card by bank and masked number. Returns empty
// string when no card matches.
func (s *Store) findCard(ctx context.Context, bank, maskedNumber string) (string, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT card_id
		FROM %s
		WHERE bank = @bank AND masked_number = @masked_number
		ORDER BY created_ts DESC
		LIMIT 1
	`, s.qualified(cardsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "bank", Value: bank},
		{Name: "masked_number", Value: maskedNumber},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("findCard: query read: %w", err)
	}

	var row struct {
		CardID string `bigquery:"card_id"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("findCard: iter next: %w", err)
	}

	return row.CardID, nil
}

// UpsertCard implements store.CardStore.
func (s *Store) UpsertCard(ctx context.Context, card *domain.CardProfile) (string, error) {
	existing, err := s.findCard(ctx, card.Bank, card.MaskedNumber)
	if err != nil {
		return "", fmt.Errorf("UpsertCard: %w", err)
	}
	if existing != "" {
		return existing, nil
	}

	row := &CardRow{
		CardID:       uuid.NewString(),
		Bank:         card.Bank,
		MaskedNumber: card.MaskedNumber,
		CardType:     bigquery.NullString{StringVal: card.CardType, Valid: card.CardType != ""},
		HolderName:   bigquery.NullString{StringVal: card.HolderName, Valid: card.HolderName != ""},
		CreatedTS:    time.Now().UTC(),
	}
	if card.CreditLimit != nil {
		row.CreditLimit = bigquery.NullFloat64{Float64: *card.CreditLimit, Valid: true}
	}
	if card.StatementDay != nil {
		row.StatementDay = bigquery.NullInt64{Int64: int64(*card.StatementDay), Valid: true}
	}

	inserter := s.table(cardsTable).Inserter()
	if err := inserter.Put(ctx, []*CardRow{row}); err != nil {
		return "", fmt.Errorf("UpsertCard: inserting row: %w", err)
	}

	return row.CardID, nil
}

// InsertBillingCycle implements store.CardStore.
func (s *Store) InsertBillingCycle(ctx context.Context, cardID string, cycle *domain.BillingCycle) (string, error) {
	row := &BillingCycleRow{
		CycleID:        uuid.NewString(),
		CardID:         cardID,
		StartDate:      civil.DateOf(cycle.StartDate),
		EndDate:        civil.DateOf(cycle.EndDate),
		DueDate:        civil.DateOf(cycle.DueDate),
		DueDateText:    bigquery.NullString{StringVal: cycle.DueDateText, Valid: cycle.DueDateText != ""},
		TotalDue:       rat(cycle.TotalDue),
		MinimumDue:     rat(cycle.MinimumDue),
		PaidAmount:     rat(cycle.PaidAmount),
		StatementMonth: cycle.StatementMonth,
		Status:         string(cycle.Status),
		CreatedTS:      time.Now().UTC(),
	}

	inserter := s.table(billingCyclesTable).Inserter()
	if err := inserter.Put(ctx, []*BillingCycleRow{row}); err != nil {
		return "", fmt.Errorf("InsertBillingCycle: inserting row: %w", err)
	}

	return row.CycleID, nil
}

var _ store.TransactionStore = (*Store)(nil)
var _ store.CardStore = (*Store)(nil)
