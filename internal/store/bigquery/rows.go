package bigquery

import (
	"math"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	Source    string `bigquery:"source"`    // REQUIRED (SMS | CARD_STATEMENT)
	Direction string `bigquery:"direction"` // REQUIRED (SENT | RECEIVED | UNKNOWN)

	Amount  *big.Rat  `bigquery:"amount"`   // REQUIRED NUMERIC
	EventTS time.Time `bigquery:"event_ts"` // REQUIRED TIMESTAMP

	Bank     string              `bigquery:"bank"`     // REQUIRED ("Unknown" when unresolved)
	Place    bigquery.NullString `bigquery:"place"`    // NULLABLE
	Category string              `bigquery:"category"` // REQUIRED

	RawText string `bigquery:"raw_text"` // REQUIRED

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

type TransactionItemRow struct {
	ItemID        string `bigquery:"item_id"`        // REQUIRED
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	OrderID   string     `bigquery:"order_id"`   // REQUIRED
	OrderDate civil.Date `bigquery:"order_date"` // REQUIRED

	UnitPrice *big.Rat `bigquery:"unit_price"` // REQUIRED NUMERIC
	Tax       *big.Rat `bigquery:"tax"`        // NULLABLE NUMERIC
	Shipping  *big.Rat `bigquery:"shipping"`   // NULLABLE NUMERIC
	Discount  *big.Rat `bigquery:"discount"`   // NULLABLE NUMERIC
	TotalOwed *big.Rat `bigquery:"total_owed"` // REQUIRED NUMERIC

	Quantity          int64  `bigquery:"quantity"`           // REQUIRED
	ProductName       string `bigquery:"product_name"`       // REQUIRED
	PaymentInstrument string `bigquery:"payment_instrument"` // NULLABLE

	ReturnStatus   string              `bigquery:"return_status"`   // REQUIRED (default NOT_RETURNED)
	ResolutionNote bigquery.NullString `bigquery:"resolution_note"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

type CardRow struct {
	CardID string `bigquery:"card_id"` // REQUIRED

	Bank         string              `bigquery:"bank"`          // REQUIRED
	MaskedNumber string              `bigquery:"masked_number"` // REQUIRED
	CardType     bigquery.NullString `bigquery:"card_type"`     // NULLABLE
	HolderName   bigquery.NullString `bigquery:"holder_name"`   // NULLABLE

	CreditLimit  bigquery.NullFloat64 `bigquery:"credit_limit"`  // NULLABLE
	StatementDay bigquery.NullInt64   `bigquery:"statement_day"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

type BillingCycleRow struct {
	CycleID string `bigquery:"cycle_id"` // REQUIRED
	CardID  string `bigquery:"card_id"`  // REQUIRED

	StartDate civil.Date `bigquery:"start_date"` // REQUIRED
	EndDate   civil.Date `bigquery:"end_date"`   // REQUIRED
	DueDate   civil.Date `bigquery:"due_date"`   // REQUIRED

	DueDateText bigquery.NullString `bigquery:"due_date_text"` // NULLABLE (as printed on the statement)

	TotalDue   *big.Rat `bigquery:"total_due"`   // REQUIRED NUMERIC
	MinimumDue *big.Rat `bigquery:"minimum_due"` // REQUIRED NUMERIC
	PaidAmount *big.Rat `bigquery:"paid_amount"` // REQUIRED NUMERIC

	StatementMonth string `bigquery:"statement_month"` // REQUIRED (YYYY-MM)
	Status         string `bigquery:"status"`          // REQUIRED

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// rat converts a two-decimal currency amount into a NUMERIC value.
func rat(amount float64) *big.Rat {
	return big.NewRat(int64(math.Round(amount*100)), 100)
}
