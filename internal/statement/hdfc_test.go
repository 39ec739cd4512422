package statement

import (
	"testing"
	"time"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/domain"
)

const hdfcSample = `HDFC Bank Credit Card Statement
Name: ROHAN SHARMA
Card No: 4523 XXXX XXXX 9010
Statement Date: 15/01/2024
Payment Due Date: 04/02/2024
Total Amount Due: 45,230.50
Minimum Amount Due: 2,262.00
Credit Limit: 1,50,000

Date        Description               Amount
12/12/2023  SWIGGY BANGALORE          450.00 Dr
18/12/2023  AMAZON RETAIL             2,499.00 Dr
05/01/2024  PAYMENT RECEIVED          10,000.00 Cr
Reward points earned this cycle: 320
`

func TestHDFCParse(t *testing.T) {
	p := NewHDFC(category.Default())

	parsed, err := p.Parse(hdfcSample)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Card identity
	if parsed.Card.Bank != "HDFC Bank" {
		t.Errorf("card bank = %q, want %q", parsed.Card.Bank, "HDFC Bank")
	}
	if parsed.Card.MaskedNumber != "4523 XXXX XXXX 9010" {
		t.Errorf("masked number = %q", parsed.Card.MaskedNumber)
	}
	if parsed.Card.HolderName != "ROHAN SHARMA" {
		t.Errorf("holder = %q", parsed.Card.HolderName)
	}
	if parsed.Card.CreditLimit == nil || *parsed.Card.CreditLimit != 150000 {
		t.Errorf("credit limit = %v, want 150000", parsed.Card.CreditLimit)
	}
	if parsed.Card.StatementDay == nil || *parsed.Card.StatementDay != 15 {
		t.Errorf("statement day = %v, want 15", parsed.Card.StatementDay)
	}

	// Payment summary round-trip: the synthetic statement's known totals must
	// come back exactly.
	if parsed.Cycle.TotalDue != 45230.50 {
		t.Errorf("total due = %v, want 45230.50", parsed.Cycle.TotalDue)
	}
	if parsed.Cycle.MinimumDue != 2262.00 {
		t.Errorf("minimum due = %v, want 2262.00", parsed.Cycle.MinimumDue)
	}
	if parsed.Cycle.DueDateText != "04/02/2024" {
		t.Errorf("due date text = %q", parsed.Cycle.DueDateText)
	}
	wantDue := time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC)
	if !parsed.Cycle.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", parsed.Cycle.DueDate, wantDue)
	}
	if parsed.Cycle.StatementMonth != "2024-01" {
		t.Errorf("statement month = %q, want 2024-01", parsed.Cycle.StatementMonth)
	}
	if parsed.Cycle.Status != domain.CycleOpen {
		t.Errorf("status = %s, want %s", parsed.Cycle.Status, domain.CycleOpen)
	}

	// Derived window: one month ending on the statement date.
	wantStart := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !parsed.Cycle.StartDate.Equal(wantStart) || !parsed.Cycle.EndDate.Equal(wantEnd) {
		t.Errorf("cycle window = [%v, %v), want [%v, %v)",
			parsed.Cycle.StartDate, parsed.Cycle.EndDate, wantStart, wantEnd)
	}

	// Ledger
	if len(parsed.Transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(parsed.Transactions))
	}

	swiggy := parsed.Transactions[0]
	if swiggy.Amount != 450 || swiggy.Direction != domain.DirectionSent {
		t.Errorf("swiggy line = %+v", swiggy)
	}
	if swiggy.Category != category.NameFood {
		t.Errorf("swiggy category = %s, want %s", swiggy.Category, category.NameFood)
	}
	if swiggy.Source != domain.SourceCardStatement {
		t.Errorf("swiggy source = %s", swiggy.Source)
	}

	amazon := parsed.Transactions[1]
	if amazon.Amount != 2499 || amazon.Category != category.NameShopping {
		t.Errorf("amazon line = %+v", amazon)
	}

	payment := parsed.Transactions[2]
	if payment.Direction != domain.DirectionReceived || payment.Amount != 10000 {
		t.Errorf("payment line = %+v", payment)
	}
}
