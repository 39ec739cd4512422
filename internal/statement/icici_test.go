package statement

import (
	"testing"
	"time"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/domain"
)

const iciciSample = `ICICI Bank Credit Card Statement
MR ROHAN SHARMA
Card Number: 4375XXXXXXXX9012
Statement Date: 15-01-2024
Payment Due Date: 02-02-2024
Statement Period: 16-12-2023 to 15-01-2024
Total Amount due: 12,430.00
Minimum Amount due: 620.00

18-12-2023 AMAZON PAY INDIA 2,499.00
22-12-2023 ZOMATO GURGAON 310.00
28-12-2023 REFUND MYNTRA 899.00 CR
`

func TestICICIParse(t *testing.T) {
	p := NewICICI(category.Default())

	parsed, err := p.Parse(iciciSample)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Card.MaskedNumber != "4375XXXXXXXX9012" {
		t.Errorf("masked number = %q", parsed.Card.MaskedNumber)
	}
	if parsed.Card.HolderName != "ROHAN SHARMA" {
		t.Errorf("holder = %q", parsed.Card.HolderName)
	}

	if parsed.Cycle.TotalDue != 12430.00 {
		t.Errorf("total due = %v, want 12430.00", parsed.Cycle.TotalDue)
	}
	if parsed.Cycle.MinimumDue != 620.00 {
		t.Errorf("minimum due = %v, want 620.00", parsed.Cycle.MinimumDue)
	}

	// Explicit period line takes precedence over the derived window.
	wantStart := time.Date(2023, 12, 16, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !parsed.Cycle.StartDate.Equal(wantStart) || !parsed.Cycle.EndDate.Equal(wantEnd) {
		t.Errorf("cycle window = [%v, %v), want [%v, %v)",
			parsed.Cycle.StartDate, parsed.Cycle.EndDate, wantStart, wantEnd)
	}

	if len(parsed.Transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(parsed.Transactions))
	}

	if tx := parsed.Transactions[0]; tx.Direction != domain.DirectionSent || tx.Category != category.NameShopping {
		t.Errorf("amazon line = %+v", tx)
	}
	if tx := parsed.Transactions[1]; tx.Category != category.NameFood {
		t.Errorf("zomato line = %+v", tx)
	}
	if tx := parsed.Transactions[2]; tx.Direction != domain.DirectionReceived {
		t.Errorf("refund line should be RECEIVED, got %+v", tx)
	}
}
