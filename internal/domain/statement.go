package domain

import (
	"time"
)

// CycleStatus tracks the payment state of a billing cycle. The parser always
// emits CycleOpen; transitions are owned by the persistence layer.
type CycleStatus string

const (
	CycleOpen          CycleStatus = "OPEN"
	CyclePaid          CycleStatus = "PAID"
	CyclePartiallyPaid CycleStatus = "PARTIALLY_PAID"
	CycleOverdue       CycleStatus = "OVERDUE"
)

// BillingCycle is the date window and payment summary for one statement
// period. The window is [StartDate, EndDate); when the statement does not
// state it explicitly, parsers derive it from the statement date.
type BillingCycle struct {
	StartDate      time.Time
	EndDate        time.Time
	DueDate        time.Time
	DueDateText    string // due date exactly as printed on the statement
	TotalDue       float64
	MinimumDue     float64
	StatementMonth string // e.g. "2024-01"
	PaidAmount     float64
	Status         CycleStatus
}

// CardProfile is the best-effort card identity extracted from one statement.
// Uniqueness by masked number is enforced by the persistence layer, not here.
type CardProfile struct {
	Bank         string
	MaskedNumber string
	CardType     string
	HolderName   string
	CreditLimit  *float64 // nil when the statement does not print a limit
	StatementDay *int     // day of month the statement is generated, if known
}
