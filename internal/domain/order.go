package domain

import (
	"time"
)

// OrderItemRecord is one order line item supplied in bulk by an external
// import (e.g. an e-commerce order history export). Read-only to this core.
type OrderItemRecord struct {
	OrderID           string
	OrderedAt         time.Time
	UnitPrice         float64
	Tax               float64
	Shipping          float64
	Discount          float64
	TotalOwed         float64
	Quantity          int
	ProductName       string
	PaymentInstrument string
	OrderStatus       string
}

// Default values for TransactionItem fields that the order export does not
// carry.
const (
	DefaultReturnStatus   = "NOT_RETURNED"
	DefaultResolutionNote = ""
)

// TransactionItem attaches one order line item to a persisted transaction.
// Produced only by the reconciliation matcher, only on a lookup hit.
type TransactionItem struct {
	TransactionID     string // identity of the matched transaction
	OrderID           string
	OrderDate         time.Time
	UnitPrice         float64
	Tax               float64
	Shipping          float64
	Discount          float64
	TotalOwed         float64
	Quantity          int
	ProductName       string
	PaymentInstrument string
	ReturnStatus      string
	ResolutionNote    string
}

// NewTransactionItem copies the monetary and descriptive fields of an order
// item verbatim onto a transaction, defaulting the return/resolution fields.
func NewTransactionItem(transactionID string, item OrderItemRecord) *TransactionItem {
	return &TransactionItem{
		TransactionID:     transactionID,
		OrderID:           item.OrderID,
		OrderDate:         item.OrderedAt,
		UnitPrice:         item.UnitPrice,
		Tax:               item.Tax,
		Shipping:          item.Shipping,
		Discount:          item.Discount,
		TotalOwed:         item.TotalOwed,
		Quantity:          item.Quantity,
		ProductName:       item.ProductName,
		PaymentInstrument: item.PaymentInstrument,
		ReturnStatus:      DefaultReturnStatus,
		ResolutionNote:    DefaultResolutionNote,
	}
}
