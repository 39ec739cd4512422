package domain

import (
	"time"
)

// SourceType identifies where a transaction candidate was extracted from.
type SourceType string

const (
	// SourceSMS marks candidates extracted from raw SMS notifications.
	SourceSMS SourceType = "SMS"
	// SourceCardStatement marks candidates parsed from card statement text.
	SourceCardStatement SourceType = "CARD_STATEMENT"
)

// Direction classifies the flow of money in a candidate.
type Direction string

const (
	DirectionSent     Direction = "SENT"
	DirectionReceived Direction = "RECEIVED"
	DirectionUnknown  Direction = "UNKNOWN"
)

// UnknownBank is the sentinel bank name used when neither the sender nor the
// body of a message resolves against the alias table.
const UnknownBank = "Unknown"

// TransactionCandidate is one transaction record extracted from text, before
// the persistence layer assigns identity or deduplicates. Candidates are
// immutable once produced; partially extracted fields carry sentinel values
// (zero amount, empty place, UnknownBank) rather than errors.
type TransactionCandidate struct {
	Source    SourceType
	Direction Direction
	Amount    float64   // non-negative; 0 when no currency token was found
	Timestamp time.Time // message receipt time or statement line date
	Bank      string    // UnknownBank when unresolved
	Place     string    // merchant/place proxy, may be empty
	Category  string    // taxonomy category name
	RawText   string    // original message body or statement line
}
