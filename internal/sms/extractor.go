// Package sms classifies raw bank/wallet notification messages and extracts
// transaction candidates from them. Extraction is pure keyword/regex work:
// malformed input degrades to sentinel values, it never errors.
package sms

import (
	"regexp"
	"strings"
	"time"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/domain"
)

// defaultGateKeywords is the minimal relevance gate: a message with none of
// these is not a transaction message.
var defaultGateKeywords = []string{"spent", "credited", "debited"}

// Direction keywords in priority order. A body containing both a received and
// a sent keyword resolves to RECEIVED.
var (
	receivedKeywords = []string{"credited", "received", "deposited"}
	sentKeywords     = []string{"debited", "withdrawn", "spent", "paid"}
)

// placePattern captures 2-30 chars of merchant-looking text after a
// preposition. Longer alternatives come first so "paid to X" is not cut to
// "to X" mid-word.
var placePattern = regexp.MustCompile(`(?i)\b(?:thru at|paid to|spent at|purchase at|swiped at|at|to|on|via|by|pos|txn)\b[:\s]+([A-Za-z0-9&@.\- ]{2,30})`)

// Extractor turns one raw message into at most one transaction candidate.
type Extractor struct {
	taxonomy     *category.Taxonomy
	banks        []BankAliases
	gateKeywords []string
}

// NewExtractor builds an extractor over the given taxonomy and bank alias
// table. A nil banks slice falls back to DefaultBanks.
func NewExtractor(taxonomy *category.Taxonomy, banks []BankAliases) *Extractor {
	if banks == nil {
		banks = DefaultBanks()
	}
	return &Extractor{
		taxonomy:     taxonomy,
		banks:        banks,
		gateKeywords: defaultGateKeywords,
	}
}

// SetGateKeywords replaces the relevance-gate keyword set. Intended for
// deployments that add locale-specific trigger words.
func (e *Extractor) SetGateKeywords(keywords []string) {
	if len(keywords) > 0 {
		e.gateKeywords = keywords
	}
}

// Extract classifies one message. The second return is false when the message
// does not describe a transaction; that is a normal outcome, not an error.
func (e *Extractor) Extract(sender, body string, ts time.Time) (*domain.TransactionCandidate, bool) {
	lower := strings.ToLower(body)

	if !containsAny(lower, e.gateKeywords) {
		return nil, false
	}

	amount, _ := ParseAmount(body)

	// Sender is checked before body: sender ids are higher confidence.
	bank := resolveBank(e.banks, sender)
	if bank == "" {
		bank = resolveBank(e.banks, body)
	}
	if bank == "" {
		bank = domain.UnknownBank
	}

	return &domain.TransactionCandidate{
		Source:    domain.SourceSMS,
		Direction: classifyDirection(lower),
		Amount:    amount,
		Timestamp: ts,
		Bank:      bank,
		Place:     e.extractPlace(lower),
		Category:  e.taxonomy.FirstMatch(body).Name,
		RawText:   body,
	}, true
}

// classifyDirection checks received keywords before sent keywords.
func classifyDirection(lowerBody string) domain.Direction {
	if containsAny(lowerBody, receivedKeywords) {
		return domain.DirectionReceived
	}
	if containsAny(lowerBody, sentKeywords) {
		return domain.DirectionSent
	}
	return domain.DirectionUnknown
}

// extractPlace prefers a taxonomy keyword hit (the keyword itself serves as a
// merchant-name proxy); otherwise falls back to the preposition regex.
func (e *Extractor) extractPlace(lowerBody string) string {
	for _, c := range e.taxonomy.Categories() {
		for _, kw := range c.Keywords {
			if strings.Contains(lowerBody, kw) {
				return kw
			}
		}
	}

	if m := placePattern.FindStringSubmatch(lowerBody); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
