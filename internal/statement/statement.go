// Package statement turns extracted card-statement text into a card profile,
// a billing cycle and the transactions printed in the cycle ledger. Each
// supported bank has its own parser; dispatch happens through a registry so
// new banks plug in without touching existing ones.
package statement

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/domain"
)

// ErrUnsupportedBank reports that no parser is registered for a bank. It is
// deliberately distinct from a parse failure: callers prompt for manual entry
// on the former and retry or report corruption on the latter.
var ErrUnsupportedBank = errors.New("statement: no parser registered for bank")

// ErrMalformedStatement reports that a registered parser could not locate the
// fields it requires in the statement text.
var ErrMalformedStatement = errors.New("statement: malformed statement text")

// Parsed is the complete result of parsing one statement document.
type Parsed struct {
	Card         domain.CardProfile
	Cycle        domain.BillingCycle
	Transactions []domain.TransactionCandidate
}

// Parser parses the concatenated page text of one bank's statement. Lines
// that do not match the expected transaction shape are skipped, not errors;
// a missing payment summary or card identity is a malformed statement.
type Parser interface {
	// Bank returns the issuing bank's display name.
	Bank() string

	// Parse extracts the card profile, billing cycle and ledger.
	Parse(text string) (*Parsed, error)
}

// Registry dispatches statement text to the parser registered for a bank
// identifier. Identifiers are case-insensitive.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser under the given bank identifier, replacing any
// previous registration.
func (r *Registry) Register(bankID string, p Parser) {
	r.parsers[normalizeBankID(bankID)] = p
}

// Lookup returns the parser for a bank identifier.
func (r *Registry) Lookup(bankID string) (Parser, bool) {
	p, ok := r.parsers[normalizeBankID(bankID)]
	return p, ok
}

// Parse dispatches to the registered parser. An unknown bank yields
// ErrUnsupportedBank, never a zeroed result.
func (r *Registry) Parse(bankID, text string) (*Parsed, error) {
	p, ok := r.Lookup(bankID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBank, bankID)
	}
	return p.Parse(text)
}

// Banks returns the registered bank identifiers, sorted.
func (r *Registry) Banks() []string {
	out := make([]string, 0, len(r.parsers))
	for id := range r.parsers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry wires up all built-in bank parsers.
func DefaultRegistry(taxonomy *category.Taxonomy) *Registry {
	r := NewRegistry()
	r.Register("hdfc", NewHDFC(taxonomy))
	r.Register("icici", NewICICI(taxonomy))
	r.Register("axis", NewAxis(taxonomy))
	return r
}

func normalizeBankID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
