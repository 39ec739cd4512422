package statement

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/sms"
)

// Regex patterns for HDFC credit card statements.
var (
	hdfcHolderPattern    = regexp.MustCompile(`(?im)^Name\s*:\s*(.+?)\s*$`)
	hdfcCardPattern      = regexp.MustCompile(`(?i)Card\s+No\.?\s*:?\s*(\d{4}(?:\s+[X*]{4}){2}\s+\d{4})`)
	hdfcStatementDatePat = regexp.MustCompile(`(?i)Statement\s+Date\s*:?\s*(\d{2}/\d{2}/\d{4})`)
	hdfcDueDatePattern   = regexp.MustCompile(`(?i)Payment\s+Due\s+Date\s*:?\s*(\d{2}/\d{2}/\d{4})`)
	hdfcTotalDuePattern  = regexp.MustCompile(`(?i)Total\s+Amount\s+Due\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)
	hdfcMinDuePattern    = regexp.MustCompile(`(?i)Minimum\s+Amount\s+Due\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)
	hdfcLimitPattern     = regexp.MustCompile(`(?i)Credit\s+Limit\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)

	// Ledger line: "12/12/2023 SWIGGY BANGALORE 450.00 Dr"
	hdfcTxnPattern = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d,]+\.\d{2})\s*(Cr|Dr)?\s*$`)
)

const hdfcDateLayout = "02/01/2006"

// HDFCParser parses HDFC Bank credit card statements: DD/MM/YYYY dates,
// "Total Amount Due"/"Minimum Amount Due" labels, Cr/Dr ledger markers.
type HDFCParser struct {
	taxonomy *category.Taxonomy
}

// NewHDFC creates the HDFC statement parser.
func NewHDFC(taxonomy *category.Taxonomy) *HDFCParser {
	return &HDFCParser{taxonomy: taxonomy}
}

// Bank implements Parser.
func (p *HDFCParser) Bank() string { return "HDFC Bank" }

// Parse implements Parser.
func (p *HDFCParser) Parse(text string) (*Parsed, error) {
	statementDate, _, ok := findLabeledDate(hdfcStatementDatePat, hdfcDateLayout, text)
	if !ok {
		return nil, fmt.Errorf("%w: hdfc: statement date not found", ErrMalformedStatement)
	}
	dueDate, dueText, ok := findLabeledDate(hdfcDueDatePattern, hdfcDateLayout, text)
	if !ok {
		return nil, fmt.Errorf("%w: hdfc: payment due date not found", ErrMalformedStatement)
	}
	totalDue, ok := findLabeledAmount(hdfcTotalDuePattern, text)
	if !ok {
		return nil, fmt.Errorf("%w: hdfc: total amount due not found", ErrMalformedStatement)
	}
	minDue, ok := findLabeledAmount(hdfcMinDuePattern, text)
	if !ok {
		return nil, fmt.Errorf("%w: hdfc: minimum amount due not found", ErrMalformedStatement)
	}

	card := domain.CardProfile{
		Bank:     p.Bank(),
		CardType: "CREDIT",
	}
	if masked, ok := findLabeled(hdfcCardPattern, text); ok {
		card.MaskedNumber = collapseSpaces(masked)
	}
	if holder, ok := findLabeled(hdfcHolderPattern, text); ok {
		card.HolderName = strings.TrimSpace(holder)
	}
	if limit, ok := findLabeledAmount(hdfcLimitPattern, text); ok {
		card.CreditLimit = &limit
	}
	statementDay := statementDate.Day()
	card.StatementDay = &statementDay

	start, end := deriveCycleWindow(statementDate)
	cycle := domain.BillingCycle{
		StartDate:      start,
		EndDate:        end,
		DueDate:        dueDate,
		DueDateText:    dueText,
		TotalDue:       totalDue,
		MinimumDue:     minDue,
		StatementMonth: monthKey(statementDate),
		Status:         domain.CycleOpen,
	}

	var txns []domain.TransactionCandidate
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		m := hdfcTxnPattern.FindStringSubmatch(line)
		if m == nil {
			continue // not a ledger line
		}
		when, err := parseLineDate(hdfcDateLayout, m[1])
		if err != nil {
			continue
		}
		desc := strings.TrimSpace(m[2])
		direction := domain.DirectionSent
		if strings.EqualFold(m[4], "cr") {
			direction = domain.DirectionReceived
		}
		txns = append(txns, domain.TransactionCandidate{
			Source:    domain.SourceCardStatement,
			Direction: direction,
			Amount:    sms.ParseDecimal(m[3]),
			Timestamp: when,
			Bank:      p.Bank(),
			Place:     desc,
			Category:  p.taxonomy.FirstMatch(desc).Name,
			RawText:   line,
		})
	}

	return &Parsed{Card: card, Cycle: cycle, Transactions: txns}, nil
}
