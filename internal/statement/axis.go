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

// Regex patterns for Axis credit card statements.
var (
	axisHolderPattern    = regexp.MustCompile(`(?i)Dear\s+([A-Za-z][A-Za-z .]+?)\s*,`)
	axisCardPattern      = regexp.MustCompile(`(?i)Card\s+ending\s+(\d{4})`)
	axisStatementDatePat = regexp.MustCompile(`(?i)Statement\s+Generation\s+Date\s*:?\s*(\d{2} [A-Za-z]{3} \d{4})`)
	axisDueDatePattern   = regexp.MustCompile(`(?i)Payment\s+Due\s+Date\s*:?\s*(\d{2} [A-Za-z]{3} \d{4})`)
	axisTotalDuePattern  = regexp.MustCompile(`(?i)Total\s+Payment\s+Due\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)
	axisMinDuePattern    = regexp.MustCompile(`(?i)Minimum\s+Payment\s+Due\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)

	// Ledger line: "12 Dec 2023 IRCTC TICKETING 1,240.00 DR"
	axisTxnPattern = regexp.MustCompile(`^(\d{2} [A-Za-z]{3} \d{4})\s+(.+?)\s+([\d,]+\.\d{2})\s*(CR|DR)?\s*$`)
)

const axisDateLayout = "02 Jan 2006"

// AxisParser parses Axis Bank credit card statements: "DD Mon YYYY" dates,
// "Total Payment Due"/"Minimum Payment Due" labels, the card printed only as
// its last four digits.
type AxisParser struct {
	taxonomy *category.Taxonomy
}

// NewAxis creates the Axis statement parser.
func NewAxis(taxonomy *category.Taxonomy) *AxisParser {
	return &AxisParser{taxonomy: taxonomy}
}

// Bank implements Parser.
func (p *AxisParser) Bank() string { return "Axis Bank" }

// Parse implements Parser.
func (p *AxisParser) Parse(text string) (*Parsed, error) {
	statementDate, _, ok := findLabeledDate(axisStatementDatePat, axisDateLayout, text)
	if !ok {
		return nil, fmt.Errorf("%w: axis: statement generation date not found", ErrMalformedStatement)
	}
	dueDate, dueText, ok := findLabeledDate(axisDueDatePattern, axisDateLayout, text)
	if !ok {
		return nil, fmt.Errorf("%w: axis: payment due date not found", ErrMalformedStatement)
	}
	totalDue, ok := findLabeledAmount(axisTotalDuePattern, text)
	if !ok {
		return nil, fmt.Errorf("%w: axis: total payment due not found", ErrMalformedStatement)
	}
	minDue, ok := findLabeledAmount(axisMinDuePattern, text)
	if !ok {
		return nil, fmt.Errorf("%w: axis: minimum payment due not found", ErrMalformedStatement)
	}

	card := domain.CardProfile{
		Bank:     p.Bank(),
		CardType: "CREDIT",
	}
	if lastFour, ok := findLabeled(axisCardPattern, text); ok {
		card.MaskedNumber = "XXXX XXXX XXXX " + lastFour
	}
	if holder, ok := findLabeled(axisHolderPattern, text); ok {
		card.HolderName = strings.TrimSpace(holder)
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
		m := axisTxnPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		when, err := parseLineDate(axisDateLayout, m[1])
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
