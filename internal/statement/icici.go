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

// Regex patterns for ICICI credit card statements.
var (
	iciciHolderPattern    = regexp.MustCompile(`(?m)^(?:MR|MS|MRS)\.?\s+([A-Z][A-Z ]+?)\s*$`)
	iciciCardPattern      = regexp.MustCompile(`(?i)Card\s+Number\s*:?\s*(\d{4}[X*]{8}\d{4})`)
	iciciStatementDatePat = regexp.MustCompile(`(?i)Statement\s+Date\s*:?\s*(\d{2}-\d{2}-\d{4})`)
	iciciDueDatePattern   = regexp.MustCompile(`(?i)Payment\s+Due\s+Date\s*:?\s*(\d{2}-\d{2}-\d{4})`)
	iciciTotalDuePattern  = regexp.MustCompile(`(?i)Total\s+Amount\s+due\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)
	iciciMinDuePattern    = regexp.MustCompile(`(?i)Minimum\s+Amount\s+due\s*:?\s*(?:Rs\.?\s*)?([\d,]+(?:\.\d{2})?)`)
	iciciPeriodPattern    = regexp.MustCompile(`(?i)Statement\s+Period\s*:?\s*(\d{2}-\d{2}-\d{4})\s+to\s+(\d{2}-\d{2}-\d{4})`)

	// Ledger line: "18-12-2023 AMAZON PAY INDIA 2,499.00 CR"
	iciciTxnPattern = regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\s+(.+?)\s+([\d,]+\.\d{2})\s*(CR)?\s*$`)
)

const iciciDateLayout = "02-01-2006"

// ICICIParser parses ICICI Bank credit card statements: DD-MM-YYYY dates,
// lowercase "due" in summary labels, an explicit statement period line and a
// CR suffix marking credits.
type ICICIParser struct {
	taxonomy *category.Taxonomy
}

// NewICICI creates the ICICI statement parser.
func NewICICI(taxonomy *category.Taxonomy) *ICICIParser {
	return &ICICIParser{taxonomy: taxonomy}
}

// Bank implements Parser.
func (p *ICICIParser) Bank() string { return "ICICI Bank" }

// Parse implements Parser.
func (p *ICICIParser) Parse(text string) (*Parsed, error) {
	statementDate, _, ok := findLabeledDate(iciciStatementDatePat, iciciDateLayout, text)
	if !ok {
		return nil, fmt.Errorf("%w: icici: statement date not found", ErrMalformedStatement)
	}
	dueDate, dueText, ok := findLabeledDate(iciciDueDatePattern, iciciDateLayout, text)
	if !ok {
		return nil, fmt.Errorf("%w: icici: payment due date not found", ErrMalformedStatement)
	}
	totalDue, ok := findLabeledAmount(iciciTotalDuePattern, text)
	if !ok {
		return nil, fmt.Errorf("%w: icici: total amount due not found", ErrMalformedStatement)
	}
	minDue, ok := findLabeledAmount(iciciMinDuePattern, text)
	if !ok {
		return nil, fmt.Errorf("%w: icici: minimum amount due not found", ErrMalformedStatement)
	}

	card := domain.CardProfile{
		Bank:     p.Bank(),
		CardType: "CREDIT",
	}
	if masked, ok := findLabeled(iciciCardPattern, text); ok {
		card.MaskedNumber = masked
	}
	if holder, ok := findLabeled(iciciHolderPattern, text); ok {
		card.HolderName = strings.TrimSpace(holder)
	}
	statementDay := statementDate.Day()
	card.StatementDay = &statementDay

	// ICICI prints the cycle window; fall back to derivation when absent.
	start, end := deriveCycleWindow(statementDate)
	if m := iciciPeriodPattern.FindStringSubmatch(text); m != nil {
		if s, err := parseLineDate(iciciDateLayout, m[1]); err == nil {
			start = s
		}
		if e, err := parseLineDate(iciciDateLayout, m[2]); err == nil {
			end = e
		}
	}

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
		m := iciciTxnPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		when, err := parseLineDate(iciciDateLayout, m[1])
		if err != nil {
			continue
		}
		desc := strings.TrimSpace(m[2])
		direction := domain.DirectionSent
		if m[4] != "" {
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
