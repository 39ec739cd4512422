// Package ingest runs the statement ingestion pipeline: fetch the document,
// read its pages, parse the statement, persist the card, cycle and
// transactions.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/statement"
	"github.com/dvloznov/spendscan/internal/store"
)

// Fetcher retrieves raw document bytes by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// PageReader extracts per-page text from document bytes.
type PageReader interface {
	ReadPages(ctx context.Context, data []byte, password string) ([]string, error)
}

// Step represents a single step in the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	// Inputs.
	URI      string
	Bank     string
	Password string

	// Data may be pre-filled by the caller, in which case the fetch step is
	// a no-op. Set by FetchDocumentStep otherwise.
	Data []byte

	// Set by ReadPagesStep.
	Pages []string

	// Set by ParseStatementStep.
	Parsed *statement.Parsed

	// Set by PersistStatementStep.
	CardID   string
	CycleID  string
	Inserted int
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps  []Step
	logger zerolog.Logger
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(logger zerolog.Logger, steps ...Step) *Pipeline {
	return &Pipeline{steps: steps, logger: logger}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	p.logger.Info().
		Str("uri", state.URI).
		Str("bank", state.Bank).
		Str("card_id", state.CardID).
		Int("transactions", state.Inserted).
		Msg("statement ingested")
	return nil
}

// FetchDocumentStep fetches the document bytes from storage. Skipped when the
// caller already supplied the bytes.
type FetchDocumentStep struct {
	Fetcher Fetcher
}

func (s *FetchDocumentStep) Execute(ctx context.Context, state *State) error {
	if len(state.Data) > 0 {
		return nil
	}
	data, err := s.Fetcher.Fetch(ctx, state.URI)
	if err != nil {
		return err
	}
	state.Data = data
	return nil
}

// ReadPagesStep extracts per-page text from the document bytes.
type ReadPagesStep struct {
	Reader PageReader
}

func (s *ReadPagesStep) Execute(ctx context.Context, state *State) error {
	pages, err := s.Reader.ReadPages(ctx, state.Data, state.Password)
	if err != nil {
		return err
	}
	state.Pages = pages
	return nil
}

// ParseStatementStep dispatches the joined page text to the bank's parser.
type ParseStatementStep struct {
	Registry *statement.Registry
}

func (s *ParseStatementStep) Execute(ctx context.Context, state *State) error {
	parsed, err := s.Registry.Parse(state.Bank, strings.Join(state.Pages, "\n"))
	if err != nil {
		return err
	}
	state.Parsed = parsed
	return nil
}

// PersistStatementStep upserts the card, records the billing cycle and
// inserts the statement's transactions.
type PersistStatementStep struct {
	Cards        store.CardStore
	Transactions store.TransactionStore
}

func (s *PersistStatementStep) Execute(ctx context.Context, state *State) error {
	cardID, err := s.Cards.UpsertCard(ctx, &state.Parsed.Card)
	if err != nil {
		return err
	}
	state.CardID = cardID

	cycleID, err := s.Cards.InsertBillingCycle(ctx, cardID, &state.Parsed.Cycle)
	if err != nil {
		return err
	}
	state.CycleID = cycleID

	candidates := make([]*domain.TransactionCandidate, len(state.Parsed.Transactions))
	for i := range state.Parsed.Transactions {
		candidates[i] = &state.Parsed.Transactions[i]
	}
	inserted, err := s.Transactions.InsertCandidates(ctx, candidates)
	if err != nil {
		return err
	}
	state.Inserted = inserted
	return nil
}

// NewStatementPipeline creates the standard 4-step pipeline for ingesting
// statements.
func NewStatementPipeline(
	fetcher Fetcher,
	reader PageReader,
	registry *statement.Registry,
	cards store.CardStore,
	transactions store.TransactionStore,
	logger zerolog.Logger,
) *Pipeline {
	return NewPipeline(
		logger,
		&FetchDocumentStep{Fetcher: fetcher},
		&ReadPagesStep{Reader: reader},
		&ParseStatementStep{Registry: registry},
		&PersistStatementStep{Cards: cards, Transactions: transactions},
	)
}
