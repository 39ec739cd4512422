package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/spendscan/internal/api/middleware"
	"github.com/dvloznov/spendscan/internal/document"
	"github.com/dvloznov/spendscan/internal/domain"
	"github.com/dvloznov/spendscan/internal/ingest"
	"github.com/dvloznov/spendscan/internal/jobs"
	"github.com/dvloznov/spendscan/internal/reconcile"
	"github.com/dvloznov/spendscan/internal/sms"
	"github.com/dvloznov/spendscan/internal/statement"
	"github.com/dvloznov/spendscan/internal/store"
)

// MessagesHandler handles SMS extraction endpoints.
type MessagesHandler struct {
	extractor *sms.Extractor
	store     store.TransactionStore
	log       zerolog.Logger
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(extractor *sms.Extractor, txStore store.TransactionStore, log zerolog.Logger) *MessagesHandler {
	return &MessagesHandler{
		extractor: extractor,
		store:     txStore,
		log:       log,
	}
}

type inboundMessage struct {
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// ScanMessages handles POST /api/messages
// It extracts transaction candidates from a batch of SMS messages and
// persists them.
func (h *MessagesHandler) ScanMessages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []inboundMessage `json:"messages"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "messages is required")
		return
	}

	var candidates []*domain.TransactionCandidate
	for _, msg := range req.Messages {
		if c, ok := h.extractor.Extract(msg.Sender, msg.Body, msg.ReceivedAt); ok {
			candidates = append(candidates, c)
		}
	}

	inserted := 0
	if len(candidates) > 0 {
		n, err := h.store.InsertCandidates(r.Context(), candidates)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to insert candidates")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to store transactions")
			return
		}
		inserted = n
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]int{
		"received":   len(req.Messages),
		"candidates": len(candidates),
		"inserted":   inserted,
	})
}

// StatementsHandler handles statement ingestion endpoints.
type StatementsHandler struct {
	pipeline *ingest.Pipeline
	log      zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(pipeline *ingest.Pipeline, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		pipeline: pipeline,
		log:      log,
	}
}

// IngestStatement handles POST /api/statements
// It runs the full ingestion pipeline for one statement document.
func (h *StatementsHandler) IngestStatement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URI      string `json:"uri"`
		Bank     string `json:"bank"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URI == "" || req.Bank == "" {
		middleware.WriteError(w, http.StatusBadRequest, "uri and bank are required")
		return
	}

	state := &ingest.State{URI: req.URI, Bank: req.Bank, Password: req.Password}
	if err := h.pipeline.Execute(r.Context(), state); err != nil {
		h.log.Error().Err(err).Str("uri", req.URI).Msg("Statement ingestion failed")
		switch {
		case errors.Is(err, statement.ErrUnsupportedBank):
			middleware.WriteError(w, http.StatusUnprocessableEntity, "No parser registered for bank")
		case errors.Is(err, document.ErrWrongPassword):
			middleware.WriteError(w, http.StatusUnprocessableEntity, "Wrong document password")
		case errors.Is(err, document.ErrUnreadable), errors.Is(err, statement.ErrMalformedStatement):
			middleware.WriteError(w, http.StatusUnprocessableEntity, "Statement could not be parsed")
		default:
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to ingest statement")
		}
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"card_id":      state.CardID,
		"cycle_id":     state.CycleID,
		"transactions": state.Inserted,
	})
}

// ReconcileHandler handles order reconciliation endpoints.
type ReconcileHandler struct {
	matcher *reconcile.Matcher
	log     zerolog.Logger
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(matcher *reconcile.Matcher, log zerolog.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		matcher: matcher,
		log:     log,
	}
}

type inboundOrderItem struct {
	OrderID           string    `json:"order_id"`
	OrderedAt         time.Time `json:"ordered_at"`
	UnitPrice         float64   `json:"unit_price"`
	Tax               float64   `json:"tax"`
	Shipping          float64   `json:"shipping"`
	Discount          float64   `json:"discount"`
	TotalOwed         float64   `json:"total_owed"`
	Quantity          int       `json:"quantity"`
	ProductName       string    `json:"product_name"`
	PaymentInstrument string    `json:"payment_instrument"`
	OrderStatus       string    `json:"order_status"`
}

// ReconcileOrders handles POST /api/reconcile
func (h *ReconcileHandler) ReconcileOrders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Merchant string             `json:"merchant"`
		Items    []inboundOrderItem `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Merchant == "" || len(req.Items) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "merchant and items are required")
		return
	}

	items := make([]domain.OrderItemRecord, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItemRecord{
			OrderID:           it.OrderID,
			OrderedAt:         it.OrderedAt,
			UnitPrice:         it.UnitPrice,
			Tax:               it.Tax,
			Shipping:          it.Shipping,
			Discount:          it.Discount,
			TotalOwed:         it.TotalOwed,
			Quantity:          it.Quantity,
			ProductName:       it.ProductName,
			PaymentInstrument: it.PaymentInstrument,
			OrderStatus:       it.OrderStatus,
		})
	}

	report, err := h.matcher.Reconcile(r.Context(), req.Merchant, items)
	if err != nil {
		h.log.Error().Err(err).Msg("Reconciliation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to reconcile orders")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"groups_total":   report.GroupsTotal,
		"groups_matched": report.GroupsMatched,
		"items_inserted": report.ItemsInserted,
		"deferred":       report.Deferred,
		"unmatched":      len(report.Unmatched),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		OrderID: query.Get("order_id"),
		Status:  jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
