package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/reconcile"
	"github.com/dvloznov/spendscan/internal/sms"
	"github.com/dvloznov/spendscan/internal/store/memory"
)

func TestScanMessages(t *testing.T) {
	st := memory.NewStore()
	h := NewMessagesHandler(sms.NewExtractor(category.Default(), nil), st, zerolog.Nop())

	body := `{"messages":[
		{"sender":"VM-HDFCBK","body":"Rs. 450.00 spent at ZOMATO on card","received_at":"2024-01-10T14:30:00Z"},
		{"sender":"AMZN","body":"Your OTP is 482913","received_at":"2024-01-10T14:31:00Z"}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ScanMessages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["received"] != 2 || resp["candidates"] != 1 || resp["inserted"] != 1 {
		t.Errorf("response = %v", resp)
	}
	if got := len(st.Transactions()); got != 1 {
		t.Errorf("stored = %d, want 1", got)
	}
}

func TestScanMessagesRejectsEmptyBatch(t *testing.T) {
	h := NewMessagesHandler(sms.NewExtractor(category.Default(), nil), memory.NewStore(), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"messages":[]}`))
	rec := httptest.NewRecorder()
	h.ScanMessages(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReconcileOrders(t *testing.T) {
	st := memory.NewStore()
	matcher := reconcile.NewMatcher(st, nil, zerolog.Nop())
	h := NewReconcileHandler(matcher, zerolog.Nop())

	// No stored transactions, so the single group misses.
	body := `{"merchant":"amazon","items":[
		{"order_id":"ord-1","ordered_at":"2024-01-10T14:30:00Z","total_owed":499.0,"quantity":1,"product_name":"cable"}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ReconcileOrders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["groups_total"] != 1 || resp["groups_matched"] != 0 || resp["unmatched"] != 1 {
		t.Errorf("response = %v", resp)
	}
}

func TestReconcileOrdersRequiresMerchant(t *testing.T) {
	st := memory.NewStore()
	h := NewReconcileHandler(reconcile.NewMatcher(st, nil, zerolog.Nop()), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	h.ReconcileOrders(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
