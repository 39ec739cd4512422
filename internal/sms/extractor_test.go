package sms

import (
	"testing"
	"time"

	"github.com/dvloznov/spendscan/internal/category"
	"github.com/dvloznov/spendscan/internal/domain"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(category.Default(), nil)
}

func TestExtract_RelevanceGate(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "otp message", body: "Your OTP is 483920. Do not share it.", want: false},
		{name: "promo message", body: "Get 10% off on your next order!", want: false},
		{name: "balance enquiry", body: "Your available balance is Rs 5,000", want: false},
		{name: "spent", body: "Rs 120 spent at Cafe Blue", want: true},
		{name: "credited", body: "INR 9,000 credited to your account", want: true},
		{name: "debited uppercase", body: "Rs 40 DEBITED from a/c XX1234", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := e.Extract("VM-HDFCBK", tt.body, testTime)
			if ok != tt.want {
				t.Errorf("Extract(%q) ok = %v, want %v", tt.body, ok, tt.want)
			}
		})
	}
}

func TestExtract_DirectionPriority(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		body string
		want domain.Direction
	}{
		{
			name: "credited and debited resolves to received",
			body: "Rs 500 credited; Rs 200 debited towards EMI",
			want: domain.DirectionReceived,
		},
		{
			name: "debited only",
			body: "Rs 200 debited from your account",
			want: domain.DirectionSent,
		},
		{
			name: "deposited",
			body: "Rs 200 deposited, amount spent earlier reversed",
			want: domain.DirectionReceived,
		},
		{
			name: "gate keyword without direction pair",
			body: "spent tracker update",
			want: domain.DirectionSent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := e.Extract("VM-HDFCBK", tt.body, testTime)
			if !ok {
				t.Fatalf("Extract(%q) produced no candidate", tt.body)
			}
			if c.Direction != tt.want {
				t.Errorf("direction = %s, want %s", c.Direction, tt.want)
			}
		})
	}
}

func TestExtract_BigBazaarMessage(t *testing.T) {
	e := newTestExtractor()

	c, ok := e.Extract("AD-654321", "Rs. 1,234.50 debited for purchase at BigBazaar", testTime)
	if !ok {
		t.Fatal("expected a candidate")
	}

	if c.Amount != 1234.50 {
		t.Errorf("amount = %v, want 1234.50", c.Amount)
	}
	if c.Direction != domain.DirectionSent {
		t.Errorf("direction = %s, want %s", c.Direction, domain.DirectionSent)
	}
	if c.Category != category.NameShopping {
		t.Errorf("category = %s, want %s", c.Category, category.NameShopping)
	}
	if c.Place != "bazaar" {
		t.Errorf("place = %q, want %q", c.Place, "bazaar")
	}
	if c.Bank != domain.UnknownBank {
		t.Errorf("bank = %q, want %q", c.Bank, domain.UnknownBank)
	}
	if c.Source != domain.SourceSMS {
		t.Errorf("source = %s, want %s", c.Source, domain.SourceSMS)
	}
	if !c.Timestamp.Equal(testTime) {
		t.Errorf("timestamp = %v, want %v", c.Timestamp, testTime)
	}
}

func TestExtract_BankResolution(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name   string
		sender string
		body   string
		want   string
	}{
		{
			name:   "sender alias",
			sender: "VM-HDFCBK",
			body:   "Rs 100 debited from a/c XX1234",
			want:   "HDFC Bank",
		},
		{
			name:   "body fallback when sender is numeric",
			sender: "AX-778899",
			body:   "Rs 100 debited from your ICICI account",
			want:   "ICICI Bank",
		},
		{
			name:   "sender wins over body",
			sender: "VM-AXISBK",
			body:   "Rs 100 debited; HDFC payee credited",
			want:   "Axis Bank",
		},
		{
			name:   "unresolved",
			sender: "AD-998877",
			body:   "Rs 100 debited at corner shop",
			want:   domain.UnknownBank,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := e.Extract(tt.sender, tt.body, testTime)
			if !ok {
				t.Fatalf("Extract(%q) produced no candidate", tt.body)
			}
			if c.Bank != tt.want {
				t.Errorf("bank = %q, want %q", c.Bank, tt.want)
			}
		})
	}
}

func TestExtract_PlaceFallbackRegex(t *testing.T) {
	e := newTestExtractor()

	// No taxonomy keyword in this body, so the preposition regex applies.
	c, ok := e.Extract("AD-112233", "Rs 100 spent at Joes Diner today", testTime)
	if !ok {
		t.Fatal("expected a candidate")
	}
	if c.Place == "" {
		t.Error("expected a regex-derived place, got empty string")
	}
	if got := c.Place; got[:4] != "joes" {
		t.Errorf("place = %q, want prefix %q", got, "joes")
	}
}

func TestExtract_MissingAmountStillEmits(t *testing.T) {
	e := newTestExtractor()

	c, ok := e.Extract("VM-SBIINB", "Amount debited towards loan, check passbook", testTime)
	if !ok {
		t.Fatal("expected a candidate despite missing amount")
	}
	if c.Amount != 0 {
		t.Errorf("amount = %v, want 0", c.Amount)
	}
}

func TestExtract_CustomGateKeywords(t *testing.T) {
	e := newTestExtractor()
	e.SetGateKeywords([]string{"purchased"})

	if _, ok := e.Extract("VM-HDFCBK", "Rs 100 debited", testTime); ok {
		t.Error("expected default gate keyword to be replaced")
	}
	if _, ok := e.Extract("VM-HDFCBK", "You purchased goods for Rs 100", testTime); !ok {
		t.Error("expected custom gate keyword to admit the message")
	}
}
