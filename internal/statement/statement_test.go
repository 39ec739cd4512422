package statement

import (
	"errors"
	"testing"

	"github.com/dvloznov/spendscan/internal/category"
)

func TestRegistry_UnsupportedBank(t *testing.T) {
	r := DefaultRegistry(category.Default())

	parsed, err := r.Parse("citibank", "some statement text")
	if parsed != nil {
		t.Errorf("expected nil result for unsupported bank, got %+v", parsed)
	}
	if !errors.Is(err, ErrUnsupportedBank) {
		t.Errorf("error = %v, want ErrUnsupportedBank", err)
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	r := DefaultRegistry(category.Default())

	tests := []struct {
		bankID string
		want   string
	}{
		{"hdfc", "HDFC Bank"},
		{"HDFC", "HDFC Bank"},
		{"  icici ", "ICICI Bank"},
		{"axis", "Axis Bank"},
	}

	for _, tt := range tests {
		t.Run(tt.bankID, func(t *testing.T) {
			p, ok := r.Lookup(tt.bankID)
			if !ok {
				t.Fatalf("Lookup(%q) found no parser", tt.bankID)
			}
			if p.Bank() != tt.want {
				t.Errorf("Bank() = %q, want %q", p.Bank(), tt.want)
			}
		})
	}
}

func TestRegistry_Banks(t *testing.T) {
	r := DefaultRegistry(category.Default())
	banks := r.Banks()

	want := []string{"axis", "hdfc", "icici"}
	if len(banks) != len(want) {
		t.Fatalf("Banks() = %v, want %v", banks, want)
	}
	for i := range want {
		if banks[i] != want[i] {
			t.Errorf("Banks()[%d] = %q, want %q", i, banks[i], want[i])
		}
	}
}

func TestParsersRejectMalformedText(t *testing.T) {
	tax := category.Default()
	parsers := []Parser{NewHDFC(tax), NewICICI(tax), NewAxis(tax)}

	for _, p := range parsers {
		t.Run(p.Bank(), func(t *testing.T) {
			_, err := p.Parse("this is not a card statement")
			if !errors.Is(err, ErrMalformedStatement) {
				t.Errorf("error = %v, want ErrMalformedStatement", err)
			}
		})
	}
}
