package document

import (
	"errors"
	"testing"
)

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want int
	}{
		{name: "three pages with trailing form feed", out: "page one\fpage two\fpage three\f", want: 3},
		{name: "single page no form feed", out: "only page", want: 1},
		{name: "empty output", out: "", want: 0},
		{name: "blank interior page preserved", out: "a\f\fb\f", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := splitPages(tt.out)
			if len(pages) != tt.want {
				t.Errorf("splitPages() = %d pages, want %d", len(pages), tt.want)
			}
		})
	}
}

func TestSplitPages_Order(t *testing.T) {
	pages := splitPages("first\fsecond\f")
	if pages[0] != "first" || pages[1] != "second" {
		t.Errorf("pages out of order: %v", pages)
	}
}

func TestClassifyExtractionError(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{name: "wrong password", stderr: "Command Line Error: Incorrect password", want: ErrWrongPassword},
		{name: "not a pdf", stderr: "Syntax Warning: May not be a PDF file (continuing anyway)\nSyntax Error: Couldn't find trailer dictionary", want: ErrUnreadable},
		{name: "xref damage", stderr: "Syntax Error: Couldn't read xref table", want: ErrUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyExtractionError(base, tt.stderr)
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyExtractionError() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClassifyExtractionError_Unclassified(t *testing.T) {
	base := errors.New("exit status 99")
	err := classifyExtractionError(base, "something novel went wrong")
	if errors.Is(err, ErrWrongPassword) || errors.Is(err, ErrUnreadable) {
		t.Errorf("unclassified failure mapped to a typed error: %v", err)
	}
	if !errors.Is(err, base) {
		t.Errorf("unclassified failure should wrap the exec error, got %v", err)
	}
}
