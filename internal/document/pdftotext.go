package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// PdftotextReader extracts page text by shelling out to pdftotext (poppler).
// The document bytes are spooled to a temp file which is removed on every
// exit path; pdftotext writes to stdout so no output file is left behind.
type PdftotextReader struct {
	binary string
}

// NewPdftotextReader creates a reader using the pdftotext binary on PATH.
func NewPdftotextReader() *PdftotextReader {
	return &PdftotextReader{binary: "pdftotext"}
}

// ReadPages implements PageReader.
func (r *PdftotextReader) ReadPages(ctx context.Context, data []byte, password string) ([]string, error) {
	tmp, err := os.CreateTemp("", "spendscan-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("ReadPages: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("ReadPages: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("ReadPages: closing temp file: %w", err)
	}

	args := []string{"-layout"}
	if password != "" {
		args = append(args, "-upw", password)
	}
	args = append(args, tmp.Name(), "-")

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, classifyExtractionError(err, stderr.String())
	}

	return splitPages(stdout.String()), nil
}

// classifyExtractionError maps pdftotext failures onto the typed document
// errors so callers can distinguish bad passwords from corrupt files.
func classifyExtractionError(runErr error, stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "incorrect password"):
		return ErrWrongPassword
	case strings.Contains(lower, "may not be a pdf"),
		strings.Contains(lower, "couldn't read xref table"),
		strings.Contains(lower, "syntax error"):
		return fmt.Errorf("%w: %s", ErrUnreadable, firstLine(stderr))
	default:
		return fmt.Errorf("ReadPages: pdftotext: %w: %s", runErr, firstLine(stderr))
	}
}

// splitPages splits pdftotext output on the form feeds it emits between
// pages. A trailing form feed does not produce a phantom empty page.
func splitPages(out string) []string {
	pages := strings.Split(out, "\f")
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
