// Package document reads per-page text out of statement documents. The rest
// of the system consumes it as a collaborator: bytes and an optional password
// in, ordered page text out, typed failures for anything unreadable.
package document

import (
	"context"
	"errors"
)

// ErrUnreadable reports a document that is corrupt or not in a supported
// format.
var ErrUnreadable = errors.New("document: unreadable format")

// ErrWrongPassword reports a password-protected document that the supplied
// password did not open.
var ErrWrongPassword = errors.New("document: wrong password")

// PageReader extracts the ordered page text of one document. password may be
// empty for unprotected documents. Implementations must release any temporary
// storage they allocate on every exit path, including failure and
// cancellation, and must not return partial page lists on error.
type PageReader interface {
	ReadPages(ctx context.Context, data []byte, password string) ([]string, error)
}
