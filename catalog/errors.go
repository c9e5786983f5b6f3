package catalog

import (
	"fmt"
	"strings"
)

// ErrMalformedFeed indicates the feed bytes could not be parsed as a
// delimited table at all.
type ErrMalformedFeed struct {
	Err error
}

func (e ErrMalformedFeed) Error() string {
	return fmt.Errorf("malformed feed: %w", e.Err).Error()
}

func (e ErrMalformedFeed) Unwrap() error {
	return e.Err
}

// ErrMissingColumns indicates the header matched no synonym for one or more
// required fields. Nothing is loaded in that case.
type ErrMissingColumns struct {
	Missing []string
}

func (e ErrMissingColumns) Error() string {
	return fmt.Sprintf("missing required columns: %s (expected produto, mercado, valor)", strings.Join(e.Missing, ", "))
}
