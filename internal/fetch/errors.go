package fetch

import (
	"fmt"

	"github.com/tartampluch/birthday-feed/internal/config"
)

// SourceError marks a contact source that could not be read: a missing local
// file, a network or timeout failure, an HTTP status >= 400, or a broken
// multi-status envelope. The pipeline treats it as fatal and never caches it.
type SourceError struct {
	Op  string // "open", "get", "report"
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s (%s): %v", config.ErrSourceRead, e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
