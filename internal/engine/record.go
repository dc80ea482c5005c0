package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/tartampluch/birthday-feed/internal/config"
)

// BirthdayRecord is a single parsed contact birthday, the unit of exchange
// between the parser and the calendar generator. Records are built fresh on
// every parse and never mutated.
type BirthdayRecord struct {
	// UID is a deterministic identifier derived from the display name.
	// The same name always hashes to the same UID, which lets calendar
	// clients update events across refreshes instead of duplicating them.
	UID string

	// Name is the display name (Formatted Name, Structured Name, or the
	// localized fallback when the card carried neither).
	Name string

	// BirthDate is the parsed date of birth. When YearKnown is false the
	// year holds config.DefaultLeapYear so February 29 stays representable.
	BirthDate time.Time

	// YearKnown reports whether the source carried a birth year or only
	// a --MM-DD value.
	YearKnown bool
}

// RecordUID derives the stable record identifier for a display name.
// Collision resistance is all that matters here, not cryptographic strength.
func RecordUID(name string) string {
	sum := sha256.Sum256([]byte(config.UIDNamespace + name))
	return hex.EncodeToString(sum[:config.UIDHashLength])
}
