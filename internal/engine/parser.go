package engine

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/birthday-feed/internal/config"
)

// lineEndings maps every line-terminator variant found in the wild (old Mac
// exports still use bare CR) onto LF before decoding.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parser extracts birthday records from a raw vCard payload.
//
// Parsing is best effort: malformed cards and unparseable dates are dropped,
// never reported. Address-book exports are messy and a single broken card must
// not take the whole feed down.
type Parser struct {
	// FallbackName labels contacts that carry no FN or N property.
	// Callers inject the localized value; empty means config.FallbackName.
	FallbackName string
}

// Parse decodes every contact record in payload and returns one BirthdayRecord
// per card that has both a resolvable name and a valid birth date. It never
// fails; a payload with zero usable cards yields an empty slice.
func (p *Parser) Parse(payload string) []BirthdayRecord {
	fallback := p.FallbackName
	if fallback == "" {
		fallback = config.FallbackName
	}

	dec := vcard.NewDecoder(strings.NewReader(lineEndings.Replace(payload)))
	stats := struct{ processed, withBday int }{0, 0}
	var records []BirthdayRecord

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Skip this card but keep decoding to maximize data recovery.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		birthDate, yearKnown, ok := lastValidBirthday(card)
		if !ok {
			continue
		}
		stats.withBday++

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := fallback
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		records = append(records, BirthdayRecord{
			UID:       RecordUID(name),
			Name:      name,
			BirthDate: birthDate,
			YearKnown: yearKnown,
		})
	}

	slog.Debug(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
		),
	)
	return records
}

// lastValidBirthday walks every BDAY property of a card in document order and
// keeps the last one that parses. Cards pathologically carrying several
// birthday lines thus resolve to the final valid occurrence; invalid
// occurrences never clobber an earlier valid one.
func lastValidBirthday(card vcard.Card) (time.Time, bool, bool) {
	var (
		date      time.Time
		yearKnown bool
		found     bool
	)
	for _, field := range card[config.VCardBDAY] {
		if field == nil || field.Value == "" {
			continue
		}
		t, known, err := parseDate(field.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, field.Value)
			continue
		}
		date, yearKnown, found = t, known, true
	}
	return date, yearKnown, found
}

// parseDate handles the vCard date formats seen in real exports. Time-of-day
// suffixes are irrelevant to birthdays and stripped before matching.
func parseDate(value string) (time.Time, bool, error) {
	if i := strings.Index(value, config.TimeSeparator); i >= 0 {
		value = value[:i]
	}

	// Full dates (year known)
	for _, f := range []string{config.DateFormatFullDash, config.DateFormatFullBasic} {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (year unknown) - vCard specific.
	// The synthetic year is a leap year so --02-29 survives.
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
