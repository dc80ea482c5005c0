package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/birthday-feed/internal/config"
)

// Generator turns birthday records into an iCalendar document. The output is
// deterministic for a fixed Clock and fixed inputs; Generate performs no I/O.
type Generator struct {
	Clock Clock // Interface for time mocking.

	// FormatSummary injects localized event titles into the engine.
	// It receives the raw display name; escaping happens at encode time.
	FormatSummary func(name string, age int, yearKnown bool) string
}

// Generate renders one all-day event per record per target year of the rolling
// window (previous, current, next), plus an optional reminder block.
func (g *Generator) Generate(records []BirthdayRecord, reminder ReminderConfig) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: suggest a refresh interval to subscribing clients.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays are floating dates; everything is computed against the UTC
	// calendar so two servers in different zones emit identical documents.
	now := g.Clock.Now().UTC()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now)

	trigger := reminder.Trigger()

	for _, rec := range records {
		for _, event := range g.createEvents(rec, trigger, now.Year()) {
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	// A calendar without components is invalid per RFC 5545; fall back to the
	// constant stub so clients never flag an empty feed.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// createEvents materializes the record for currentYear-1, currentYear and
// currentYear+1, skipping years before the person was born.
func (g *Generator) createEvents(rec BirthdayRecord, trigger string, currentYear int) []*ical.Event {
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}

	var events []*ical.Event
	for _, y := range targetYears {
		if rec.YearKnown && y < rec.BirthDate.Year() {
			continue
		}

		age := 0
		if rec.YearKnown {
			age = y - rec.BirthDate.Year()
		}

		summary := fmt.Sprintf(config.FallbackSummary, rec.Name)
		if g.FormatSummary != nil {
			summary = g.FormatSummary(rec.Name, age, rec.YearKnown)
		}

		event := ical.NewEvent()
		// One UID per (contact, year) pair: a client can update a single
		// yearly occurrence without disturbing its siblings.
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, rec.UID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		// time.Date normalizes Feb 29 of a non-leap target year to Mar 1,
		// which is exactly the roll-forward the window requires.
		eventDate := time.Date(y, rec.BirthDate.Month(), rec.BirthDate.Day(), 0, 0, 0, 0, time.UTC)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		// Birthdays never block the attendee's schedule.
		event.Props.SetText(config.PropTransp, config.ICalTransparent)

		if trigger != "" {
			addAlarm(event, trigger, summary)
		}

		events = append(events, event)
	}
	return events
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid a "VALUE=TEXT" param on a duration.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
