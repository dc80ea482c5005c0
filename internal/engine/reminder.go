package engine

import (
	"fmt"

	"github.com/tartampluch/birthday-feed/internal/config"
)

// ReminderConfig describes the optional alarm attached to every generated
// event.
type ReminderConfig struct {
	Enabled   bool
	Value     int    // positive offset magnitude
	Unit      string // config.UnitDays, config.UnitHours or config.UnitMinutes
	Direction string // config.DirBefore or config.DirAfter
}

// Trigger renders the ISO 8601 duration used as the VALARM trigger, e.g.
// "-P1D" for one day before or "PT2H" for two hours after. Sub-day units need
// the "PT" time designator per RFC 5545. Returns "" when reminders are off.
func (rc ReminderConfig) Trigger() string {
	if !rc.Enabled {
		return ""
	}

	val := rc.Value
	if val <= 0 {
		val = config.DefaultReminderValue
	}

	sign := ""
	if rc.Direction == config.DirBefore {
		sign = config.ISONegativeSign
	}

	switch rc.Unit {
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTimePrefix, val, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTimePrefix, val, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOPeriodPrefix, val, config.ISODay)
	}
}
