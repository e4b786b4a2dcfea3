// Package calendar formats time values for rendered output. Formatting is a
// pure function of the instant, the calendar, and the time zone.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Named layouts accepted in place of a Go reference layout.
const (
	LayoutDate     = "date"
	LayoutTime     = "time"
	LayoutDateTime = "datetime"
	LayoutRFC3339  = "rfc3339"
)

// DefaultLayout is used when neither the caller nor the calendar specify one.
const DefaultLayout = "2006-01-02"

// Calendar converts an instant into display text.
type Calendar interface {
	Format(t time.Time, loc *time.Location, layout string) string
}

// Gregorian formats using Go reference layouts.
type Gregorian struct {
	// Layout is used when Format receives an empty layout.
	Layout string
}

// Default returns the Gregorian calendar with DefaultLayout.
func Default() Calendar {
	return Gregorian{Layout: DefaultLayout}
}

func (g Gregorian) Format(t time.Time, loc *time.Location, layout string) string {
	if loc != nil {
		t = t.In(loc)
	}
	if strings.TrimSpace(layout) == "" {
		layout = g.Layout
	}
	return t.Format(resolveLayout(layout))
}

// ISOWeek renders ISO-8601 week dates (for example 2024-W03-2).
type ISOWeek struct{}

func (ISOWeek) Format(t time.Time, loc *time.Location, _ string) string {
	if loc != nil {
		t = t.In(loc)
	}
	year, week := t.ISOWeek()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return fmt.Sprintf("%04d-W%02d-%d", year, week, weekday)
}

func resolveLayout(layout string) string {
	switch strings.ToLower(strings.TrimSpace(layout)) {
	case "":
		return DefaultLayout
	case LayoutDate:
		return "2006-01-02"
	case LayoutTime:
		return "15:04"
	case LayoutDateTime:
		return "2006-01-02 15:04"
	case LayoutRFC3339:
		return time.RFC3339
	default:
		return layout
	}
}
