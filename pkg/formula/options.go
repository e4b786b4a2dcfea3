package formula

import (
	"time"

	"github.com/goliatone/go-htmlkit/pkg/calendar"
	"github.com/goliatone/go-htmlkit/pkg/format"
)

// DefaultMaxDepth bounds view composition and scope nesting.
const DefaultMaxDepth = 32

// Option configures a Formula before it is built.
type Option func(*config)

type config struct {
	calendar   calendar.Calendar
	location   *time.Location
	formatters *format.Registry
	maxDepth   int
}

// WithCalendar sets the calendar used to format time values.
func WithCalendar(cal calendar.Calendar) Option {
	return func(cfg *config) {
		if cal != nil {
			cfg.calendar = cal
		}
	}
}

// WithLocation sets the time zone used to format time values.
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

// WithFormatters replaces the formatter registry used by variables. The
// formula keeps a copy taken when it is created.
func WithFormatters(reg *format.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.formatters = reg
		}
	}
}

// WithMaxDepth bounds nested includes, embeds, and repeats.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{
		calendar:   calendar.Default(),
		location:   time.UTC,
		formatters: format.Default(),
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
