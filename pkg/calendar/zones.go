package calendar

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrUnknownZone reports a zone name the time zone database does not know.
var ErrUnknownZone = errors.New("calendar: unknown time zone")

//go:embed data/zones.txt
var zoneData string

var zoneIndex = sync.OnceValue(func() []string { return parseZones(zoneData) })

func parseZones(data string) []string {
	var zones []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		zones = append(zones, line)
	}
	slices.Sort(zones)
	return slices.Compact(zones)
}

// Zones returns the bundled zone names, sorted. Callers own the slice.
func Zones() []string {
	return slices.Clone(zoneIndex())
}

// Suggest ranks bundled zones against query: exact zone or city matches
// first, then prefix matches, then substring matches. Case, surrounding
// space and spaces in city names are ignored. An empty query matches every
// zone. A positive limit caps the result.
func Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"))
	zones := zoneIndex()
	if q == "" {
		return capZones(slices.Clone(zones), limit)
	}
	lastSegment := q[strings.LastIndex(q, "/")+1:]

	var exact, prefix, partial []string
	for _, zone := range zones {
		lower := strings.ToLower(zone)
		city := lower[strings.LastIndex(lower, "/")+1:]
		switch {
		case lower == q || city == lastSegment:
			exact = append(exact, zone)
		case strings.HasPrefix(lower, q) || strings.HasPrefix(city, lastSegment):
			prefix = append(prefix, zone)
		case strings.Contains(lower, q):
			partial = append(partial, zone)
		}
	}
	return capZones(slices.Concat(exact, prefix, partial), limit)
}

func capZones(zones []string, limit int) []string {
	if limit > 0 && len(zones) > limit {
		return zones[:limit]
	}
	return zones
}

// LoadLocation resolves an IANA zone name. An empty name selects UTC. Unknown
// names fail with ErrUnknownZone, naming close bundled zones when there are
// any.
func LoadLocation(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(trimmed)
	if err == nil {
		return loc, nil
	}
	if hints := Suggest(trimmed, 3); len(hints) > 0 {
		return nil, fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownZone, trimmed, strings.Join(hints, ", "))
	}
	return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, trimmed, err)
}
