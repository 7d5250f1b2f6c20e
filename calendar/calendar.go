// Package calendar turns a casting moment into the inputs the chart engine
// consumes: the current solar term and the four sexagenary pillars.
//
// The astronomy itself is delegated to a Resolver. LunarResolver is the
// default implementation; callers with their own almanac can plug in any
// Resolver, or a ResolverFunc in tests.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the 14-digit casting timestamp format (YYYYMMDDHHMMSS).
const TimestampLayout = "20060102150405"

// ErrInvalidTimestamp is returned for malformed casting timestamps.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Pillar is one stem+branch pair.
type Pillar struct {
	Stem   string `json:"stem" yaml:"stem"`
	Branch string `json:"branch" yaml:"branch"`
}

// String renders the pillar as its two characters.
func (p Pillar) String() string { return p.Stem + p.Branch }

// ParsePillar splits a two-character pillar such as "甲子".
func ParsePillar(s string) (Pillar, error) {
	runes := []rune(s)
	if len(runes) != 2 {
		return Pillar{}, fmt.Errorf("pillar %q: want stem+branch", s)
	}
	return Pillar{Stem: string(runes[0]), Branch: string(runes[1])}, nil
}

// FourPillars are the year, month, day and hour pillars of a moment.
type FourPillars struct {
	Year  Pillar `json:"year" yaml:"year"`
	Month Pillar `json:"month" yaml:"month"`
	Day   Pillar `json:"day" yaml:"day"`
	Hour  Pillar `json:"hour" yaml:"hour"`
}

// Moment is what a Resolver reports for one instant.
type Moment struct {
	SolarTerm string      `json:"solarTerm" yaml:"solar_term"`
	Pillars   FourPillars `json:"pillars" yaml:"pillars"`
}

// Resolver maps an instant to its solar term and pillars.
type Resolver interface {
	Resolve(at time.Time) (Moment, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(at time.Time) (Moment, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(at time.Time) (Moment, error) { return f(at) }

// ParseTimestamp validates a 14-digit timestamp and converts it to a time in loc.
// A nil loc means the local time zone.
func ParseTimestamp(ts string, loc *time.Location) (time.Time, error) {
	if len(ts) != len(TimestampLayout) {
		return time.Time{}, fmt.Errorf("%w: %q must be %d digits (YYYYMMDDHHMMSS)", ErrInvalidTimestamp, ts, len(TimestampLayout))
	}
	for i := 0; i < len(ts); i++ {
		if ts[i] < '0' || ts[i] > '9' {
			return time.Time{}, fmt.Errorf("%w: %q contains a non-digit at position %d", ErrInvalidTimestamp, ts, i+1)
		}
	}
	if loc == nil {
		loc = time.Local
	}
	at, err := time.ParseInLocation(TimestampLayout, ts, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, ts, err)
	}
	return at, nil
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Range lists timestamps from `from` to `to` inclusive, every step.
func Range(from, to time.Time, step time.Duration) ([]string, error) {
	if step <= 0 {
		return nil, fmt.Errorf("range step must be positive, got %s", step)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("range end %s is before start %s", FormatTimestamp(to), FormatTimestamp(from))
	}
	var out []string
	for t := from; !t.After(to); t = t.Add(step) {
		out = append(out, FormatTimestamp(t))
	}
	return out, nil
}
