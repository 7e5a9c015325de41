// Package dates resolves report windows: named presets relative to now, or
// explicit start/end dates, always expressed in RFC 3339 for the chat API.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Range is a half-open report window [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// RFC3339 returns the window bounds as RFC 3339 strings.
func (r Range) RFC3339() (string, string) {
	return r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339)
}

// Weekly splits the window into chunks of at most seven days, oldest first.
// Chunked listing keeps individual API queries small; callers must fold the
// chunk results back together before interpreting them, since task lifecycle
// signals can span chunk boundaries.
func (r Range) Weekly() []Range {
	var chunks []Range
	for start := r.Start; start.Before(r.End); {
		end := start.Add(7 * 24 * time.Hour)
		if end.After(r.End) {
			end = r.End
		}
		chunks = append(chunks, Range{Start: start, End: end})
		start = end
	}
	return chunks
}

// PastDays returns the window covering the last n days up to now.
func PastDays(now time.Time, n int) Range {
	return Range{Start: now.AddDate(0, 0, -n), End: now}
}

// PreviousMonth returns the previous calendar month, the default window when
// the caller names no preset and no explicit dates.
func PreviousMonth(now time.Time) Range {
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Range{Start: firstOfThis.AddDate(0, -1, 0), End: firstOfThis}
}

const dayLayout = "2006-01-02"

// ErrPartialRange is returned when only one of start/end is supplied.
var ErrPartialRange = errors.New("start and end dates must be provided together")

// Options mirrors the CLI's date flags. Presets take priority over explicit
// dates, shortest preset first.
type Options struct {
	PastDay   bool
	PastWeek  bool
	PastMonth bool
	PastYear  bool
	Start     string // YYYY-MM-DD
	End       string // YYYY-MM-DD
}

// Resolve turns the options into a concrete window relative to now.
func Resolve(opts Options, now time.Time) (Range, error) {
	switch {
	case opts.PastDay:
		return PastDays(now, 1), nil
	case opts.PastWeek:
		return PastDays(now, 7), nil
	case opts.PastMonth:
		return PastDays(now, 30), nil
	case opts.PastYear:
		return PastDays(now, 365), nil
	case opts.Start != "" && opts.End != "":
		start, err := time.Parse(dayLayout, opts.Start)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", opts.Start)
		}
		end, err := time.Parse(dayLayout, opts.End)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", opts.End)
		}
		if end.Before(start) {
			return Range{}, fmt.Errorf("end date %s is before start date %s", opts.End, opts.Start)
		}
		return Range{Start: start, End: end}, nil
	case opts.Start != "" || opts.End != "":
		return Range{}, ErrPartialRange
	default:
		return PreviousMonth(now), nil
	}
}
