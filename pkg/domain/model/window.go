package model

import (
	"strings"
	"time"
)

// dateFormats is the fixed list of accepted date string layouts, tried in
// order. Covers ISO and common UK forms.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"02-01-2006",
	"02-01-2006 15:04",
}

// ParseDate parses a date string against the accepted format list.
// Blank or unparseable input yields nil, never an error; form and CSV
// handling rely on this fallback.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// Window is a half-open date range [Start, End) used to scope aggregation
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the window length in whole days, minimum 1
func (w Window) Days() int {
	d := int(w.End.Sub(w.Start).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// ResolveWindow builds the window for a chart or listing request. The
// default is the trailing `days` before now. Explicit start/end strings
// override their bound when they parse; an end date is inclusive, so the
// exclusive bound is the parsed date plus one day. Unparseable overrides
// are silently ignored and the default bound kept.
func ResolveWindow(now time.Time, days int, start, end string) Window {
	w := Window{
		Start: now.AddDate(0, 0, -days),
		End:   now,
	}
	if t := ParseDate(start); t != nil {
		w.Start = *t
	}
	if t := ParseDate(end); t != nil {
		w.End = t.Add(24 * time.Hour)
	}
	return w
}
