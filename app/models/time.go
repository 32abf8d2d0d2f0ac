package models

import (
	"errors"
	"strings"
	"time"
)

// TimestampLayout is the wire format for every timestamp in API responses.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var errUnparsableDate = errors.New("unparsable date")

// acceptedDateLayouts are tried in order by ParseDate.
var acceptedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses user supplied dates. Values without an offset are read in
// loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparsableDate
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
