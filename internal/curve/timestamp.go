package curve

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp accepts ISO-8601 style date-times, a handful of common export
// layouts, and Unix epochs in seconds (10 digits) or milliseconds (13 digits).
// Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" || isNull(value) {
		return time.Time{}, errors.New("empty timestamp")
	}

	if ts, ok := parseEpoch(value); ok {
		return ts, nil
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

func parseEpoch(value string) (time.Time, bool) {
	if len(value) != 10 && len(value) != 13 {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return time.Time{}, false
	}
	if len(value) == 13 {
		return time.UnixMilli(n).UTC(), true
	}
	return time.Unix(n, 0).UTC(), true
}
