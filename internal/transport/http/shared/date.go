package shared

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const DateLayout = "2006-01-02"

// ParseDate reads a calendar date given as YYYY-MM-DD or as an RFC3339
// timestamp. The result is midnight UTC of that day; the time of day and the
// zone of a timestamp are dropped. Empty input yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		var tsErr error
		if parsed, tsErr = time.Parse(time.RFC3339, value); tsErr != nil {
			return time.Time{}, errors.Wrapf(err, "parse date %q", value)
		}
	}
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
