package hebcal

import (
	"time"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const dateLayout = "2006-01-02"

// maxRangeDays is the longest start/end span the remote service honors; longer
// ranges are truncated server-side.
const maxRangeDays = 180

// FormatDate renders t in the canonical YYYY-MM-DD wire form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// NormalizeDate validates that s is canonical YYYY-MM-DD text and returns it
// unchanged. Anything else is a validation error.
func NormalizeDate(s string) (string, error) {
	if s == "" {
		return "", &ValidationError{Field: "date", Message: "date must not be empty"}
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}
	return s, nil
}

// parseEventTime parses a response timestamp defensively: full ISO-8601 first
// (a trailing Z reads as UTC), then plain YYYY-MM-DD. The second return is
// false when neither form matches; callers leave the field absent instead of
// failing.
func parseEventTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// rangeParams applies the shared date/range rule: either a single date, or
// both start and end. Supplying only one of start/end fails the same way as
// supplying neither. Spans over maxRangeDays warn and continue; the remote
// service truncates them.
func rangeParams(date, start, end string, log *logger.Logger) (Params, error) {
	if log == nil {
		log = logger.Default()
	}

	if date != "" {
		d, err := NormalizeDate(date)
		if err != nil {
			return nil, err
		}
		return Params{"date": d}, nil
	}

	if start == "" || end == "" {
		return nil, &ValidationError{
			Field:   "date",
			Message: "provide either a single 'date' or both 'start' and 'end'",
		}
	}

	s, err := NormalizeDate(start)
	if err != nil {
		return nil, err
	}
	e, err := NormalizeDate(end)
	if err != nil {
		return nil, err
	}

	startT, _ := time.Parse(dateLayout, s)
	endT, _ := time.Parse(dateLayout, e)
	if int(endT.Sub(startT).Hours()/24) > maxRangeDays {
		log.Warn("date range exceeds 180 days; results will be truncated by the API",
			"start", s,
			"end", e,
		)
	}

	return Params{"start": s, "end": e}, nil
}
