package contextutils

import "time"

// DateOnly truncates t to midnight in the given location. Daily sets are
// keyed on calendar dates in the user's timezone, so every lookup and
// insert normalizes through this helper.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// UserLocation resolves an IANA timezone name, falling back to UTC when
// the name is empty or invalid. Returns the location and the effective
// timezone name.
func UserLocation(timezone string) (*time.Location, string) {
	if timezone == "" {
		return time.UTC, "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC, "UTC"
	}
	return loc, timezone
}

// ParseDate parses a YYYY-MM-DD date string in the provided location.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, WrapError(err, "invalid date format")
	}
	return date, nil
}
