package model

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of calendar dates ("2021-03-14").
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
//
// encoding/json would serialise a time.Time as a full RFC 3339 timestamp
// ("2021-03-14T00:00:00Z"). The front-end sends and expects plain dates, so
// Date carries its own JSON methods. Values are always normalised to
// midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// DateOf truncates a time.Time to its calendar date (in the time's own location).
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Full timestamps are accepted too
// and truncated to their date, since some clients send ISO datetimes.
func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", b)
	}
	s := string(b[1 : len(b)-1])

	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	*d = DateOf(t)
	return nil
}

// Age is the elapsed time between a birth date and today, expressed the way
// people say it: years, months and days.
type Age struct {
	Years  int `json:"anys"`
	Months int `json:"mesos"`
	Days   int `json:"dies"`
}

// AgeAt computes the calendar period between birth and now.
//
// The rules match how ages are read out loud:
//   - a month boundary is crossed on the same day-of-month as the birth day
//   - when that day does not exist in a month (Jan 31 -> Feb), the month
//     boundary falls on the month's last day
//   - leftover days are counted from the last crossed boundary
//
// A birth date in the future yields the zero Age.
func AgeAt(birth Date, now time.Time) Age {
	today := DateOf(now)
	if today.Before(birth.Time) {
		return Age{}
	}

	totalMonths := (today.Year()*12 + int(today.Month())) - (birth.Year()*12 + int(birth.Month()))
	days := today.Day() - birth.Day()

	if totalMonths > 0 && days < 0 {
		totalMonths--
		boundary := addMonthsClamped(birth, totalMonths)
		days = int(today.Sub(boundary.Time).Hours() / 24)
	}

	return Age{Years: totalMonths / 12, Months: totalMonths % 12, Days: days}
}

// addMonthsClamped adds n months to d, clamping the day to the end of the
// target month instead of overflowing into the next one.
func addMonthsClamped(d Date, n int) Date {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month is the last day of this one.
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}
