package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// layouts accepted for upstream timestamps. The zone-less ones are read in the
// display location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

type Calendar struct {
	StartDate string    `json:"startDate"`
	StartTime string    `json:"startTime"`
	EndDate   string    `json:"endDate"`
	EndTime   string    `json:"endTime"`
	EndsAt    time.Time `json:"endsAt,omitzero"`
}

// SetStart fills the start fields, leaving them empty for a zero time.
func (c *Calendar) SetStart(t time.Time) {
	c.StartDate, c.StartTime = SplitDateTime(t)
}

// SetEnd fills the end fields and EndsAt.
func (c *Calendar) SetEnd(t time.Time) {
	c.EndsAt = t
	c.EndDate, c.EndTime = SplitDateTime(t)
}

// SplitDateTime splits a timestamp into display date and clock strings.
func SplitDateTime(t time.Time) (string, string) {
	if t.IsZero() {
		return "", ""
	}
	return t.Format(DateLayout), t.Format(ClockLayout)
}

// ParseTimestamp parses an ISO-8601 datetime. Values carrying an offset keep
// it and are converted to loc; values without one are read in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}
