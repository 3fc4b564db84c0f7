package services

import (
	"fmt"
	"time"

	"github.com/rohits-web03/worklog/internal/utils"
)

// Duration is an elapsed span split into whole hours and the remaining
// minutes. Hours are not folded into days.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TotalMinutes is the span expressed in minutes.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// ParseDateTime combines a YYYY-MM-DD date with an HH:mm[:ss] time of day.
func ParseDateTime(date, clock string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	c, ok := utils.ParseClock(clock)
	if !ok {
		return time.Time{}, fmt.Errorf("parse time of day %q", clock)
	}
	return day.Add(time.Duration(c.Hour())*time.Hour +
		time.Duration(c.Minute())*time.Minute +
		time.Duration(c.Second())*time.Second), nil
}

// ComputeDuration returns the time between (dateFrom, hoursFrom) and
// (dateTo, hoursTo), truncated to the minute. Inverted ranges are not
// rejected and come back negative.
func ComputeDuration(dateFrom, hoursFrom, dateTo, hoursTo string) (Duration, error) {
	start, err := ParseDateTime(dateFrom, hoursFrom)
	if err != nil {
		return Duration{}, err
	}
	end, err := ParseDateTime(dateTo, hoursTo)
	if err != nil {
		return Duration{}, err
	}

	minutes := int(end.Sub(start) / time.Minute)
	return Duration{Hours: minutes / 60, Minutes: minutes % 60}, nil
}
