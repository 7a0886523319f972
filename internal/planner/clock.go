package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mindmate-app/planner-api/internal/models"
)

// ErrClockFormat flags a time-of-day string that is not HH:MM 24-hour.
var ErrClockFormat = errors.New("time of day must be HH:MM (24h)")

// ParseTimeOfDay parses an HH:MM 24-hour string into hour and minute.
func ParseTimeOfDay(hm string) (int, int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hm), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrClockFormat, hm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrClockFormat, hm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrClockFormat, hm)
	}
	return hour, minute, nil
}

// HoursBetween returns the elapsed hours from startHM to endHM, treating an
// end at or before the start as belonging to the next day. The result is
// always strictly positive.
func HoursBetween(startHM, endHM string) (float64, error) {
	sh, sm, err := ParseTimeOfDay(startHM)
	if err != nil {
		return 0, err
	}
	eh, em, err := ParseTimeOfDay(endHM)
	if err != nil {
		return 0, err
	}

	start := time.Duration(sh)*time.Hour + time.Duration(sm)*time.Minute
	end := time.Duration(eh)*time.Hour + time.Duration(em)*time.Minute
	if end <= start {
		end += 24 * time.Hour
	}
	return (end - start).Hours(), nil
}

// DayWindow computes the availability interval for the calendar day that
// begins on date, pushing the end to the next day when daily_end is at or
// before daily_start. All day-wrap arithmetic in the module funnels through
// here and through HoursBetween.
func DayWindow(date time.Time, startHM, endHM string) (time.Time, time.Time, error) {
	sh, sm, err := ParseTimeOfDay(startHM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := ParseTimeOfDay(endHM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	year, month, day := date.Date()
	windowStart := time.Date(year, month, day, sh, sm, 0, 0, date.Location())
	windowEnd := time.Date(year, month, day, eh, em, 0, 0, date.Location())
	if !windowEnd.After(windowStart) {
		windowEnd = windowEnd.AddDate(0, 0, 1)
	}
	return windowStart, windowEnd, nil
}

// BucketByCalendarDay groups items by the local calendar date on which they
// start. An item crossing midnight still belongs to its start date.
func BucketByCalendarDay(items []models.PlanItem) map[string][]models.PlanItem {
	buckets := make(map[string][]models.PlanItem)
	for _, item := range items {
		day := item.Start.Format("2006-01-02")
		buckets[day] = append(buckets[day], item)
	}
	return buckets
}

// ParseStartDate accepts the calendar-date shapes callers send: a bare date,
// a local datetime, or a full RFC 3339 timestamp.
func ParseStartDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q", raw)
}

// ParseTimestamp parses an item timestamp from oracle output. The oracle
// echoes ISO strings with or without a zone suffix, so both are accepted;
// zoneless timestamps are taken as local time.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// FirstJSONObject extracts the substring spanning the first '{' through the
// last '}' of raw. Oracle replies wrap their JSON in prose or code fences, so
// callers parse this slice rather than the whole reply.
func FirstJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
