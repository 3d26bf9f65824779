// Package models defines the data structures persisted and displayed by the dashboard.
package models

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar-day key format used for usage records.
const DateLayout = "2006-01-02"

// MinutesPerDay is the number of minutes credited to a fully tracked day.
const MinutesPerDay = 24 * 60

// DailyUsage is the accumulated active time for a single local calendar day.
// Hours and Minutes are derived from TotalMinutes and always satisfy
// Hours*60+Minutes == TotalMinutes.
type DailyUsage struct {
	Date         string `json:"date"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	TotalMinutes int    `json:"totalMinutes"`
}

// NewDailyUsage returns a zero record for the given date.
func NewDailyUsage(date string) DailyUsage {
	return DailyUsage{Date: date}
}

// Add credits minutes to the record and recomputes the derived fields.
// Non-positive values leave the record unchanged.
func (d *DailyUsage) Add(minutes int) {
	if minutes <= 0 {
		return
	}
	d.SetTotal(d.TotalMinutes + minutes)
}

// SetTotal replaces the total and recomputes hours and minutes.
func (d *DailyUsage) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	d.TotalMinutes = total
	d.Hours = total / 60
	d.Minutes = total % 60
}

// Normalize repairs derived fields that disagree with TotalMinutes, which can
// happen when a record was edited by hand or written by an older client.
func (d *DailyUsage) Normalize() {
	d.SetTotal(d.TotalMinutes)
}

// Format renders the record as "1h 5m" or "5m".
func (d DailyUsage) Format() string {
	return FormatMinutes(d.TotalMinutes)
}

// FormatMinutes renders a minute count as "Xh Ym", or "Ym" below one hour.
func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	hours := total / 60
	minutes := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatDate returns the local calendar-day key for t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar-day key in the given location.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// StartOfDay returns local midnight at the beginning of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextMidnight returns local midnight at the end of t's calendar day.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// WeeklyUsage maps a calendar-day key to its usage record. It is the whole
// persisted state of the time tracker; despite the name it is not pruned to a week.
type WeeklyUsage map[string]DailyUsage

// Clone returns a copy that can be mutated without affecting the receiver.
func (w WeeklyUsage) Clone() WeeklyUsage {
	out := make(WeeklyUsage, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Sorted returns the records ordered by ascending date.
func (w WeeklyUsage) Sorted() []DailyUsage {
	days := make([]DailyUsage, 0, len(w))
	for _, d := range w {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}

// TotalMinutes sums every record in the map.
func (w WeeklyUsage) TotalMinutes() int {
	total := 0
	for _, d := range w {
		total += d.TotalMinutes
	}
	return total
}

// Get returns the record for date, or a zero record when absent.
func (w WeeklyUsage) Get(date string) DailyUsage {
	if d, ok := w[date]; ok {
		return d
	}
	return NewDailyUsage(date)
}

// WeekDay is one column of the Monday-based weekly view.
type WeekDay struct {
	Day     string
	Date    string
	Minutes int
	IsToday bool
}

// Week returns the seven days Monday..Sunday of the week containing ref,
// zero-filled where no record exists.
func (w WeeklyUsage) Week(ref time.Time) []WeekDay {
	start := StartOfDay(ref)
	offset := (int(start.Weekday()) + 6) % 7
	monday := start.AddDate(0, 0, -offset)
	today := FormatDate(ref)

	days := make([]WeekDay, 7)
	for i := range days {
		day := monday.AddDate(0, 0, i)
		date := FormatDate(day)
		days[i] = WeekDay{
			Day:     day.Format("Mon"),
			Date:    date,
			Minutes: w[date].TotalMinutes,
			IsToday: date == today,
		}
	}
	return days
}
