// Package tracker accumulates active usage time per calendar day.
//
// Accumulator holds the state machine and takes the current time explicitly
// so every transition is deterministic. Service wraps it with timers,
// persistence and an audit log.
package tracker

import (
	"time"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

// Credit is a number of whole minutes added to one day.
type Credit struct {
	Date    string
	Minutes int
}

// Result describes what a transition changed.
type Result struct {
	Credits    []Credit
	Created    []string
	RolledOver bool
	Reset      bool
}

// Dirty reports whether the usage map changed and must be persisted.
func (r Result) Dirty() bool {
	return r.Reset || len(r.Credits) > 0 || len(r.Created) > 0
}

// CreditedMinutes sums all credits.
func (r Result) CreditedMinutes() int {
	total := 0
	for _, c := range r.Credits {
		total += c.Minutes
	}
	return total
}

func (r *Result) merge(o Result) {
	r.Credits = append(r.Credits, o.Credits...)
	r.Created = append(r.Created, o.Created...)
	r.RolledOver = r.RolledOver || o.RolledOver
	r.Reset = r.Reset || o.Reset
}

// Accumulator is the Idle/Tracking state machine. It is not safe for
// concurrent use.
//
// While tracking, sessionStart marks the beginning of the uncredited
// interval. A flush credits whole minutes and advances sessionStart by
// exactly that amount, so sub-minute remainders carry into the next flush.
type Accumulator struct {
	usage        models.WeeklyUsage
	tracking     bool
	sessionStart time.Time
	sessionBegan time.Time
	currentDay   string
}

// NewAccumulator returns an idle accumulator seeded with persisted usage.
// Records are normalized so derived fields agree with their totals.
func NewAccumulator(usage models.WeeklyUsage) *Accumulator {
	a := &Accumulator{usage: make(models.WeeklyUsage, len(usage))}
	for date, d := range usage {
		if d.Date == "" {
			d.Date = date
		}
		d.Normalize()
		a.usage[date] = d
	}
	return a
}

// IsTracking reports whether a session is open.
func (a *Accumulator) IsTracking() bool {
	return a.tracking
}

// SessionStart returns the start of the uncredited interval, or the zero time when idle.
func (a *Accumulator) SessionStart() time.Time {
	return a.sessionStart
}

// SessionBegan returns when the current session was started; flushes do not move it.
func (a *Accumulator) SessionBegan() time.Time {
	return a.sessionBegan
}

// SessionDuration returns the length of the open session, or 0 when idle.
func (a *Accumulator) SessionDuration(now time.Time) time.Duration {
	if !a.tracking || a.sessionBegan.IsZero() || now.Before(a.sessionBegan) {
		return 0
	}
	return now.Sub(a.sessionBegan)
}

// Usage returns a copy of the usage map.
func (a *Accumulator) Usage() models.WeeklyUsage {
	return a.usage.Clone()
}

// Today returns the record for now's calendar day.
func (a *Accumulator) Today(now time.Time) models.DailyUsage {
	return a.usage.Get(models.FormatDate(now))
}

// ensureDay creates a zero record for date when none exists.
func (a *Accumulator) ensureDay(date string, res *Result) {
	if _, ok := a.usage[date]; ok {
		return
	}
	a.usage[date] = models.NewDailyUsage(date)
	res.Created = append(res.Created, date)
}

func (a *Accumulator) credit(date string, minutes int, res *Result) {
	if minutes <= 0 {
		return
	}
	d := a.usage.Get(date)
	d.Add(minutes)
	a.usage[date] = d
	res.Credits = append(res.Credits, Credit{Date: date, Minutes: minutes})
}

// Init records today's date and makes sure its record exists.
func (a *Accumulator) Init(now time.Time) Result {
	var res Result
	a.currentDay = models.FormatDate(now)
	a.ensureDay(a.currentDay, &res)
	return res
}

// Start opens a session at now. Starting while tracking is a no-op.
func (a *Accumulator) Start(now time.Time) Result {
	var res Result
	if a.tracking {
		return res
	}
	res.merge(a.ReconcileDayChange(now))
	a.tracking = true
	a.sessionStart = now
	a.sessionBegan = now
	return res
}

// Flush credits the whole minutes elapsed since the session start to today.
// Less than one elapsed minute changes nothing.
func (a *Accumulator) Flush(now time.Time) Result {
	var res Result
	if !a.tracking || a.sessionStart.IsZero() {
		return res
	}

	res.merge(a.ReconcileDayChange(now))
	if res.RolledOver {
		return res
	}

	elapsed := now.Sub(a.sessionStart)
	if elapsed < 0 {
		// Clock went backwards; drop the interval rather than credit a negative.
		a.sessionStart = now
		return res
	}

	minutes := int(elapsed / time.Minute)
	if minutes == 0 {
		return res
	}
	a.credit(models.FormatDate(now), minutes, &res)
	a.sessionStart = a.sessionStart.Add(time.Duration(minutes) * time.Minute)
	return res
}

// Stop performs a final flush and closes the session. The sub-minute
// remainder is discarded.
func (a *Accumulator) Stop(now time.Time) Result {
	if !a.tracking {
		return Result{}
	}
	res := a.Flush(now)
	a.tracking = false
	a.sessionStart = time.Time{}
	a.sessionBegan = time.Time{}
	return res
}

// ReconcileDayChange handles a calendar-day boundary between the session
// start (or the last observed day when idle) and now. Each day spanned by
// the open session is credited only with the whole minutes that fell inside
// it, every new day gets a fresh record, and the session continues from the
// last credited minute of today. Seconds short of a minute before midnight
// carry into the new day.
func (a *Accumulator) ReconcileDayChange(now time.Time) Result {
	var res Result
	today := models.FormatDate(now)

	if !a.tracking || a.sessionStart.IsZero() {
		if a.currentDay != today {
			res.RolledOver = a.currentDay != ""
			a.currentDay = today
		}
		a.ensureDay(today, &res)
		return res
	}

	if a.sessionStart.After(now) {
		a.sessionStart = now
		a.currentDay = today
		a.ensureDay(today, &res)
		return res
	}

	cursor := a.sessionStart
	if models.FormatDate(cursor) == today {
		a.currentDay = today
		a.ensureDay(today, &res)
		return res
	}

	// day walks the calendar; cursor trails it by the sub-minute remainder
	// left before each midnight so those seconds count toward the next day.
	day := cursor
	for models.FormatDate(day) != today {
		date := models.FormatDate(day)
		midnight := models.NextMidnight(day)
		span := midnight.Sub(cursor)
		a.ensureDay(date, &res)
		a.credit(date, int(span/time.Minute), &res)
		cursor = midnight.Add(-(span % time.Minute))
		day = midnight
		a.ensureDay(models.FormatDate(day), &res)
	}

	minutes := int(now.Sub(cursor) / time.Minute)
	a.credit(today, minutes, &res)
	a.sessionStart = cursor.Add(time.Duration(minutes) * time.Minute)
	a.currentDay = today
	res.RolledOver = true
	return res
}

// Reset discards all usage without flushing and leaves only a zero record
// for today. An open session is restarted at now.
func (a *Accumulator) Reset(now time.Time) Result {
	wasTracking := a.tracking
	today := models.FormatDate(now)

	a.tracking = false
	a.sessionStart = time.Time{}
	a.sessionBegan = time.Time{}
	a.usage = models.WeeklyUsage{today: models.NewDailyUsage(today)}
	a.currentDay = today

	if wasTracking {
		a.tracking = true
		a.sessionStart = now
		a.sessionBegan = now
	}
	return Result{Reset: true, Created: []string{today}}
}

// SetVisible maps host visibility onto the state machine: hidden stops,
// visible reconciles the day and starts.
func (a *Accumulator) SetVisible(visible bool, now time.Time) Result {
	if !visible {
		return a.Stop(now)
	}
	res := a.ReconcileDayChange(now)
	res.merge(a.Start(now))
	return res
}
