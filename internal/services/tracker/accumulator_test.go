package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

func at(day, hour, minute, second int) time.Time {
	return time.Date(2024, 1, day, hour, minute, second, 0, time.Local)
}

func assertConsistent(t *testing.T, usage models.WeeklyUsage) {
	t.Helper()
	for date, d := range usage {
		assert.Equal(t, date, d.Date)
		assert.Equal(t, d.TotalMinutes, d.Hours*60+d.Minutes, "derived fields for %s", date)
		assert.GreaterOrEqual(t, d.TotalMinutes, 0)
	}
}

func TestAccumulator_FlushCreditsWholeMinutes(t *testing.T) {
	// Scenario A: start 10:00, flush 10:05, flush 10:07:30.
	a := NewAccumulator(nil)
	a.Init(at(1, 10, 0, 0))
	a.Start(at(1, 10, 0, 0))

	res := a.Flush(at(1, 10, 5, 0))
	assert.Equal(t, 5, res.CreditedMinutes())
	assert.Equal(t, 5, a.Today(at(1, 10, 5, 0)).TotalMinutes)
	assert.Equal(t, at(1, 10, 5, 0), a.SessionStart())

	a.Flush(at(1, 10, 7, 30))
	assert.Equal(t, 7, a.Today(at(1, 10, 7, 30)).TotalMinutes)
	// The 30s remainder stays in the open session.
	assert.Equal(t, at(1, 10, 7, 0), a.SessionStart())

	a.Flush(at(1, 10, 8, 0))
	assert.Equal(t, 8, a.Today(at(1, 10, 8, 0)).TotalMinutes)
	assertConsistent(t, a.Usage())
}

func TestAccumulator_SubMinuteFlushIsNoop(t *testing.T) {
	// Scenario D.
	a := NewAccumulator(nil)
	a.Init(at(1, 9, 0, 0))
	a.Start(at(1, 9, 0, 0))

	res := a.Flush(at(1, 9, 0, 30))
	assert.False(t, res.Dirty())
	assert.Equal(t, 0, a.Today(at(1, 9, 0, 30)).TotalMinutes)
	assert.Equal(t, at(1, 9, 0, 0), a.SessionStart())
}

func TestAccumulator_MidnightSplit(t *testing.T) {
	// P1: 23:58 -> 00:03 credits 2 to the old day and 3 to the new day.
	a := NewAccumulator(nil)
	a.Init(at(1, 23, 58, 0))
	a.Start(at(1, 23, 58, 0))

	res := a.Flush(at(2, 0, 3, 0))
	require.True(t, res.RolledOver)

	usage := a.Usage()
	assert.Equal(t, 2, usage["2024-01-01"].TotalMinutes)
	assert.Equal(t, 3, usage["2024-01-02"].TotalMinutes)
	assert.Equal(t, at(2, 0, 3, 0), a.SessionStart())
	assert.Contains(t, res.Created, "2024-01-02")
	assertConsistent(t, usage)
}

func TestAccumulator_MidnightSplitCarriesSeconds(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(1, 23, 59, 30))
	a.Start(at(1, 23, 59, 30))

	res := a.Flush(at(2, 0, 0, 30))
	require.True(t, res.RolledOver)
	assert.Equal(t, 1, res.CreditedMinutes())

	usage := a.Usage()
	assert.Equal(t, 0, usage["2024-01-01"].TotalMinutes)
	assert.Equal(t, 1, usage["2024-01-02"].TotalMinutes)
	assert.Equal(t, at(2, 0, 0, 30), a.SessionStart())

	a.Stop(at(2, 0, 0, 59))
	assert.Equal(t, 1, a.Usage()["2024-01-02"].TotalMinutes)
}

func TestAccumulator_MidnightSplitRemainderAcrossDays(t *testing.T) {
	// 23:58:45 -> 00:02:30 two days later: 1m on day 1 (15s carried),
	// a full day, then 2m45s on day 3 with 45s left open.
	a := NewAccumulator(nil)
	a.Init(at(1, 23, 58, 45))
	a.Start(at(1, 23, 58, 45))

	a.Flush(at(3, 0, 2, 30))

	usage := a.Usage()
	assert.Equal(t, 1, usage["2024-01-01"].TotalMinutes)
	assert.Equal(t, models.MinutesPerDay, usage["2024-01-02"].TotalMinutes)
	assert.Equal(t, 2, usage["2024-01-03"].TotalMinutes)
	assert.Equal(t, at(3, 0, 1, 45), a.SessionStart())
	assertConsistent(t, usage)
}

func TestAccumulator_MidnightSplitViaPoll(t *testing.T) {
	a := NewAccumulator(models.WeeklyUsage{
		"2024-01-01": {Date: "2024-01-01", TotalMinutes: 100},
	})
	a.Init(at(1, 23, 50, 0))
	a.Start(at(1, 23, 50, 0))
	a.Flush(at(1, 23, 55, 0))

	res := a.ReconcileDayChange(at(2, 0, 1, 0))
	require.True(t, res.RolledOver)

	usage := a.Usage()
	assert.Equal(t, 110, usage["2024-01-01"].TotalMinutes)
	assert.Equal(t, 1, usage["2024-01-02"].TotalMinutes)

	// A second reconcile on the same day changes nothing.
	again := a.ReconcileDayChange(at(2, 0, 1, 30))
	assert.False(t, again.Dirty())
	assert.False(t, again.RolledOver)
}

func TestAccumulator_SessionSpanningSeveralMidnights(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(1, 23, 0, 0))
	a.Start(at(1, 23, 0, 0))

	a.Flush(at(3, 0, 30, 0))

	usage := a.Usage()
	assert.Equal(t, 60, usage["2024-01-01"].TotalMinutes)
	assert.Equal(t, models.MinutesPerDay, usage["2024-01-02"].TotalMinutes)
	assert.Equal(t, 30, usage["2024-01-03"].TotalMinutes)
	assertConsistent(t, usage)
}

func TestAccumulator_NoDoubleCounting(t *testing.T) {
	// Every credited minute corresponds to wall time inside the session.
	a := NewAccumulator(nil)
	start := at(1, 22, 0, 0)
	a.Init(start)
	a.Start(start)

	now := start
	for i := 0; i < 3*60*6; i++ {
		now = now.Add(10 * time.Second)
		a.Flush(now)
		if i%3 == 0 {
			a.ReconcileDayChange(now)
		}
	}
	a.Stop(now)

	assert.Equal(t, int(now.Sub(start)/time.Minute), a.Usage().TotalMinutes())
}

func TestAccumulator_StopDiscardsRemainder(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(1, 10, 0, 0))
	a.Start(at(1, 10, 0, 0))

	res := a.Stop(at(1, 10, 2, 59))
	assert.Equal(t, 2, res.CreditedMinutes())
	assert.False(t, a.IsTracking())
	assert.True(t, a.SessionStart().IsZero())

	// Stopping while idle is a no-op.
	assert.False(t, a.Stop(at(1, 11, 0, 0)).Dirty())
}

func TestAccumulator_VisibilityPausesTracking(t *testing.T) {
	// Scenario B: hidden 14:00..14:30 is not counted.
	a := NewAccumulator(nil)
	a.Init(at(1, 13, 0, 0))
	a.Start(at(1, 13, 0, 0))
	for now := at(1, 13, 0, 10); !now.After(at(1, 14, 0, 0)); now = now.Add(10 * time.Second) {
		a.Flush(now)
	}

	a.SetVisible(false, at(1, 14, 0, 0))
	assert.False(t, a.IsTracking())
	assert.Equal(t, 60, a.Today(at(1, 14, 0, 0)).TotalMinutes)

	a.SetVisible(true, at(1, 14, 30, 0))
	assert.True(t, a.IsTracking())
	assert.Equal(t, at(1, 14, 30, 0), a.SessionStart())

	a.Flush(at(1, 14, 40, 0))
	assert.Equal(t, 70, a.Today(at(1, 14, 40, 0)).TotalMinutes)
}

func TestAccumulator_VisibleOnNewDayCreatesRecord(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(1, 23, 0, 0))
	a.Start(at(1, 23, 0, 0))
	a.SetVisible(false, at(1, 23, 30, 0))

	res := a.SetVisible(true, at(2, 8, 0, 0))
	assert.True(t, res.RolledOver)
	assert.Contains(t, a.Usage(), "2024-01-02")
	assert.Equal(t, 30, a.Usage()["2024-01-01"].TotalMinutes)
	assert.Equal(t, 0, a.Usage()["2024-01-02"].TotalMinutes)
}

func TestAccumulator_ResetWhileTracking(t *testing.T) {
	// Scenario C and P5.
	a := NewAccumulator(models.WeeklyUsage{
		"2024-01-01": {Date: "2024-01-01", TotalMinutes: 50},
		"2024-01-02": {Date: "2024-01-02", TotalMinutes: 20},
	})
	a.Init(at(3, 9, 0, 0))
	a.Start(at(3, 9, 0, 0))

	now := at(3, 9, 7, 45)
	res := a.Reset(now)
	assert.True(t, res.Reset)

	usage := a.Usage()
	require.Len(t, usage, 1)
	assert.Equal(t, models.NewDailyUsage("2024-01-03"), usage["2024-01-03"])
	assert.True(t, a.IsTracking())
	assert.Equal(t, now, a.SessionStart())
}

func TestAccumulator_ResetWhileIdle(t *testing.T) {
	a := NewAccumulator(models.WeeklyUsage{"2024-01-01": {Date: "2024-01-01", TotalMinutes: 5}})
	a.Init(at(2, 9, 0, 0))

	a.Reset(at(2, 9, 0, 0))
	assert.False(t, a.IsTracking())
	assert.Len(t, a.Usage(), 1)
}

func TestAccumulator_BackwardClock(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(2, 10, 0, 0))
	a.Start(at(2, 10, 0, 0))

	assert.NotPanics(t, func() {
		a.Flush(at(2, 9, 0, 0))
		a.ReconcileDayChange(at(1, 9, 0, 0))
		a.Flush(at(1, 9, 5, 0))
	})
	assertConsistent(t, a.Usage())
	for _, d := range a.Usage() {
		assert.GreaterOrEqual(t, d.TotalMinutes, 0)
	}
}

func TestAccumulator_StartIsIdempotent(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(1, 10, 0, 0))
	a.Start(at(1, 10, 0, 0))
	a.Start(at(1, 10, 5, 0))

	assert.Equal(t, at(1, 10, 0, 0), a.SessionStart())
	assert.Equal(t, 5*time.Minute, a.SessionDuration(at(1, 10, 5, 0)))
}

func TestAccumulator_SessionDurationSurvivesFlush(t *testing.T) {
	a := NewAccumulator(nil)
	a.Init(at(1, 10, 0, 0))
	a.Start(at(1, 10, 0, 0))
	a.Flush(at(1, 10, 30, 0))

	assert.Equal(t, 31*time.Minute, a.SessionDuration(at(1, 10, 31, 0)))
	assert.Equal(t, at(1, 10, 0, 0), a.SessionBegan())
}

func TestNewAccumulator_NormalizesRecords(t *testing.T) {
	a := NewAccumulator(models.WeeklyUsage{
		"2024-01-01": {TotalMinutes: 75, Hours: 0, Minutes: 0},
	})
	d := a.Usage()["2024-01-01"]
	assert.Equal(t, "2024-01-01", d.Date)
	assert.Equal(t, 1, d.Hours)
	assert.Equal(t, 15, d.Minutes)
}

func TestAccumulator_InitCreatesToday(t *testing.T) {
	a := NewAccumulator(nil)
	res := a.Init(at(5, 12, 0, 0))
	assert.Equal(t, []string{"2024-01-05"}, res.Created)
	assert.True(t, res.Dirty())

	again := a.Init(at(5, 13, 0, 0))
	assert.False(t, again.Dirty())
}
