package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/store"
)

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := models.ParseDate(date, time.Local)
	require.NoError(t, err)
	return d
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) nextDay() { c.now = c.now.AddDate(0, 0, 1) }

func newTestService(t *testing.T, date string) (*Service, *store.Memory, *stepClock) {
	t.Helper()
	clock := &stepClock{now: mustDate(t, date).Add(9 * time.Hour)}
	st := store.NewMemory()
	return New(st, clock.Now), st, clock
}

func drain(s *Service) []Event {
	var events []Event
	for {
		select {
		case e := <-s.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestService_GetAndUpdatePersists(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t, "2024-01-01")

	got := svc.GetAndUpdate(ctx)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, "2024-01-01", got.LastLoginDate)

	var persisted models.StreakData
	ok, err := store.GetJSON(ctx, st, store.KeyStreakData, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got, persisted)

	// Same day again.
	again := svc.GetAndUpdate(ctx)
	assert.Equal(t, got, again)

	events := drain(svc)
	require.Len(t, events, 1)
	assert.Equal(t, EventLogin, events[0].Type)
}

func TestService_ConsecutiveDaysLevelUp(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t, "2024-01-01")

	var got models.StreakData
	for i := 0; i < 5; i++ {
		got = svc.GetAndUpdate(ctx)
		clock.nextDay()
	}

	// 10+20+30+40+50
	assert.Equal(t, 150, got.TotalPoints)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 200, got.PointsToNextLevel)
	assert.Equal(t, 5, got.LongestStreak)

	var levelUps int
	for _, e := range drain(svc) {
		if e.Type == EventLevelUp {
			levelUps++
			assert.Equal(t, 2, e.Record.Level)
		}
	}
	assert.Equal(t, 1, levelUps)
}

func TestService_CorruptDataTreatedAsDefault(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t, "2024-01-01")
	require.NoError(t, st.Set(ctx, store.KeyStreakData, "{not json"))

	assert.Equal(t, models.DefaultStreakData(), svc.Current(ctx))

	got := svc.GetAndUpdate(ctx)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 10, got.TotalPoints)
}

func TestService_CurrentDoesNotUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t, "2024-01-01")

	assert.Equal(t, models.DefaultStreakData(), svc.Current(ctx))
	first := svc.GetAndUpdate(ctx)

	clock.nextDay()
	assert.Equal(t, first, svc.Current(ctx))
}

func TestService_PersistFailureStillReturnsRecord(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t, "2024-01-01")
	st.SetFailWrites(true)

	got := svc.GetAndUpdate(ctx)
	assert.Equal(t, 1, got.CurrentStreak)

	st.SetFailWrites(false)
	assert.Equal(t, models.DefaultStreakData(), svc.Current(ctx))
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t, "2024-01-01")
	svc.GetAndUpdate(ctx)
	drain(svc)

	require.NoError(t, svc.Reset(ctx))
	_, ok, err := st.Get(ctx, store.KeyStreakData)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.DefaultStreakData(), svc.Current(ctx))

	events := drain(svc)
	require.Len(t, events, 1)
	assert.Equal(t, EventReset, events[0].Type)

	st.SetFailWrites(true)
	assert.ErrorIs(t, svc.Reset(ctx), store.ErrUnavailable)
}

func TestService_NilClockUsesWallTime(t *testing.T) {
	svc := New(store.NewMemory(), nil)
	got := svc.GetAndUpdate(context.Background())
	assert.Equal(t, models.FormatDate(time.Now()), got.LastLoginDate)
}
