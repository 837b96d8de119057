package organizer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core/organizer"
)

func TestMonthID(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		id    int
	}{
		{2024, time.January, 24289},
		{2024, time.May, 24293},
		{2024, time.November, 24299},
		{2024, time.December, 24300},
		{2025, time.January, 24301},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.id, organizer.MonthID(tt.year, tt.month))
			year, month := organizer.FromMonthID(tt.id)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.month, month)
		})
	}
}

func TestService_MonthCalendar(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	mockNow(t, time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC))

	alice := e.student(t, "alice", false)
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Essay", Date: "2024-05-10"})
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Taxes", Date: "2024-06-10"})

	mv, err := e.svc.MonthCalendar(ctx, alice, 0)
	require.NoError(t, err)

	assert.Equal(t, 2024, mv.Year)
	assert.Equal(t, time.May, mv.Month)
	assert.Equal(t, organizer.MonthID(2024, time.April), mv.PrevID)
	assert.Equal(t, organizer.MonthID(2024, time.June), mv.NextID)

	require.Len(t, mv.Weeks, 5)
	first := mv.Weeks[0][0]
	assert.Equal(t, time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC), first.Date)
	assert.False(t, first.InMonth)
	assert.True(t, mv.Weeks[0][6].IsToday)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), mv.Weeks[4][6].Date)

	// events land on the day they end, in the calendar's time zone
	cell := mv.Weeks[1][4]
	assert.Equal(t, 10, cell.Date.Day())
	require.Len(t, cell.Events, 1)
	assert.Equal(t, "Essay", cell.Events[0].Event.Summary)
	assert.Equal(t, "Due in 5 Days", cell.Events[0].Status)

	var count int
	for _, week := range mv.Weeks {
		for _, day := range week {
			count += len(day.Events)
		}
	}
	assert.Equal(t, 1, count)

	june, err := e.svc.MonthCalendar(ctx, alice, mv.NextID)
	require.NoError(t, err)
	assert.Equal(t, time.June, june.Month)
	assert.Equal(t, time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC), june.Weeks[0][0].Date)
}
