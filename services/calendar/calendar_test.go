package calendarsvc

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/services/logger"
)

func testLogger() core.Logger {
	l := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{})
	l.Enable(false)
	return l
}

func TestMemoryProvider(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()

	calID, err := p.CreateCalendar(ctx, "assignment organizer", "America/New_York")
	require.NoError(t, err)

	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ev, err := p.InsertEvent(ctx, calID, core.NewCalendarEvent{Summary: "HW1", Description: "None", Start: start, End: start.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, calID, ev.OrganizerEmail)
	assert.Equal(t, calID, ev.CalendarID)
	assert.Equal(t, "America/New_York", ev.Start.Location().String())
	assert.True(t, ev.Start.Equal(start))
	assert.Equal(t, 20, ev.End.Hour(), "times are on the calendar's wall clock")

	events, err := p.ListEvents(ctx, calID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "HW1", events[0].Summary)
	assert.Equal(t, 10, events[0].End.Day())
	assert.Equal(t, 1, p.CalendarCount())

	require.NoError(t, p.DeleteEvent(ctx, calID, ev.ID))
	events, err = p.ListEvents(ctx, calID)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = p.ListEvents(ctx, "lol")
	assert.True(t, core.IsProviderError(err))

	_, err = p.CreateCalendar(ctx, "x", "Mars/Olympus_Mons")
	assert.True(t, core.IsProviderError(err))
	assert.Equal(t, 1, p.CalendarCount())

	p.SetFailure(errors.New("quota exceeded"))
	_, err = p.CreateCalendar(ctx, "x", "UTC")
	assert.True(t, core.IsProviderError(err))
	p.SetFailure(nil)
}

func Test_retryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "plain error", err: errors.New("lol")},
		{name: "too many requests", err: &googleapi.Error{Code: http.StatusTooManyRequests}, want: true},
		{name: "backend error", err: &googleapi.Error{Code: http.StatusServiceUnavailable}, want: true},
		{name: "rate limited", err: &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}, want: true},
		{name: "forbidden", err: &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "forbidden"}}}},
		{name: "not found", err: &googleapi.Error{Code: http.StatusNotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func Test_retry(t *testing.T) {
	ctx := context.Background()
	transient := &googleapi.Error{Code: http.StatusInternalServerError}
	permanent := &googleapi.Error{Code: http.StatusNotFound}

	tests := []struct {
		name         string
		errs         []error // returned by successive attempts
		wantAttempts int
		wantErr      bool
	}{
		{name: "first attempt", errs: []error{nil}, wantAttempts: 1},
		{name: "recovers", errs: []error{transient, transient, nil}, wantAttempts: 3},
		{name: "permanent", errs: []error{permanent}, wantAttempts: 1, wantErr: true},
		{name: "exhausted", errs: []error{transient, transient, transient, transient}, wantAttempts: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int
			err := retry(ctx, testLogger(), 3, time.Millisecond, "testing", func() error {
				err := tt.errs[attempts]
				attempts++
				return err
			})
			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				var perr *core.ProviderError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, "testing", perr.Op)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
