package organizer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

func TestService_ListEvents(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.createClass(t, prof, "CS 2110", alice)
	e.createClass(t, prof, "APMA 3080", alice)

	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Read ch. 1", Date: "2024-05-03", Calendar: "personal"})
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Study CS", Date: "2024-05-20", Calendar: "CS 2110"})
	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW1", Date: "2024-05-10", Class: "CS 2110"})
	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "Quiz", Date: "2024-06-01", Class: "APMA 3080"})

	cs := core.Named("CS 2110")
	tests := []struct {
		name   string
		filter organizer.EventFilter
		want   []string
	}{
		{name: "everything", want: []string{"Read ch. 1", "Study CS", "HW1", "Quiz"}},
		{name: "may 2024", filter: organizer.EventFilter{Month: 5, Year: 2024}, want: []string{"Read ch. 1", "Study CS", "HW1"}},
		{name: "end date on the calendar's clock", filter: organizer.EventFilter{Day: 10, Month: 5, Year: 2024}, want: []string{"HW1"}},
		{name: "end date in UTC", filter: organizer.EventFilter{Day: 11, Month: 5, Year: 2024}},
		{name: "one class", filter: organizer.EventFilter{Class: &cs}, want: []string{"Study CS", "HW1"}},
		{name: "other year", filter: organizer.EventFilter{Year: 2023}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := e.svc.ListEvents(ctx, alice, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summaries(events))
		})
	}

	t.Run("scopes", func(t *testing.T) {
		events, err := e.svc.ListEvents(ctx, alice, organizer.EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.True(t, events[0].Scope.IsPersonal())
		assert.True(t, events[1].Scope.IsPersonal())
		assert.Equal(t, cs, events[1].Label())
		assert.Equal(t, cs, events[2].Scope)
		assert.Equal(t, core.Named("APMA 3080"), events[3].Scope)
	})

	t.Run("anonymous", func(t *testing.T) {
		events, err := e.svc.ListEvents(ctx, organizer.Anonymous(), organizer.EventFilter{})
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestService_AddAssignment(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	other := e.student(t, "other", true)
	alice := e.student(t, "alice", false)
	e.createClass(t, prof, "CS 2110", alice)

	ev := e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Essay", Date: "2024-05-10", Calendar: "none"})
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), ev.Start.UTC())
	assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), ev.End.UTC())
	assert.Equal(t, "None", ev.Description)
	assert.NotEmpty(t, alice.Student.CalendarID, "personal calendar is created on first use")

	tests := []struct {
		name    string
		actor   organizer.Actor
		na      organizer.NewAssignment
		wantErr error
	}{
		{name: "anonymous", actor: organizer.Anonymous(), na: organizer.NewAssignment{Summary: "x", Date: "2024-05-10"}, wantErr: organizer.ErrAnonymous},
		{name: "student on class calendar", actor: alice, na: organizer.NewAssignment{Summary: "x", Date: "2024-05-10", Class: "CS 2110"}, wantErr: organizer.ErrNotProfessor},
		{name: "professor of another class", actor: other, na: organizer.NewAssignment{Summary: "x", Date: "2024-05-10", Class: "CS 2110"}, wantErr: organizer.ErrNotProfessor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.AddAssignment(ctx, tt.actor, tt.na)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	t.Run("provider failure", func(t *testing.T) {
		e.cal.SetFailure(errors.New("rate limit exceeded"))
		defer e.cal.SetFailure(nil)
		_, err := e.svc.AddAssignment(ctx, alice, organizer.NewAssignment{Summary: "x", Date: "2024-05-10"})
		assert.True(t, core.IsProviderError(err))
	})
}

func TestService_DeleteAssignment(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.createClass(t, prof, "CS 2110", alice)

	personal := e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Essay", Date: "2024-05-10"})
	hw := e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW1", Date: "2024-05-10", Class: "CS 2110"})
	_, err := e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	e.mail.Reset()

	cs := core.Named("CS 2110")
	assert.Equal(t, organizer.ErrNotProfessor, e.svc.DeleteAssignment(ctx, alice, cs, hw.ID))
	require.NoError(t, e.svc.DeleteAssignment(ctx, alice, core.Personal(), personal.ID))
	require.NoError(t, e.svc.DeleteAssignment(ctx, prof, cs, hw.ID))

	events, err := e.svc.ListEvents(ctx, alice, organizer.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)

	// both members are told about the deletion
	sent, err := e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	for _, msg := range e.mail.SentMessages() {
		assert.Contains(t, msg.HTMLContent, "Assignment 'HW1' was deleted for class 'CS 2110'.")
	}
}

func TestService_CanAdministerEvent(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.createClass(t, prof, "CS 2110", alice)

	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Essay", Date: "2024-05-10"})
	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW1", Date: "2024-05-10", Class: "CS 2110"})

	events, err := e.svc.ListEvents(ctx, alice, organizer.EventFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"Essay", "HW1"}, summaries(events))

	assert.True(t, e.svc.CanAdministerEvent(ctx, alice, events[0]))
	assert.False(t, e.svc.CanAdministerEvent(ctx, alice, events[1]))
	assert.True(t, e.svc.CanAdministerEvent(ctx, prof, events[1]))
	assert.False(t, e.svc.CanAdministerEvent(ctx, organizer.Anonymous(), events[0]))
}
