package organizer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

func TestService_TodoList(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	mockNow(t, time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC))

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.createClass(t, prof, "CS 2110", alice)

	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW2", Date: "2024-05-20", Class: "CS 2110"})
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Essay", Date: "2024-05-03"})
	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW1", Date: "2024-05-10", Class: "CS 2110"})
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Notes", Date: "2024-05-04"})
	require.NoError(t, e.svc.SetColor(ctx, alice, core.Named("CS 2110"), "#00ff00"))

	tl, err := e.svc.TodoList(ctx, alice, core.Personal())
	require.NoError(t, err)

	var future, past, statuses []string
	for _, item := range tl.Future {
		future = append(future, item.Event.Summary)
		statuses = append(statuses, item.Status)
	}
	for _, item := range tl.Past {
		past = append(past, item.Event.Summary)
		statuses = append(statuses, item.Status)
	}
	assert.Equal(t, []string{"HW1", "HW2"}, future)
	assert.Equal(t, []string{"Essay", "Notes"}, past)
	assert.Equal(t, []string{"Due in 5 Days", "Due in 15 Days", "Due 2 Days Ago", "Due 1 Day Ago"}, statuses)
	assert.Equal(t, "#00ff00", tl.Future[0].Color)
	assert.Equal(t, organizer.DefaultColor, tl.Past[0].Color)
	assert.False(t, tl.Future[0].CanAdminister)
	assert.True(t, tl.Past[0].CanAdminister)

	classOnly, err := e.svc.TodoList(ctx, alice, core.Named("CS 2110"))
	require.NoError(t, err)
	assert.Len(t, classOnly.Future, 2)
	assert.Empty(t, classOnly.Past)

	empty, err := e.svc.TodoList(ctx, organizer.Anonymous(), core.Personal())
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestService_CheckOff(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	bob := e.student(t, "bob", false)
	e.createClass(t, prof, "CS 2110", alice, bob)
	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW1", Date: "2024-05-10", Class: "CS 2110"})

	events, err := e.svc.ListEvents(ctx, alice, organizer.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]

	// toggling has a period of 2
	for _, want := range []bool{true, false, true} {
		checked, err := e.svc.CheckOff(ctx, alice, ev.Scope, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, want, checked)
		assert.Equal(t, want, e.svc.IsCheckedOff(ctx, alice, ev))
	}
	assert.False(t, e.svc.IsCheckedOff(ctx, bob, ev), "check marks are per student")

	_, err = e.svc.CheckOff(ctx, organizer.Anonymous(), ev.Scope, ev.ID)
	assert.Equal(t, organizer.ErrAnonymous, err)
}
