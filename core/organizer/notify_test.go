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

func TestService_NotifyClassOfChange(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.student(t, "bob", false)
	e.createClass(t, prof, "CS 2110", alice)

	require.NoError(t, e.svc.NotifyClassOfChange(ctx, "CS 2110", "HW1", "create"))

	sent, err := e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	msgs := e.mail.SentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice@test.edu", msgs[0].To[0].Address)
	assert.Equal(t, "prof@test.edu", msgs[1].To[0].Address)
	assert.Equal(t, "Assignment Organizer", msgs[0].Subject)

	want := "Dear alice,<br>\n<br>\nAn assignment has been updated in one of your classes:<br>\n<br>\n" +
		"Assignment 'HW1' was created for class 'CS 2110'.<br>\n<br>\nWe hope you have a great day,<br>\nAssignment Organizer"
	assert.Equal(t, want, msgs[0].HTMLContent)
	assert.NotContains(t, msgs[0].TextContent, "<br>")
}

func TestService_FlushNotifications(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	alice := e.student(t, "alice", false)
	bob := e.student(t, "bob", false)
	require.NoError(t, e.svc.QueueNotification(ctx, alice.ID(), "hello alice"))
	require.NoError(t, e.svc.QueueNotification(ctx, bob.ID(), "hello bob"))
	// unknown users are skipped
	require.NoError(t, e.svc.QueueNotification(ctx, "lol", "hello nobody"))

	e.mail.FailFor["bob@test.edu"] = true
	sent, err := e.svc.FlushNotifications(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, sent)

	// failures stay queued for the next run
	delete(e.mail.FailFor, "bob@test.edu")
	sent, err = e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	msgs := e.mail.SentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello alice", msgs[0].HTMLContent)
	assert.Equal(t, "hello bob", msgs[1].HTMLContent)

	sent, err = e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestService_NotifyDueToday(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.student(t, "bob", false)
	e.createClass(t, prof, "CS 2110", alice)

	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Essay", Date: "2024-05-09"})
	e.addAssignment(t, prof, organizer.NewAssignment{Summary: "HW1", Date: "2024-05-09", Class: "CS 2110"})
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Reading", Date: "2024-05-09", Calendar: "CS 2110"})
	e.addAssignment(t, alice, organizer.NewAssignment{Summary: "Later", Date: "2024-05-12"})
	_, err := e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	e.mail.Reset()

	// the digest covers events that ended the day before; "Reading" is grouped with the
	// calendar it lives in, not with its label
	mockNow(t, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))

	queued, err := e.svc.NotifyDueToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, queued)

	_, err = e.svc.FlushNotifications(ctx)
	require.NoError(t, err)
	msgs := e.mail.SentMessages()
	require.Len(t, msgs, 2)

	assert.Equal(t, "alice@test.edu", msgs[0].To[0].Address)
	assert.Contains(t, msgs[0].HTMLContent, "You have some assignments due today:<br>\n<br>\n"+
		"For CS 2110:<br>&emsp;HW1<br>For Personal:<br>&emsp;Essay<br>&emsp;Reading<br><br>\n")
	assert.Contains(t, msgs[0].HTMLContent, "Good luck on your classes,<br>\nAssignment Organizer")
	assert.Equal(t, "prof@test.edu", msgs[1].To[0].Address)
	assert.Contains(t, msgs[1].HTMLContent, "For CS 2110:<br>&emsp;HW1<br><br>")
}

func TestDueTodayDigest(t *testing.T) {
	ev := func(summary string, scope core.Scope) core.CalendarEvent {
		return core.CalendarEvent{Summary: summary, Scope: scope}
	}
	tests := []struct {
		name   string
		events []core.CalendarEvent
		want   string
	}{
		{name: "empty"},
		{
			name:   "personal only",
			events: []core.CalendarEvent{ev("a", core.Personal()), ev("b", core.Personal())},
			want:   "For Personal:<br>&emsp;a<br>&emsp;b<br>",
		},
		{
			name:   "grouped by storage key",
			events: []core.CalendarEvent{ev("a", core.Personal()), ev("b", core.Named("Zoo 101")), ev("c", core.Named("Art 101")), ev("d", core.Personal())},
			want:   "For Art 101:<br>&emsp;c<br>For Personal:<br>&emsp;a<br>&emsp;d<br>For Zoo 101:<br>&emsp;b<br>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, organizer.DueTodayDigest(tt.events))
		})
	}
}
