package organizer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

func TestService_CreateClass(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)

	cls, err := e.svc.CreateClass(ctx, prof, organizer.NewClass{Name: "CS 2110", Description: "Software Development Methods"})
	require.NoError(t, err)
	assert.Equal(t, prof.ID(), cls.ProfessorID)
	assert.NotEmpty(t, cls.CalendarID)
	assert.True(t, organizer.IsEnrolled(prof, "CS 2110"), "the professor is enrolled in place")

	stored := e.reload(t, prof)
	assert.Equal(t, []string{"CS 2110"}, stored.Student.ClassNames())

	t.Run("duplicate name", func(t *testing.T) {
		calendars := e.cal.CalendarCount()
		_, err := e.svc.CreateClass(ctx, prof, organizer.NewClass{Name: "CS 2110", Description: "Another description"})
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Fields[0].Field)
		assert.ErrorIs(t, err, organizer.ErrClassExists)
		assert.Equal(t, calendars, e.cal.CalendarCount(), "no calendar is provisioned for a duplicate")
	})

	t.Run("not a professor", func(t *testing.T) {
		_, err := e.svc.CreateClass(ctx, alice, organizer.NewClass{Name: "APMA 3080", Description: "Linear Algebra"})
		assert.Equal(t, organizer.ErrNotProfessor, err)
	})

	classes, err := e.svc.ListClasses(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestService_Enroll(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	bob := e.student(t, "bob", false)
	e.createClass(t, prof, "CS 2110", bob, alice)

	// idempotent
	require.NoError(t, e.svc.Enroll(ctx, alice, "CS 2110"))
	assert.Len(t, alice.Student.Classes, 1)

	members, err := e.svc.Members(ctx, "CS 2110")
	require.NoError(t, err)
	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"alice", "bob", "prof"}, names)

	assert.Equal(t, organizer.ErrClassNotFound, e.svc.Enroll(ctx, alice, "lol"))
	_, err = e.svc.Members(ctx, "lol")
	assert.Equal(t, organizer.ErrClassNotFound, err)

	require.NoError(t, e.svc.Unenroll(ctx, alice, "CS 2110"))
	assert.False(t, organizer.IsEnrolled(alice, "CS 2110"))
	assert.Empty(t, e.reload(t, alice).Student.Classes)

	assert.Equal(t, organizer.ErrAnonymous, e.svc.Enroll(ctx, organizer.Anonymous(), "CS 2110"))
}

func TestService_SetColor(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	e.createClass(t, prof, "CS 2110", alice)
	cs := core.Named("CS 2110")

	assert.Equal(t, organizer.DefaultColor, organizer.GetColor(alice, core.Personal()))
	assert.Equal(t, organizer.DefaultColor, organizer.GetColor(alice, cs))

	require.NoError(t, e.svc.SetColor(ctx, alice, core.Personal(), "#ff0000"))
	require.NoError(t, e.svc.SetColor(ctx, alice, cs, "#00ff00"))
	assert.Equal(t, "#ff0000", organizer.GetColor(alice, core.Personal()))
	assert.Equal(t, "#00ff00", organizer.GetColor(alice, cs))
	assert.Equal(t, "#ff0000", organizer.GetColor(alice, core.Named("APMA 3080")), "falls back on the personal color")

	stored := e.reload(t, alice)
	assert.Equal(t, "#ff0000", organizer.GetColor(stored, core.Personal()))
	assert.Equal(t, "#00ff00", organizer.GetColor(stored, cs))

	assert.Equal(t, organizer.ErrNotEnrolled, e.svc.SetColor(ctx, alice, core.Named("APMA 3080"), "#0000ff"))
	assert.Equal(t, organizer.DefaultColor, organizer.GetColor(organizer.Anonymous(), cs))
}
