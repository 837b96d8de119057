package organizer_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core/organizer"
)

func TestService_Files(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	prof := e.student(t, "prof", true)
	alice := e.student(t, "alice", false)
	bob := e.student(t, "bob", false)
	e.createClass(t, prof, "CS 2110", alice, bob)
	outsider := e.student(t, "eve", false)

	nf := organizer.NewFile{Title: "Lecture 1", Description: "slides"}
	f, err := e.svc.UploadFile(ctx, alice, "CS 2110", nf, "lecture1.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), f.Size)
	assert.Equal(t, "alice", f.AuthorName)

	_, err = e.svc.UploadFile(ctx, outsider, "CS 2110", nf, "x.pdf", "application/pdf", strings.NewReader("x"))
	assert.Equal(t, organizer.ErrNotEnrolled, err)
	_, err = e.svc.UploadFile(ctx, alice, "lol", nf, "x.pdf", "application/pdf", strings.NewReader("x"))
	assert.Equal(t, organizer.ErrClassNotFound, err)

	_, err = e.svc.UploadFile(ctx, bob, "CS 2110", organizer.NewFile{Title: "Homework"}, "hw.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	files, err := e.svc.ListFiles(ctx, organizer.FileFilter{ClassName: "CS 2110", Title: "lecture"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, f.ID, files[0].ID)

	got, rc, err := e.svc.OpenFile(ctx, f.ID)
	require.NoError(t, err)
	content, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "lecture1.pdf", got.Filename)
	assert.Equal(t, "%PDF-1.4", string(content))

	assert.True(t, e.svc.CanDeleteFile(ctx, alice, f))
	assert.True(t, e.svc.CanDeleteFile(ctx, prof, f))
	assert.False(t, e.svc.CanDeleteFile(ctx, bob, f))

	_, err = e.svc.DeleteFile(ctx, bob, f.ID)
	assert.Equal(t, organizer.ErrForbidden, err)
	_, err = e.svc.DeleteFile(ctx, prof, f.ID)
	require.NoError(t, err)
	_, _, err = e.svc.OpenFile(ctx, f.ID)
	assert.True(t, organizer.IsNotFound(err))
}

func TestService_Profile(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	alice := e.student(t, "alice", false)
	assert.Equal(t, organizer.DefaultMood, alice.Student.Mood)
	assert.Equal(t, "Email:alice@test.edu", organizer.ProfileText(*alice.Student))

	ep := organizer.EditProfile{Name: " Alice ", Mood: "Studying", Description: "Major: CS\r\nYear: 2"}
	require.NoError(t, ep.Validate(validate))
	require.NoError(t, e.svc.UpdateProfile(ctx, alice, ep))

	stored := e.reload(t, alice)
	assert.Equal(t, "Alice", stored.Student.Name)
	assert.Equal(t, "Major: CS\nYear: 2", organizer.ProfileText(*stored.Student))

	_, err := e.svc.OpenProfilePhoto(ctx, alice.ID())
	assert.Equal(t, organizer.ErrFileNotFound, err)

	require.NoError(t, e.svc.SetProfilePhoto(ctx, alice, "me.png", strings.NewReader("first")))
	require.NoError(t, e.svc.SetProfilePhoto(ctx, alice, "me.png", strings.NewReader("second")))
	rc, err := e.svc.OpenProfilePhoto(ctx, alice.ID())
	require.NoError(t, err)
	content, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "second", string(content))

	assert.Equal(t, organizer.ErrAnonymous, e.svc.UpdateProfile(ctx, organizer.Anonymous(), ep))
}
