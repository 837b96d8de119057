package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
	"github.com/trezcool/organizer/storage/database/sqlx"
	"github.com/trezcool/organizer/tests"
)

func setup(t *testing.T) (user.Repository, organizer.Repository) {
	db := testutil.PrepareDB(t)
	return sqlxrepos.NewUserRepository(db), sqlxrepos.NewOrganizerRepository(db)
}

func Test_userRepository(t *testing.T) {
	usrRepo, _ := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "secret123", true)

	got, err := usrRepo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "awe", got.Username)
	assert.NoError(t, got.CheckPassword("secret123"))
	assert.True(t, got.LastLogin.IsZero())

	got, err = usrRepo.GetUserByUsernameOrEmail(ctx, "awe@test.cd")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = usrRepo.GetUserByID(ctx, "not-a-uuid")
	assert.Equal(t, user.ErrNotFound, err)
	_, err = usrRepo.GetUserByUsernameOrEmail(ctx, "lol")
	assert.Equal(t, user.ErrNotFound, err)

	tests := []struct {
		name     string
		username string
		email    string
		excluded []user.User
		wantErr  error
	}{
		{name: "free", username: "other", email: "other@test.cd"},
		{name: "username taken", username: "awe", email: "other@test.cd", wantErr: user.ErrUsernameExists},
		{name: "email taken", username: "other", email: "awe@test.cd", wantErr: user.ErrEmailExists},
		{name: "excluded", username: "awe", email: "awe@test.cd", excluded: []user.User{usr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := usrRepo.CheckUsernameUniqueness(ctx, tt.username, tt.email, tt.excluded...)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	got.LastLogin = time.Now()
	got.IsActive = false
	_, err = usrRepo.UpdateUser(ctx, got)
	require.NoError(t, err)
	got, err = usrRepo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.LastLogin.IsZero())
}

func Test_organizerRepository_students(t *testing.T) {
	usrRepo, repo := setup(t)
	ctx := context.Background()

	prof := testutil.CreateStudent(t, usrRepo, repo, "prof", true)
	testutil.CreateClass(t, repo, "CS 2110", prof.ID, "cal-cs")
	testutil.CreateClass(t, repo, "APMA 3080", prof.ID, "cal-apma")
	alice := testutil.CreateStudent(t, usrRepo, repo, "alice", false, "CS 2110", "APMA 3080")
	testutil.CreateStudent(t, usrRepo, repo, "bob", false, "CS 2110")

	got, err := repo.GetStudent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"APMA 3080", "CS 2110"}, got.ClassNames())
	assert.Equal(t, "", got.CalendarID)

	got.CalendarID = "personal-cal"
	got.Color = "#ff0000"
	_, err = repo.UpdateStudent(ctx, got)
	require.NoError(t, err)
	got, err = repo.GetStudent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "personal-cal", got.CalendarID)
	assert.Equal(t, "#ff0000", got.Color)
	assert.Len(t, got.Classes, 2)

	members, err := repo.QueryMembers(ctx, "CS 2110")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Name)
	assert.Equal(t, "bob", members[1].Name)

	// enrolling twice is a no-op
	require.NoError(t, repo.Enroll(ctx, organizer.Enrollment{StudentID: alice.ID, ClassName: "CS 2110", Color: "#000000"}))
	require.NoError(t, repo.SetEnrollmentColor(ctx, alice.ID, "CS 2110", "#123456"))
	classes, err := repo.QueryEnrollments(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "#123456", classes[1].Color)

	require.NoError(t, repo.Unenroll(ctx, alice.ID, "CS 2110"))
	err = repo.SetEnrollmentColor(ctx, alice.ID, "CS 2110", "#123456")
	assert.Equal(t, organizer.ErrNotEnrolled, err)

	all, err := repo.QueryAllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetStudent(ctx, "lol")
	assert.Equal(t, organizer.ErrStudentNotFound, err)
}

func Test_organizerRepository_classes(t *testing.T) {
	usrRepo, repo := setup(t)
	ctx := context.Background()

	prof := testutil.CreateStudent(t, usrRepo, repo, "prof", true)
	testutil.CreateClass(t, repo, "CS 2110", prof.ID, "cal-cs")

	_, err := repo.CreateClass(ctx, organizer.Class{Name: "CS 2110", ProfessorID: prof.ID, CalendarID: "x", CreatedAt: time.Now()})
	assert.Equal(t, organizer.ErrClassExists, err)

	cls, err := repo.GetClass(ctx, "CS 2110")
	require.NoError(t, err)
	assert.Equal(t, prof.ID, cls.ProfessorID)
	assert.Equal(t, "cal-cs", cls.CalendarID)

	_, err = repo.GetClass(ctx, "cs 2110")
	assert.Equal(t, organizer.ErrClassNotFound, err)

	classes, err := repo.QueryAllClasses(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func Test_organizerRepository_files(t *testing.T) {
	usrRepo, repo := setup(t)
	ctx := context.Background()

	prof := testutil.CreateStudent(t, usrRepo, repo, "prof", true)
	testutil.CreateClass(t, repo, "CS 2110", prof.ID, "cal-cs")

	now := time.Now().UTC().Truncate(time.Second)
	mk := func(id, title string, size int64, uploaded time.Time) {
		_, err := repo.CreateFile(ctx, organizer.File{
			ID: id, Title: title, AuthorID: prof.ID, AuthorName: prof.Name, ClassName: "CS 2110",
			Handle: "h-" + id, Filename: id + ".pdf", ContentType: "application/pdf", Size: size, UploadedAt: uploaded,
		})
		require.NoError(t, err)
	}
	mk("1", "Homework 1", 300, now.Add(-2*time.Hour))
	mk("2", "Lecture notes", 100, now.Add(-1*time.Hour))
	mk("3", "homework 2", 200, now)

	ids := func(files []organizer.File) []string {
		var out []string
		for _, f := range files {
			out = append(out, f.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter organizer.FileFilter
		want   []string
	}{
		{name: "newest first", filter: organizer.FileFilter{ClassName: "CS 2110"}, want: []string{"3", "2", "1"}},
		{name: "title search ignores case", filter: organizer.FileFilter{ClassName: "CS 2110", Title: "HOMEWORK"}, want: []string{"3", "1"}},
		{name: "by size", filter: organizer.FileFilter{ClassName: "CS 2110", Ordering: []core.DBOrdering{{Field: "size", Ascending: true}}}, want: []string{"2", "3", "1"}},
		{name: "unknown ordering ignored", filter: organizer.FileFilter{ClassName: "CS 2110", Ordering: []core.DBOrdering{{Field: "handle; DROP TABLE files"}}}, want: []string{"3", "2", "1"}},
		{name: "other class", filter: organizer.FileFilter{ClassName: "lol"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := repo.FilterFiles(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(files))
		})
	}

	f, err := repo.GetFile(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "h-2", f.Handle)
	assert.True(t, f.UploadedAt.Equal(now.Add(-1*time.Hour)))

	require.NoError(t, repo.DeleteFile(ctx, "2"))
	_, err = repo.GetFile(ctx, "2")
	assert.Equal(t, organizer.ErrFileNotFound, err)
	assert.Equal(t, organizer.ErrFileNotFound, repo.DeleteFile(ctx, "2"))
}

func Test_organizerRepository_checksAndNotifications(t *testing.T) {
	usrRepo, repo := setup(t)
	ctx := context.Background()

	st := testutil.CreateStudent(t, usrRepo, repo, "alice", false)
	key := organizer.CheckKey{StudentID: st.ID, ClassName: core.Personal().Key(), EventID: "ev1"}

	checked, err := repo.IsChecked(ctx, key)
	require.NoError(t, err)
	assert.False(t, checked)

	require.NoError(t, repo.AddCheck(ctx, key))
	require.NoError(t, repo.AddCheck(ctx, key))
	checked, err = repo.IsChecked(ctx, key)
	require.NoError(t, err)
	assert.True(t, checked)

	require.NoError(t, repo.DeleteCheck(ctx, key))
	checked, err = repo.IsChecked(ctx, key)
	require.NoError(t, err)
	assert.False(t, checked)

	n1, err := repo.QueueNotification(ctx, organizer.Notification{Email: "a@test.edu", Body: "one", CreatedAt: time.Now()})
	require.NoError(t, err)
	n2, err := repo.QueueNotification(ctx, organizer.Notification{Email: "b@test.edu", Body: "two", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEqual(t, n1.ID, n2.ID)

	require.NoError(t, repo.DeleteNotifications(ctx, n1.ID))
	notifs, err := repo.QueryAllNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "two", notifs[0].Body)
	assert.NoError(t, repo.DeleteNotifications(ctx))
}

func Test_enrollmentIndexes(t *testing.T) {
	db := testutil.PrepareDB(t)

	var indexes []string
	err := db.Select(&indexes, `SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'enrollments' ORDER BY name`)
	require.NoError(t, err)
	assert.Contains(t, indexes, "enrollments_class_name_idx")
	assert.Contains(t, indexes, "sqlite_autoindex_enrollments_1", "the primary key covers lookups by student")
}
