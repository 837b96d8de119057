package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
	"github.com/trezcool/organizer/storage/database"
)

// PrepareDB opens a migrated SQLite database living in the test's temp dir.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open(database.EngineSQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB, database.EngineSQLite); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateStudent creates a user and its student record, enrolled in the given classes.
func CreateStudent(
	t *testing.T,
	usrRepo user.Repository,
	repo organizer.Repository,
	name string,
	isProfessor bool,
	classes ...string,
) organizer.Student {
	t.Helper()
	usr := CreateUser(t, usrRepo, name, name+"@test.edu", "", true)
	st, err := repo.CreateStudent(context.Background(), organizer.Student{
		ID:          usr.ID,
		Name:        name,
		Mood:        organizer.DefaultMood,
		Description: organizer.DefaultDescription(usr.Email),
		Color:       organizer.DefaultColor,
		IsProfessor: isProfessor,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	for _, name := range classes {
		e := organizer.Enrollment{StudentID: st.ID, ClassName: name, Color: organizer.DefaultColor}
		if err = repo.Enroll(context.Background(), e); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
		st.Classes = append(st.Classes, e)
	}
	return st
}

// CreateClass stores a class without provisioning a calendar.
func CreateClass(t *testing.T, repo organizer.Repository, name, professorID, calendarID string) organizer.Class {
	t.Helper()
	c, err := repo.CreateClass(context.Background(), organizer.Class{
		Name:        name,
		ProfessorID: professorID,
		CalendarID:  calendarID,
		Description: "a class named " + name,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return c
}
