package dummydb

import (
	"sync"

	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

type (
	DB struct {
		user      *userTable
		organizer *organizerTables
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	organizerTables struct {
		sync.RWMutex
		students      map[string]*organizer.Student
		enrollments   []organizer.Enrollment
		classes       map[string]*organizer.Class
		files         map[string]*organizer.File
		checked       map[organizer.CheckKey]struct{}
		notifications []organizer.Notification
		notifPK       int64
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		organizer: &organizerTables{
			students: make(map[string]*organizer.Student),
			classes:  make(map[string]*organizer.Class),
			files:    make(map[string]*organizer.File),
			checked:  make(map[organizer.CheckKey]struct{}),
		},
	}
	return db, nil
}
