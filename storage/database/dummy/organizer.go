package dummydb

import (
	"cmp"
	"context"
	"sort"
	"strings"

	"github.com/trezcool/organizer/core/organizer"
)

type organizerRepository struct {
	db *organizerTables
}

var _ organizer.Repository = (*organizerRepository)(nil) // interface compliance check

func NewOrganizerRepository(db *DB) organizer.Repository {
	return &organizerRepository{db: db.organizer}
}

func (repo *organizerRepository) enrollmentsOf(studentID string) []organizer.Enrollment {
	var classes []organizer.Enrollment
	for _, e := range repo.db.enrollments {
		if e.StudentID == studentID {
			classes = append(classes, e)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ClassName < classes[j].ClassName })
	return classes
}

func (repo *organizerRepository) student(st *organizer.Student) organizer.Student {
	s := *st
	s.Classes = repo.enrollmentsOf(st.ID)
	return s
}

func (repo *organizerRepository) CreateStudent(_ context.Context, st organizer.Student) (organizer.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.Classes = nil
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *organizerRepository) GetStudent(_ context.Context, id string) (organizer.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return repo.student(st), nil
	}
	return organizer.Student{}, organizer.ErrStudentNotFound
}

func (repo *organizerRepository) QueryAllStudents(context.Context) ([]organizer.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]organizer.Student, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		students = append(students, repo.student(st))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *organizerRepository) UpdateStudent(_ context.Context, st organizer.Student) (organizer.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[st.ID]; !ok {
		return organizer.Student{}, organizer.ErrStudentNotFound
	}
	saved := st
	saved.Classes = nil
	repo.db.students[st.ID] = &saved
	return st, nil
}

func (repo *organizerRepository) Enroll(_ context.Context, e organizer.Enrollment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.enrollments {
		if existing.StudentID == e.StudentID && existing.ClassName == e.ClassName {
			return nil
		}
	}
	repo.db.enrollments = append(repo.db.enrollments, e)
	return nil
}

func (repo *organizerRepository) Unenroll(_ context.Context, studentID, className string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.enrollments[:0]
	for _, e := range repo.db.enrollments {
		if e.StudentID != studentID || e.ClassName != className {
			kept = append(kept, e)
		}
	}
	repo.db.enrollments = kept
	return nil
}

func (repo *organizerRepository) QueryEnrollments(_ context.Context, studentID string) ([]organizer.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.enrollmentsOf(studentID), nil
}

func (repo *organizerRepository) QueryMembers(_ context.Context, className string) ([]organizer.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var members []organizer.Student
	for _, e := range repo.db.enrollments {
		if e.ClassName != className {
			continue
		}
		if st, ok := repo.db.students[e.StudentID]; ok {
			members = append(members, repo.student(st))
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func (repo *organizerRepository) SetEnrollmentColor(_ context.Context, studentID, className, color string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, e := range repo.db.enrollments {
		if e.StudentID == studentID && e.ClassName == className {
			repo.db.enrollments[i].Color = color
			return nil
		}
	}
	return organizer.ErrNotEnrolled
}

func (repo *organizerRepository) CreateClass(_ context.Context, c organizer.Class) (organizer.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[c.Name]; ok {
		return organizer.Class{}, organizer.ErrClassExists
	}
	repo.db.classes[c.Name] = &c
	return c, nil
}

func (repo *organizerRepository) GetClass(_ context.Context, name string) (organizer.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.classes[name]; ok {
		return *c, nil
	}
	return organizer.Class{}, organizer.ErrClassNotFound
}

func (repo *organizerRepository) QueryAllClasses(context.Context) ([]organizer.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]organizer.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *organizerRepository) CreateFile(_ context.Context, f organizer.File) (organizer.File, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.files[f.ID] = &f
	return f, nil
}

func (repo *organizerRepository) GetFile(_ context.Context, id string) (organizer.File, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.files[id]; ok {
		return *f, nil
	}
	return organizer.File{}, organizer.ErrFileNotFound
}

func (repo *organizerRepository) FilterFiles(_ context.Context, filter organizer.FileFilter) ([]organizer.File, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	title := strings.ToLower(filter.Title)
	var files []organizer.File
	for _, f := range repo.db.files {
		if f.ClassName != filter.ClassName {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(f.Title), title) {
			continue
		}
		files = append(files, *f)
	}

	sort.SliceStable(files, func(i, j int) bool {
		for _, ord := range filter.Ordering {
			if c := compareFiles(files[i], files[j], ord.Field); c != 0 {
				return (c < 0) == ord.Ascending
			}
		}
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

func compareFiles(a, b organizer.File, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "author_name":
		return strings.Compare(a.AuthorName, b.AuthorName)
	case "size":
		return cmp.Compare(a.Size, b.Size)
	case "uploaded_at":
		return a.UploadedAt.Compare(b.UploadedAt)
	}
	return 0
}

func (repo *organizerRepository) DeleteFile(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.files[id]; !ok {
		return organizer.ErrFileNotFound
	}
	delete(repo.db.files, id)
	return nil
}

func (repo *organizerRepository) IsChecked(_ context.Context, key organizer.CheckKey) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.checked[key]
	return ok, nil
}

func (repo *organizerRepository) AddCheck(_ context.Context, key organizer.CheckKey) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.checked[key] = struct{}{}
	return nil
}

func (repo *organizerRepository) DeleteCheck(_ context.Context, key organizer.CheckKey) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.checked, key)
	return nil
}

func (repo *organizerRepository) QueueNotification(_ context.Context, n organizer.Notification) (organizer.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.notifPK++
	n.ID = repo.db.notifPK
	repo.db.notifications = append(repo.db.notifications, n)
	return n, nil
}

func (repo *organizerRepository) QueryAllNotifications(context.Context) ([]organizer.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notifs := make([]organizer.Notification, len(repo.db.notifications))
	copy(notifs, repo.db.notifications)
	return notifs, nil
}

func (repo *organizerRepository) DeleteNotifications(_ context.Context, ids ...int64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	deleted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		deleted[id] = true
	}
	kept := repo.db.notifications[:0]
	for _, n := range repo.db.notifications {
		if !deleted[n.ID] {
			kept = append(kept, n)
		}
	}
	repo.db.notifications = kept
	return nil
}
