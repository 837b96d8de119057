package organizer

import (
	"context"
	"errors"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrClassExists     = errors.New("a class with this name already exists")
	ErrNotEnrolled     = errors.New("student is not enrolled in this class")
	ErrNotProfessor    = errors.New("only professors can do this")
	ErrForbidden       = errors.New("permission denied")
	ErrAnonymous       = errors.New("user not authenticated")
)

// IsNotFound reports whether err is caused by a missing student, class or file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStudentNotFound) || errors.Is(err, ErrClassNotFound) || errors.Is(err, ErrFileNotFound)
}

type (
	StudentRepository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		// GetStudent loads the student along with its enrollments.
		GetStudent(ctx context.Context, id string) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
	}

	// EnrollmentRepository is the student <-> class join table.
	EnrollmentRepository interface {
		// Enroll is a no-op when the student is already enrolled.
		Enroll(ctx context.Context, e Enrollment) error
		Unenroll(ctx context.Context, studentID, className string) error
		QueryEnrollments(ctx context.Context, studentID string) ([]Enrollment, error)
		// QueryMembers returns the students enrolled in className ordered by name.
		QueryMembers(ctx context.Context, className string) ([]Student, error)
		SetEnrollmentColor(ctx context.Context, studentID, className, color string) error
	}

	ClassRepository interface {
		// CreateClass returns ErrClassExists when the name is taken.
		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClass(ctx context.Context, name string) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
	}

	FileRepository interface {
		CreateFile(ctx context.Context, f File) (File, error)
		GetFile(ctx context.Context, id string) (File, error)
		// FilterFiles does a case-insensitive match on File.Title, newest first unless ordered.
		FilterFiles(ctx context.Context, filter FileFilter) ([]File, error)
		DeleteFile(ctx context.Context, id string) error
	}

	CheckedAssignmentRepository interface {
		IsChecked(ctx context.Context, key CheckKey) (bool, error)
		AddCheck(ctx context.Context, key CheckKey) error
		DeleteCheck(ctx context.Context, key CheckKey) error
	}

	NotificationRepository interface {
		QueueNotification(ctx context.Context, n Notification) (Notification, error)
		QueryAllNotifications(ctx context.Context) ([]Notification, error)
		DeleteNotifications(ctx context.Context, ids ...int64) error
	}

	Repository interface {
		StudentRepository
		EnrollmentRepository
		ClassRepository
		FileRepository
		CheckedAssignmentRepository
		NotificationRepository
	}

	// UserDirectory resolves opaque user ids to email addresses.
	UserDirectory interface {
		EmailOf(ctx context.Context, userID string) (string, error)
	}
)
