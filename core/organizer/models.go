package organizer

import (
	"time"

	"github.com/trezcool/organizer/core"
)

const (
	DefaultColor = "#0052bd"
	DefaultMood  = "UVA Student"
)

type (
	Student struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		Mood         string       `json:"mood"`
		Description  string       `json:"description"` // HTML micro-format, see TextToHTML
		CalendarID   string       `json:"calendar_id"`
		Color        string       `json:"color"`
		IsProfessor  bool         `json:"is_professor"`
		ProfilePhoto string       `json:"profile_photo"` // FileStorage handle
		Classes      []Enrollment `json:"classes"`
		CreatedAt    time.Time    `json:"created_at"` // UTC
	}

	// Enrollment is a row of the student <-> class join table.
	Enrollment struct {
		StudentID string `json:"student_id"`
		ClassName string `json:"class_name"`
		Color     string `json:"color"`
	}

	Class struct {
		Name        string    `json:"name"`
		ProfessorID string    `json:"professor_id"`
		CalendarID  string    `json:"calendar_id"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"` // UTC
	}

	File struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		AuthorID    string    `json:"author_id"`
		AuthorName  string    `json:"author_name"`
		ClassName   string    `json:"class_name"`
		Handle      string    `json:"-"`
		Filename    string    `json:"filename"`
		ContentType string    `json:"content_type"`
		Size        int64     `json:"size"`
		UploadedAt  time.Time `json:"uploaded_at"` // UTC
	}

	// CheckKey identifies a checked-off assignment.
	CheckKey struct {
		StudentID string
		ClassName string // core.Scope.Key() of the event's calendar
		EventID   string
	}

	Notification struct {
		ID        int64     `json:"id"`
		Email     string    `json:"email"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"` // UTC
	}

	// Actor is the resolved requester of a domain operation. A nil Student is an anonymous visitor.
	Actor struct {
		Student *Student
	}
)

func Anonymous() Actor { return Actor{} }

func AsActor(st Student) Actor { return Actor{Student: &st} }

func (a Actor) IsAnonymous() bool { return a.Student == nil }

// ID is empty for anonymous actors.
func (a Actor) ID() string {
	if a.Student == nil {
		return ""
	}
	return a.Student.ID
}

// DisplayName is the name shown in the navigation bar.
func (a Actor) DisplayName() string {
	if a.Student == nil {
		return "Log In"
	}
	return a.Student.Name
}

// Enrollment returns the student's enrollment in className, if any.
func (st Student) Enrollment(className string) (Enrollment, bool) {
	for _, e := range st.Classes {
		if e.ClassName == className {
			return e, true
		}
	}
	return Enrollment{}, false
}

// ClassNames lists the names of the classes the student is enrolled in.
func (st Student) ClassNames() []string {
	names := make([]string, 0, len(st.Classes))
	for _, e := range st.Classes {
		names = append(names, e.ClassName)
	}
	return names
}

func (c Class) Scope() core.Scope { return core.Named(c.Name) }

// IsImage is used to show previews in file lists.
func (f File) IsImage() bool {
	switch f.ContentType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}

type (
	// EventFilter restricts ListEvents. Zero values are ignored.
	EventFilter struct {
		Day   int
		Month int
		Year  int
		Class *core.Scope
	}

	FileFilter struct {
		ClassName string            `query:"-"`
		Title     string            `query:"title"`
		Ordering  []core.DBOrdering `query:"-"`
	}
)

func (ff *FileFilter) Clean() {
	ff.Title = core.CleanString(ff.Title)
}
