package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

const studentColumns = "id, name, mood, description, calendar_id, color, is_professor, profile_photo, created_at"

type (
	organizerRepository struct {
		exec core.DBExecutor
	}

	studentRow struct {
		ID           string      `db:"id"`
		Name         string      `db:"name"`
		Mood         string      `db:"mood"`
		Description  string      `db:"description"`
		CalendarID   null.String `db:"calendar_id"`
		Color        string      `db:"color"`
		IsProfessor  bool        `db:"is_professor"`
		ProfilePhoto null.String `db:"profile_photo"`
		CreatedAt    time.Time   `db:"created_at"`
	}

	enrollmentRow struct {
		StudentID string `db:"student_id"`
		ClassName string `db:"class_name"`
		Color     string `db:"color"`
	}
)

var _ organizer.Repository = (*organizerRepository)(nil) // interface compliance check

func NewOrganizerRepository(exec core.DBExecutor) *organizerRepository {
	return &organizerRepository{exec: exec}
}

func toStudentRow(st organizer.Student) studentRow {
	return studentRow{
		ID:           st.ID,
		Name:         st.Name,
		Mood:         st.Mood,
		Description:  st.Description,
		CalendarID:   null.NewString(st.CalendarID, st.CalendarID != ""),
		Color:        st.Color,
		IsProfessor:  st.IsProfessor,
		ProfilePhoto: null.NewString(st.ProfilePhoto, st.ProfilePhoto != ""),
		CreatedAt:    st.CreatedAt.UTC(),
	}
}

func (row studentRow) student() organizer.Student {
	return organizer.Student{
		ID:           row.ID,
		Name:         row.Name,
		Mood:         row.Mood,
		Description:  row.Description,
		CalendarID:   row.CalendarID.String,
		Color:        row.Color,
		IsProfessor:  row.IsProfessor,
		ProfilePhoto: row.ProfilePhoto.String,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

func (row enrollmentRow) enrollment() organizer.Enrollment {
	return organizer.Enrollment{StudentID: row.StudentID, ClassName: row.ClassName, Color: row.Color}
}

func (repo organizerRepository) CreateStudent(ctx context.Context, st organizer.Student) (organizer.Student, error) {
	q := "INSERT INTO students (" + studentColumns + `) VALUES
		(:id, :name, :mood, :description, :calendar_id, :color, :is_professor, :profile_photo, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, toStudentRow(st)); err != nil {
		return organizer.Student{}, errors.Wrap(err, "inserting student")
	}
	st.Classes = nil
	return st, nil
}

func (repo organizerRepository) GetStudent(ctx context.Context, id string) (organizer.Student, error) {
	var row studentRow
	q := repo.exec.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, id); err != nil {
		return organizer.Student{}, trapNoRowsErr(err, organizer.ErrStudentNotFound, "finding student")
	}
	st := row.student()
	classes, err := repo.QueryEnrollments(ctx, id)
	if err != nil {
		return organizer.Student{}, err
	}
	st.Classes = classes
	return st, nil
}

func (repo organizerRepository) QueryAllStudents(ctx context.Context) ([]organizer.Student, error) {
	var rows []studentRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, "SELECT "+studentColumns+" FROM students ORDER BY name"); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	var enrollments []enrollmentRow
	if err := sqlx.SelectContext(ctx, repo.exec, &enrollments, "SELECT student_id, class_name, color FROM enrollments ORDER BY class_name"); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	byStudent := make(map[string][]organizer.Enrollment)
	for _, e := range enrollments {
		byStudent[e.StudentID] = append(byStudent[e.StudentID], e.enrollment())
	}

	students := make([]organizer.Student, 0, len(rows))
	for _, row := range rows {
		st := row.student()
		st.Classes = byStudent[st.ID]
		students = append(students, st)
	}
	return students, nil
}

// UpdateStudent saves the profile columns; enrollments are left untouched.
func (repo organizerRepository) UpdateStudent(ctx context.Context, st organizer.Student) (organizer.Student, error) {
	q := `UPDATE students SET name = :name, mood = :mood, description = :description, calendar_id = :calendar_id,
		color = :color, is_professor = :is_professor, profile_photo = :profile_photo
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.exec, q, toStudentRow(st))
	if err != nil {
		return organizer.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return organizer.Student{}, organizer.ErrStudentNotFound
	}
	return st, nil
}

func (repo organizerRepository) Enroll(ctx context.Context, e organizer.Enrollment) error {
	var cnt int
	q := repo.exec.Rebind("SELECT COUNT(*) FROM enrollments WHERE student_id = ? AND class_name = ?")
	if err := sqlx.GetContext(ctx, repo.exec, &cnt, q, e.StudentID, e.ClassName); err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	if cnt > 0 {
		return nil
	}
	q = "INSERT INTO enrollments (student_id, class_name, color) VALUES (:student_id, :class_name, :color)"
	_, err := sqlx.NamedExecContext(ctx, repo.exec, q, enrollmentRow{StudentID: e.StudentID, ClassName: e.ClassName, Color: e.Color})
	return errors.Wrap(err, "inserting enrollment")
}

func (repo organizerRepository) Unenroll(ctx context.Context, studentID, className string) error {
	q := repo.exec.Rebind("DELETE FROM enrollments WHERE student_id = ? AND class_name = ?")
	_, err := repo.exec.ExecContext(ctx, q, studentID, className)
	return errors.Wrap(err, "deleting enrollment")
}

func (repo organizerRepository) QueryEnrollments(ctx context.Context, studentID string) ([]organizer.Enrollment, error) {
	var rows []enrollmentRow
	q := repo.exec.Rebind("SELECT student_id, class_name, color FROM enrollments WHERE student_id = ? ORDER BY class_name")
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	var enrollments []organizer.Enrollment
	for _, row := range rows {
		enrollments = append(enrollments, row.enrollment())
	}
	return enrollments, nil
}

func (repo organizerRepository) QueryMembers(ctx context.Context, className string) ([]organizer.Student, error) {
	var rows []studentRow
	cols := "s." + strings.ReplaceAll(studentColumns, ", ", ", s.")
	q := repo.exec.Rebind("SELECT " + cols + ` FROM students s
		JOIN enrollments e ON e.student_id = s.id
		WHERE e.class_name = ?
		ORDER BY s.name`)
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, q, className); err != nil {
		return nil, errors.Wrap(err, "querying class members")
	}
	students := make([]organizer.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo organizerRepository) SetEnrollmentColor(ctx context.Context, studentID, className, color string) error {
	q := repo.exec.Rebind("UPDATE enrollments SET color = ? WHERE student_id = ? AND class_name = ?")
	res, err := repo.exec.ExecContext(ctx, q, color, studentID, className)
	if err != nil {
		return errors.Wrap(err, "updating enrollment color")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return organizer.ErrNotEnrolled
	}
	return nil
}
