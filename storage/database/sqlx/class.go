package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core/organizer"
)

const classColumns = "name, professor_id, calendar_id, description, created_at"

type classRow struct {
	Name        string    `db:"name"`
	ProfessorID string    `db:"professor_id"`
	CalendarID  string    `db:"calendar_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row classRow) class() organizer.Class {
	return organizer.Class{
		Name:        row.Name,
		ProfessorID: row.ProfessorID,
		CalendarID:  row.CalendarID,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.UTC(),
	}
}

func (repo organizerRepository) CreateClass(ctx context.Context, c organizer.Class) (organizer.Class, error) {
	row := classRow{
		Name:        c.Name,
		ProfessorID: c.ProfessorID,
		CalendarID:  c.CalendarID,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.UTC(),
	}
	q := "INSERT INTO classes (" + classColumns + ") VALUES (:name, :professor_id, :calendar_id, :description, :created_at)"
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, row); err != nil {
		if isUniqueViolation(err) {
			return organizer.Class{}, organizer.ErrClassExists
		}
		return organizer.Class{}, errors.Wrap(err, "inserting class")
	}
	return row.class(), nil
}

func (repo organizerRepository) GetClass(ctx context.Context, name string) (organizer.Class, error) {
	var row classRow
	q := repo.exec.Rebind("SELECT " + classColumns + " FROM classes WHERE name = ?")
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, name); err != nil {
		return organizer.Class{}, trapNoRowsErr(err, organizer.ErrClassNotFound, "finding class")
	}
	return row.class(), nil
}

func (repo organizerRepository) QueryAllClasses(ctx context.Context) ([]organizer.Class, error) {
	var rows []classRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, "SELECT "+classColumns+" FROM classes ORDER BY name"); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]organizer.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.class())
	}
	return classes, nil
}
