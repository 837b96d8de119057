package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

const fileColumns = "id, title, description, author_id, author_name, class_name, handle, filename, content_type, size, uploaded_at"

// orderable file columns
var fileOrderings = map[string]bool{
	"title":       true,
	"author_name": true,
	"size":        true,
	"uploaded_at": true,
}

type fileRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	AuthorID    string    `db:"author_id"`
	AuthorName  string    `db:"author_name"`
	ClassName   string    `db:"class_name"`
	Handle      string    `db:"handle"`
	Filename    string    `db:"filename"`
	ContentType string    `db:"content_type"`
	Size        int64     `db:"size"`
	UploadedAt  time.Time `db:"uploaded_at"`
}

func toFileRow(f organizer.File) fileRow {
	return fileRow{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		AuthorID:    f.AuthorID,
		AuthorName:  f.AuthorName,
		ClassName:   f.ClassName,
		Handle:      f.Handle,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		UploadedAt:  f.UploadedAt.UTC(),
	}
}

func (row fileRow) file() organizer.File {
	return organizer.File{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		AuthorID:    row.AuthorID,
		AuthorName:  row.AuthorName,
		ClassName:   row.ClassName,
		Handle:      row.Handle,
		Filename:    row.Filename,
		ContentType: row.ContentType,
		Size:        row.Size,
		UploadedAt:  row.UploadedAt.UTC(),
	}
}

func (repo organizerRepository) CreateFile(ctx context.Context, f organizer.File) (organizer.File, error) {
	q := "INSERT INTO files (" + fileColumns + `) VALUES
		(:id, :title, :description, :author_id, :author_name, :class_name, :handle, :filename, :content_type, :size, :uploaded_at)`
	row := toFileRow(f)
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, q, row); err != nil {
		return organizer.File{}, errors.Wrap(err, "inserting file")
	}
	return row.file(), nil
}

func (repo organizerRepository) GetFile(ctx context.Context, id string) (organizer.File, error) {
	var row fileRow
	q := repo.exec.Rebind("SELECT " + fileColumns + " FROM files WHERE id = ?")
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, id); err != nil {
		return organizer.File{}, trapNoRowsErr(err, organizer.ErrFileNotFound, "finding file")
	}
	return row.file(), nil
}

func (repo organizerRepository) FilterFiles(ctx context.Context, filter organizer.FileFilter) ([]organizer.File, error) {
	q := "SELECT " + fileColumns + " FROM files WHERE class_name = ?"
	args := []interface{}{filter.ClassName}
	if filter.Title != "" {
		q += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Title)+"%")
	}

	orderList := make([]string, 0, len(filter.Ordering)+1)
	for _, ord := range filter.Ordering {
		if fileOrderings[ord.Field] {
			orderList = append(orderList, ord.String())
		}
	}
	if len(orderList) == 0 {
		orderList = append(orderList, core.DBOrdering{Field: "uploaded_at"}.String())
	}
	q += " ORDER BY " + strings.Join(orderList, ", ")

	var rows []fileRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "filtering files")
	}
	files := make([]organizer.File, 0, len(rows))
	for _, row := range rows {
		files = append(files, row.file())
	}
	return files, nil
}

func (repo organizerRepository) DeleteFile(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, repo.exec.Rebind("DELETE FROM files WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "deleting file")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return organizer.ErrFileNotFound
	}
	return nil
}
