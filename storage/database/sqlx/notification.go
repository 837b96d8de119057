package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core/organizer"
)

type notificationRow struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo organizerRepository) IsChecked(ctx context.Context, key organizer.CheckKey) (bool, error) {
	var cnt int
	q := repo.exec.Rebind("SELECT COUNT(*) FROM checked_assignments WHERE student_id = ? AND class_name = ? AND event_id = ?")
	if err := sqlx.GetContext(ctx, repo.exec, &cnt, q, key.StudentID, key.ClassName, key.EventID); err != nil {
		return false, errors.Wrap(err, "checking assignment")
	}
	return cnt > 0, nil
}

func (repo organizerRepository) AddCheck(ctx context.Context, key organizer.CheckKey) error {
	checked, err := repo.IsChecked(ctx, key)
	if err != nil || checked {
		return err
	}
	q := repo.exec.Rebind("INSERT INTO checked_assignments (student_id, class_name, event_id) VALUES (?, ?, ?)")
	_, err = repo.exec.ExecContext(ctx, q, key.StudentID, key.ClassName, key.EventID)
	return errors.Wrap(err, "inserting checked assignment")
}

func (repo organizerRepository) DeleteCheck(ctx context.Context, key organizer.CheckKey) error {
	q := repo.exec.Rebind("DELETE FROM checked_assignments WHERE student_id = ? AND class_name = ? AND event_id = ?")
	_, err := repo.exec.ExecContext(ctx, q, key.StudentID, key.ClassName, key.EventID)
	return errors.Wrap(err, "deleting checked assignment")
}

func (repo organizerRepository) QueueNotification(ctx context.Context, n organizer.Notification) (organizer.Notification, error) {
	q := repo.exec.Rebind("INSERT INTO notifications (email, body, created_at) VALUES (?, ?, ?) RETURNING id")
	n.CreatedAt = n.CreatedAt.UTC()
	if err := repo.exec.QueryRowxContext(ctx, q, n.Email, n.Body, n.CreatedAt).Scan(&n.ID); err != nil {
		return organizer.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo organizerRepository) QueryAllNotifications(ctx context.Context) ([]organizer.Notification, error) {
	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, "SELECT id, email, body, created_at FROM notifications ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notifs := make([]organizer.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, organizer.Notification{ID: row.ID, Email: row.Email, Body: row.Body, CreatedAt: row.CreatedAt.UTC()})
	}
	return notifs, nil
}

func (repo organizerRepository) DeleteNotifications(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM notifications WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting notifications")
	}
	_, err = repo.exec.ExecContext(ctx, repo.exec.Rebind(q), args...)
	return errors.Wrap(err, "deleting notifications")
}
