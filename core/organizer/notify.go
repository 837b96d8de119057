package organizer

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

const (
	classChangeTemplate = "class_change"
	dueTodayTemplate    = "due_today"
)

// QueueNotification stores body for later delivery to the user's email.
// Users that cannot be resolved are logged and skipped.
func (svc *Service) QueueNotification(ctx context.Context, userID, body string) error {
	email, err := svc.users.EmailOf(ctx, userID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("dropping notification for user %s: %v", userID, err), err)
		return nil
	}
	_, err = svc.repo.QueueNotification(ctx, Notification{
		Email:     email,
		Body:      body,
		CreatedAt: NowFunc().UTC(),
	})
	return errors.Wrap(err, "queueing notification")
}

// FlushNotifications sends every queued notification and deletes the ones that went out.
// Messages that failed stay queued for the next run.
func (svc *Service) FlushNotifications(ctx context.Context) (int, error) {
	notifs, err := svc.repo.QueryAllNotifications(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying notifications")
	}

	sent := make([]int64, 0, len(notifs))
	var failed []string
	for _, n := range notifs {
		msg := core.NewHTMLMessage(mail.Address{Address: n.Email}, svc.mailSubject, n.Body)
		if err := svc.mail.Send(ctx, msg); err != nil {
			svc.logger.Error(fmt.Sprintf("sending notification %d: %v", n.ID, err), err)
			failed = append(failed, n.Email)
			continue
		}
		sent = append(sent, n.ID)
	}

	if len(sent) > 0 {
		if err = svc.repo.DeleteNotifications(ctx, sent...); err != nil {
			return len(sent), errors.Wrap(err, "deleting sent notifications")
		}
	}
	if len(failed) > 0 {
		return len(sent), fmt.Errorf("%d notification(s) could not be sent: %s", len(failed), strings.Join(failed, ", "))
	}
	return len(sent), nil
}

// NotifyClassOfChange queues one message per member of className about an assignment change.
// action is a verb such as "create" or "delete".
func (svc *Service) NotifyClassOfChange(ctx context.Context, className, assignmentName, action string) error {
	members, err := svc.repo.QueryMembers(ctx, className)
	if err != nil {
		return errors.Wrap(err, "querying class members")
	}
	for _, st := range members {
		body, err := core.RenderTemplate(classChangeTemplate, struct {
			Name, Assignment, Action, Class string
		}{st.Name, assignmentName, action, className})
		if err != nil {
			return errors.Wrap(err, "rendering class change notification")
		}
		if err = svc.QueueNotification(ctx, st.ID, body); err != nil {
			return err
		}
	}
	return nil
}

// NotifyDueToday queues a digest of the assignments due today for every student.
// "Today" is one day before the current UTC date, matching how due dates are stored.
func (svc *Service) NotifyDueToday(ctx context.Context) (int, error) {
	now := NowFunc().UTC().Add(-24 * time.Hour)

	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying students")
	}

	var queued int
	for _, st := range students {
		actor := AsActor(st)
		events, err := svc.ListEvents(ctx, actor, EventFilter{Day: now.Day(), Month: int(now.Month()), Year: now.Year()})
		if err != nil {
			svc.logger.Error(fmt.Sprintf("listing events due today for %s: %v", st.ID, err), err, st)
			continue
		}
		if len(events) == 0 {
			continue
		}

		body, err := core.RenderTemplate(dueTodayTemplate, struct {
			Name, Events string
		}{st.Name, DueTodayDigest(events)})
		if err != nil {
			return queued, errors.Wrap(err, "rendering due today notification")
		}
		if err = svc.QueueNotification(ctx, st.ID, body); err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}

// DueTodayDigest lists events grouped by scope, one heading per run of the same scope.
func DueTodayDigest(events []core.CalendarEvent) string {
	sorted := make([]core.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Scope.Key() < sorted[j].Scope.Key() })

	var b strings.Builder
	for i, ev := range sorted {
		if i == 0 || ev.Scope != sorted[i-1].Scope {
			b.WriteString("For " + ev.Scope.Label() + ":<br>")
		}
		b.WriteString("&emsp;" + ev.Summary + "<br>")
	}
	return b.String()
}
