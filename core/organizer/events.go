package organizer

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

type calendarSource struct {
	scope core.Scope
	id    string
}

func providerErr(op string, err error) error {
	if core.IsProviderError(err) {
		return errors.Wrap(err, op)
	}
	return core.NewProviderError(op, err)
}

// EnsurePersonalCalendar creates the actor's personal calendar if it has none yet.
// The actor's student record is updated in place.
func (svc *Service) EnsurePersonalCalendar(ctx context.Context, actor Actor) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	if actor.Student.CalendarID != "" {
		return nil
	}

	id, err := svc.calendar.CreateCalendar(ctx, svc.calendarSummary, svc.calendarTimeZone)
	if err != nil {
		return providerErr("creating personal calendar", err)
	}
	st := *actor.Student
	st.CalendarID = id
	if _, err = svc.repo.UpdateStudent(ctx, st); err != nil {
		return errors.Wrap(err, "saving personal calendar")
	}
	actor.Student.CalendarID = id
	return nil
}

// calendarID resolves the calendar backing scope for the actor.
func (svc *Service) calendarID(ctx context.Context, actor Actor, scope core.Scope) (string, error) {
	if scope.IsPersonal() {
		if err := svc.EnsurePersonalCalendar(ctx, actor); err != nil {
			return "", err
		}
		return actor.Student.CalendarID, nil
	}
	cls, err := svc.repo.GetClass(ctx, scope.ClassName())
	if err != nil {
		return "", err
	}
	return cls.CalendarID, nil
}

func (svc *Service) sources(ctx context.Context, actor Actor, class *core.Scope) ([]calendarSource, error) {
	if err := svc.EnsurePersonalCalendar(ctx, actor); err != nil {
		return nil, err
	}
	srcs := []calendarSource{{scope: core.Personal(), id: actor.Student.CalendarID}}

	var names []string
	if class != nil && !class.IsPersonal() {
		names = []string{class.ClassName()}
	} else {
		names = actor.Student.ClassNames()
	}
	for _, name := range names {
		cls, err := svc.repo.GetClass(ctx, name)
		if err != nil {
			if errors.Is(err, ErrClassNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "getting class")
		}
		if cls.CalendarID == "" {
			continue
		}
		srcs = append(srcs, calendarSource{scope: cls.Scope(), id: cls.CalendarID})
	}
	return srcs, nil
}

// ListEvents aggregates the events of the actor's personal calendar and class calendars.
// Events are tagged with the scope of the calendar they come from and kept in calendar order.
func (svc *Service) ListEvents(ctx context.Context, actor Actor, filter EventFilter) ([]core.CalendarEvent, error) {
	if actor.IsAnonymous() {
		return nil, nil
	}
	srcs, err := svc.sources(ctx, actor, filter.Class)
	if err != nil {
		return nil, err
	}
	byClass := filter.Class != nil && !filter.Class.IsPersonal()

	var events []core.CalendarEvent
	for _, src := range srcs {
		evs, err := svc.calendar.ListEvents(ctx, src.id)
		if err != nil {
			return nil, providerErr(fmt.Sprintf("listing %s events", src.scope.Label()), err)
		}
		for _, ev := range evs {
			ev.Scope = src.scope
			if byClass && ev.Description != filter.Class.ClassName() {
				continue
			}
			if !filter.matches(ev.End) {
				continue
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

func (f EventFilter) matches(t time.Time) bool {
	if f.Day != 0 && t.Day() != f.Day {
		return false
	}
	if f.Month != 0 && int(t.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && t.Year() != f.Year {
		return false
	}
	return true
}

// AddAssignment creates the event described by na. Class assignments are reserved to the class
// professor and notify every member.
func (svc *Service) AddAssignment(ctx context.Context, actor Actor, na NewAssignment) (core.CalendarEvent, error) {
	if actor.IsAnonymous() {
		return core.CalendarEvent{}, ErrAnonymous
	}
	target := na.Target()
	if !target.IsPersonal() && !svc.IsProfessorFor(ctx, actor, target) {
		return core.CalendarEvent{}, ErrNotProfessor
	}
	due, err := na.Due()
	if err != nil {
		return core.CalendarEvent{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: datetimeText})
	}

	ev, err := svc.createEvent(ctx, actor, target, na.Summary, na.Label(), due)
	if err != nil {
		return core.CalendarEvent{}, err
	}
	if !target.IsPersonal() {
		if err = svc.NotifyClassOfChange(ctx, target.ClassName(), na.Summary, "create"); err != nil {
			svc.logger.Error(fmt.Sprintf("notifying class %s: %v", target.ClassName(), err), err)
		}
	}
	return ev, nil
}

// createEvent inserts a one day long event starting at due.
func (svc *Service) createEvent(ctx context.Context, actor Actor, target core.Scope, summary string, label core.Scope, due time.Time) (core.CalendarEvent, error) {
	calID, err := svc.calendarID(ctx, actor, target)
	if err != nil {
		return core.CalendarEvent{}, err
	}
	start := due.UTC()
	ev, err := svc.calendar.InsertEvent(ctx, calID, core.NewCalendarEvent{
		Summary:     summary,
		Description: label.Key(),
		Start:       start,
		End:         start.Add(24 * time.Hour),
	})
	if err != nil {
		return core.CalendarEvent{}, providerErr("creating event", err)
	}
	ev.Scope = target
	return ev, nil
}

// DeleteAssignment removes an event from the calendar of scope.
func (svc *Service) DeleteAssignment(ctx context.Context, actor Actor, scope core.Scope, eventID string) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	if !scope.IsPersonal() && !svc.IsProfessorFor(ctx, actor, scope) {
		return ErrNotProfessor
	}
	calID, err := svc.calendarID(ctx, actor, scope)
	if err != nil {
		return err
	}

	var summary string
	if !scope.IsPersonal() {
		evs, err := svc.calendar.ListEvents(ctx, calID)
		if err != nil {
			return providerErr("listing events", err)
		}
		for _, ev := range evs {
			if ev.ID == eventID {
				summary = ev.Summary
				break
			}
		}
	}

	if err = svc.calendar.DeleteEvent(ctx, calID, eventID); err != nil {
		return providerErr("deleting event", err)
	}
	if !scope.IsPersonal() && summary != "" {
		if err = svc.NotifyClassOfChange(ctx, scope.ClassName(), summary, "delete"); err != nil {
			svc.logger.Error(fmt.Sprintf("notifying class %s: %v", scope.ClassName(), err), err)
		}
	}
	return nil
}
