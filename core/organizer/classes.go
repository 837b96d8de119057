package organizer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

// CreateClass provisions the class calendar, stores the class and enrolls its professor.
// nc is expected to have been validated.
func (svc *Service) CreateClass(ctx context.Context, actor Actor, nc NewClass) (Class, error) {
	if !IsProfessor(actor) {
		return Class{}, ErrNotProfessor
	}

	// a duplicate name must not provision a calendar
	if _, err := svc.repo.GetClass(ctx, nc.Name); err == nil {
		return Class{}, classExistsErr()
	} else if !errors.Is(err, ErrClassNotFound) {
		return Class{}, errors.Wrap(err, "checking class name")
	}

	calID, err := svc.calendar.CreateCalendar(ctx, svc.calendarSummary, svc.calendarTimeZone)
	if err != nil {
		return Class{}, providerErr("creating class calendar", err)
	}

	cls, err := svc.repo.CreateClass(ctx, Class{
		Name:        nc.Name,
		ProfessorID: actor.ID(),
		CalendarID:  calID,
		Description: nc.Description,
		CreatedAt:   NowFunc().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrClassExists) {
			return Class{}, classExistsErr()
		}
		return Class{}, errors.Wrap(err, "creating class")
	}

	if err = svc.Enroll(ctx, actor, cls.Name); err != nil {
		return cls, errors.Wrap(err, "enrolling professor")
	}
	return cls, nil
}

func classExistsErr() error {
	return core.NewValidationError(ErrClassExists, core.FieldError{Field: "name", Error: ErrClassExists.Error()})
}

func (svc *Service) GetClass(ctx context.Context, name string) (Class, error) {
	return svc.repo.GetClass(ctx, name)
}

func (svc *Service) ListClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

// Members lists the students enrolled in className ordered by name.
func (svc *Service) Members(ctx context.Context, className string) ([]Student, error) {
	if _, err := svc.repo.GetClass(ctx, className); err != nil {
		return nil, err
	}
	return svc.repo.QueryMembers(ctx, className)
}

// Enroll adds className to the actor's classes with the default color. The actor is updated in place.
func (svc *Service) Enroll(ctx context.Context, actor Actor, className string) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	if _, err := svc.repo.GetClass(ctx, className); err != nil {
		return err
	}
	if IsEnrolled(actor, className) {
		return nil
	}

	e := Enrollment{StudentID: actor.ID(), ClassName: className, Color: DefaultColor}
	if err := svc.repo.Enroll(ctx, e); err != nil {
		return errors.Wrap(err, "enrolling")
	}
	actor.Student.Classes = append(actor.Student.Classes, e)
	return nil
}

// Unenroll removes className from the actor's classes. The actor is updated in place.
func (svc *Service) Unenroll(ctx context.Context, actor Actor, className string) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	if !IsEnrolled(actor, className) {
		return nil
	}
	if err := svc.repo.Unenroll(ctx, actor.ID(), className); err != nil {
		return errors.Wrap(err, "unenrolling")
	}
	classes := actor.Student.Classes[:0]
	for _, e := range actor.Student.Classes {
		if e.ClassName != className {
			classes = append(classes, e)
		}
	}
	actor.Student.Classes = classes
	return nil
}
