package organizer

import (
	"context"

	"github.com/trezcool/organizer/core"
)

// IsProfessor reports whether the actor has the professor flag.
func IsProfessor(actor Actor) bool {
	return !actor.IsAnonymous() && actor.Student.IsProfessor
}

// IsEnrolled reports whether the actor is enrolled in className.
func IsEnrolled(actor Actor, className string) bool {
	if actor.IsAnonymous() {
		return false
	}
	_, ok := actor.Student.Enrollment(className)
	return ok
}

// IsProfessorFor reports whether the actor may administer scope: always for the personal scope,
// otherwise only for the recorded professor of the class.
func (svc *Service) IsProfessorFor(ctx context.Context, actor Actor, scope core.Scope) bool {
	if actor.IsAnonymous() {
		return false
	}
	if scope.IsPersonal() {
		return true
	}
	cls, err := svc.repo.GetClass(ctx, scope.ClassName())
	if err != nil {
		return false
	}
	return cls.ProfessorID == actor.ID()
}

// CanAdministerEvent reports whether the actor may delete ev.
func (svc *Service) CanAdministerEvent(ctx context.Context, actor Actor, ev core.CalendarEvent) bool {
	if actor.IsAnonymous() {
		return false
	}
	if svc.IsProfessorFor(ctx, actor, ev.Scope) {
		return true
	}
	return actor.Student.CalendarID != "" && ev.OrganizerEmail == actor.Student.CalendarID
}
