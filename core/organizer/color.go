package organizer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

// GetColor resolves the color the actor picked for scope, falling back on the personal color.
func GetColor(actor Actor, scope core.Scope) string {
	if actor.IsAnonymous() {
		return DefaultColor
	}
	personal := actor.Student.Color
	if personal == "" {
		personal = DefaultColor
	}
	if scope.IsPersonal() {
		return personal
	}
	e, ok := actor.Student.Enrollment(scope.ClassName())
	if !ok || e.Color == "" {
		return personal
	}
	return e.Color
}

// SetColor stores the actor's color for scope. The actor is updated in place.
func (svc *Service) SetColor(ctx context.Context, actor Actor, scope core.Scope, color string) error {
	if actor.IsAnonymous() {
		return ErrAnonymous
	}
	if scope.IsPersonal() {
		st := *actor.Student
		st.Color = color
		if _, err := svc.repo.UpdateStudent(ctx, st); err != nil {
			return errors.Wrap(err, "updating personal color")
		}
		actor.Student.Color = color
		return nil
	}

	if !IsEnrolled(actor, scope.ClassName()) {
		return ErrNotEnrolled
	}
	if err := svc.repo.SetEnrollmentColor(ctx, actor.ID(), scope.ClassName(), color); err != nil {
		return errors.Wrap(err, "updating class color")
	}
	for i := range actor.Student.Classes {
		if actor.Student.Classes[i].ClassName == scope.ClassName() {
			actor.Student.Classes[i].Color = color
		}
	}
	return nil
}
