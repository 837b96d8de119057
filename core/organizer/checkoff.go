package organizer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

func checkKey(actor Actor, scope core.Scope, eventID string) CheckKey {
	return CheckKey{StudentID: actor.ID(), ClassName: scope.Key(), EventID: eventID}
}

// IsCheckedOff reports whether the actor marked ev as done.
func (svc *Service) IsCheckedOff(ctx context.Context, actor Actor, ev core.CalendarEvent) bool {
	if actor.IsAnonymous() {
		return false
	}
	checked, err := svc.repo.IsChecked(ctx, checkKey(actor, ev.Scope, ev.ID))
	if err != nil {
		svc.logger.Error("checking assignment state", err)
		return false
	}
	return checked
}

// CheckOff toggles the done marker of an event and returns the new state.
func (svc *Service) CheckOff(ctx context.Context, actor Actor, scope core.Scope, eventID string) (bool, error) {
	if actor.IsAnonymous() {
		return false, ErrAnonymous
	}
	key := checkKey(actor, scope, eventID)
	checked, err := svc.repo.IsChecked(ctx, key)
	if err != nil {
		return false, errors.Wrap(err, "getting assignment state")
	}
	if checked {
		return false, errors.Wrap(svc.repo.DeleteCheck(ctx, key), "unchecking assignment")
	}
	return true, errors.Wrap(svc.repo.AddCheck(ctx, key), "checking assignment")
}
