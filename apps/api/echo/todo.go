package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

// calendarChoice is an option of the add-assignment form.
type calendarChoice struct {
	Key, Label string
}

func calendarChoices(actor organizer.Actor) []calendarChoice {
	choices := []calendarChoice{{Key: core.Personal().Key(), Label: core.Personal().Label()}}
	for _, name := range actor.Student.ClassNames() {
		choices = append(choices, calendarChoice{Key: name, Label: name})
	}
	return choices
}

func (h *handler) home(ctx echo.Context) error {
	actor := contextActor(ctx)
	if actor.IsAnonymous() {
		return h.render(ctx, http.StatusOK, "welcome", nil)
	}
	return h.renderTodo(ctx, http.StatusOK, actor, organizer.NewAssignment{Calendar: core.Personal().Key()}, nil)
}

func (h *handler) renderTodo(ctx echo.Context, code int, actor organizer.Actor, form organizer.NewAssignment, errs map[string]string) error {
	todo, err := h.svc.TodoList(ctx.Request().Context(), actor, core.Personal())
	if err != nil {
		return errors.Wrap(err, "building todo list")
	}
	return h.render(ctx, code, "todo", echo.Map{
		"Title":     "Todo",
		"Todo":      todo,
		"Calendars": calendarChoices(actor),
		"Personal":  core.Personal(),
		"Form":      form,
		"Errors":    errs,
	})
}

func (h *handler) addAssignment(ctx echo.Context) error {
	actor := contextActor(ctx)

	var data organizer.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(h.validate, actor.Student.ClassNames()); err != nil {
		if !isValidationError(err) {
			return err
		}
		errs := core.FieldErrors(err, h.translator)
		if data.Class != "" {
			return h.renderClass(ctx, http.StatusBadRequest, actor, data.Class, data, errs)
		}
		return h.renderTodo(ctx, http.StatusBadRequest, actor, data, errs)
	}

	if _, err := h.svc.AddAssignment(ctx.Request().Context(), actor, data); err != nil {
		return errors.Wrap(err, "adding assignment")
	}
	return h.redirectBack(ctx, "Assignment '"+data.Summary+"' added.")
}

type eventRef struct {
	Scope   string `form:"scope"`
	EventID string `form:"event_id"`
}

func (h *handler) bindEventRef(ctx echo.Context) (core.Scope, string, error) {
	var ref eventRef
	if err := ctx.Bind(&ref); err != nil {
		return core.Scope{}, "", errors.Wrap(err, "binding to eventRef")
	}
	ref.EventID = core.CleanString(ref.EventID)
	if ref.EventID == "" {
		return core.Scope{}, "", core.NewValidationError(nil, core.FieldError{Field: "event_id", Error: requiredText})
	}
	return core.ParseScope(ref.Scope), ref.EventID, nil
}

func (h *handler) deleteAssignment(ctx echo.Context) error {
	scope, eventID, err := h.bindEventRef(ctx)
	if err != nil {
		return err
	}
	if err = h.svc.DeleteAssignment(ctx.Request().Context(), contextActor(ctx), scope, eventID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return h.redirectBack(ctx, "Assignment deleted.")
}

func (h *handler) checkAssignment(ctx echo.Context) error {
	scope, eventID, err := h.bindEventRef(ctx)
	if err != nil {
		return err
	}
	if _, err = h.svc.CheckOff(ctx.Request().Context(), contextActor(ctx), scope, eventID); err != nil {
		return errors.Wrap(err, "checking off assignment")
	}
	return h.redirectBack(ctx)
}

func (h *handler) setColor(ctx echo.Context) error {
	var data organizer.ColorChoice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ColorChoice")
	}
	if err := data.Validate(h.validate); err != nil {
		if isValidationError(err) {
			return h.redirectBack(ctx, h.fieldMessages(err)...)
		}
		return err
	}
	if err := h.svc.SetColor(ctx.Request().Context(), contextActor(ctx), core.ParseScope(data.Class), data.Color); err != nil {
		return errors.Wrap(err, "setting color")
	}
	return h.redirectBack(ctx)
}
