package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

const requiredText = "this field is required"

type handler struct {
	conf       *core.Config
	logger     core.Logger
	users      *user.Service
	svc        *organizer.Service
	flashes    *flashStore
	validate   *validator.Validate
	translator ut.Translator
}

// render executes the page template inside the layout.
// The actor, pending flash messages and a default title are added to data.
func (h *handler) render(ctx echo.Context, code int, page string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = h.conf.AppName
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string(nil)
	}
	data["AppName"] = h.conf.AppName
	data["Actor"] = contextActor(ctx)
	data["Flashes"] = h.flashes.pop(ctx)
	return ctx.Render(code, page, data)
}

// redirectBack sends the user to the page that issued the request, with optional flash messages.
func (h *handler) redirectBack(ctx echo.Context, msgs ...string) error {
	if len(msgs) > 0 {
		h.flashes.add(ctx, msgs...)
	}
	return ctx.Redirect(http.StatusSeeOther, referer(ctx))
}

// fieldMessages flattens validation errors for inline forms that cannot be re-rendered.
func (h *handler) fieldMessages(err error) []string {
	flds := core.FieldErrors(err, h.translator)
	msgs := make([]string, 0, len(flds))
	for fld, msg := range flds {
		if fld != "" {
			msg = fld + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func isValidationError(err error) bool {
	switch err.(type) {
	case validator.ValidationErrors, *core.ValidationError:
		return true
	}
	return false
}
