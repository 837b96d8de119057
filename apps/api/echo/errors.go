package echoapi

import (
	"net/http"
	"net/url"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Recoverable errors are flashed and the user is sent back to where they came from.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	appName string,
	logger core.Logger,
	flashes *flashStore,
	translator ut.Translator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var messages []string
		cause := errors.Cause(err)

		switch {
		case cause == errUnauthorized:
			loginURL := "/login"
			if ctx.Request().Method == http.MethodGet {
				loginURL += "?next=" + url.QueryEscape(ctx.Request().URL.RequestURI())
			}
			err = ctx.Redirect(http.StatusSeeOther, loginURL)
			logIfFailed(ctx, err)
			return

		case organizer.IsNotFound(err) || errors.Is(err, user.ErrNotFound):
			flashes.add(ctx, "Not found: "+cause.Error())
			logIfFailed(ctx, ctx.Redirect(http.StatusSeeOther, "/"))
			return

		case errors.Is(err, organizer.ErrForbidden), errors.Is(err, organizer.ErrNotProfessor),
			errors.Is(err, organizer.ErrNotEnrolled), errors.Is(err, organizer.ErrAnonymous):
			flashes.add(ctx, cause.Error())
			logIfFailed(ctx, ctx.Redirect(http.StatusSeeOther, referer(ctx)))
			return

		case core.IsProviderError(err):
			logger.Warn("provider failure", err, contextActor(ctx))
			flashes.add(ctx, "The service is temporarily unavailable, please try again later.")
			logIfFailed(ctx, ctx.Redirect(http.StatusSeeOther, referer(ctx)))
			return
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				messages = append(messages, msg)
			} else {
				messages = append(messages, http.StatusText(code))
			}
		case validator.ValidationErrors, *core.ValidationError:
			code = http.StatusBadRequest
			for fld, msg := range core.FieldErrors(origErr, translator) {
				if fld != "" {
					msg = fld + ": " + msg
				}
				messages = append(messages, msg)
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			messages = append(messages, msg)
			logger.Error(msg, errors.Wrap(err, msg), contextActor(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			messages = []string{err.Error()}
		}

		// Send response
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.Render(code, "error", echo.Map{
				"Title":    http.StatusText(code),
				"AppName":  appName,
				"Actor":    contextActor(ctx),
				"Errors":   map[string]string(nil),
				"Code":     code,
				"Messages": messages,
			})
		}
		logIfFailed(ctx, err)
	}
}

func logIfFailed(ctx echo.Context, err error) {
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}

// referer returns the local path of the page that issued the request, "/" if unknown.
func referer(ctx echo.Context) string {
	ref := ctx.Request().Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != ctx.Request().Host) {
		return "/"
	}
	return safeNext(u.RequestURI())
}
