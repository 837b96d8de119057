package echoapi

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/organizer/core"
)

// flashStore keeps one-shot messages in a signed session cookie.
type flashStore struct {
	store sessions.Store
	name  string
}

func newFlashStore(conf *core.Config) *flashStore {
	store := sessions.NewCookieStore([]byte(conf.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   !(conf.Debug || conf.TestMode),
		SameSite: http.SameSiteLaxMode,
	}
	name := conf.Server.SessionName
	if name == "" {
		name = "session"
	}
	return &flashStore{store: store, name: name}
}

func (fs *flashStore) add(ctx echo.Context, msgs ...string) {
	sess, err := fs.store.Get(ctx.Request(), fs.name)
	if err != nil && sess == nil {
		ctx.Logger().Error(err)
		return
	}
	for _, msg := range msgs {
		sess.AddFlash(msg)
	}
	if err = sess.Save(ctx.Request(), ctx.Response()); err != nil {
		ctx.Logger().Error(err)
	}
}

// pop returns and clears the pending messages.
func (fs *flashStore) pop(ctx echo.Context) []string {
	sess, err := fs.store.Get(ctx.Request(), fs.name)
	if err != nil && sess == nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	if err = sess.Save(ctx.Request(), ctx.Response()); err != nil {
		ctx.Logger().Error(err)
	}
	return msgs
}
