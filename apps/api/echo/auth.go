package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

const (
	contextActorKey = "actor"
	audience        = "Students"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errTokenSigning     = errors.New("signing token")
	errUnexpectedMethod = errors.New("unexpected signing method")
)

// Claims represents the authorization claims transmitted via the session cookie.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

func newUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		Email:    usr.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(secretKey string, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errTokenSigning
	}
	return ss, nil
}

func parseToken(secretKey, raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedMethod
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.VerifyAudience(audience, true) {
		return nil, errUnauthorized
	}
	return claims, nil
}

func (h *handler) setTokenCookie(ctx echo.Context, token string, expires time.Time) {
	ctx.SetCookie(&http.Cookie{
		Name:     h.conf.Server.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !(h.conf.Debug || h.conf.TestMode),
		SameSite: http.SameSiteLaxMode,
	})
}

// actorMiddleware resolves the session cookie into an organizer.Actor.
// Missing or invalid cookies make the request anonymous.
func (h *handler) actorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		actor := organizer.Anonymous()
		if cookie, err := ctx.Cookie(h.conf.Server.CookieName); err == nil && cookie.Value != "" {
			if actor, err = h.resolveActor(ctx, cookie.Value); err != nil {
				return errors.Wrap(err, "resolving actor")
			}
		}
		ctx.Set(contextActorKey, actor)
		return next(ctx)
	}
}

func (h *handler) resolveActor(ctx echo.Context, token string) (organizer.Actor, error) {
	claims, err := parseToken(h.conf.SecretKey, token)
	if err != nil {
		return organizer.Anonymous(), nil
	}
	rctx := ctx.Request().Context()

	usr, err := h.users.GetByID(rctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return organizer.Anonymous(), nil
		}
		return organizer.Anonymous(), errors.Wrap(err, "finding user by ID")
	}
	if !usr.IsActive {
		return organizer.Anonymous(), nil
	}

	st, err := h.svc.EnsureStudent(rctx, usr.ID, usr.Username, usr.Email)
	if err != nil {
		return organizer.Anonymous(), err
	}
	return organizer.AsActor(st), nil
}

func requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if contextActor(ctx).IsAnonymous() {
			return errUnauthorized
		}
		return next(ctx)
	}
}

func contextActor(ctx echo.Context) organizer.Actor {
	if actor, ok := ctx.Get(contextActorKey).(organizer.Actor); ok {
		return actor
	}
	return organizer.Anonymous()
}

// Handlers

func (h *handler) loginPage(ctx echo.Context) error {
	if !contextActor(ctx).IsAnonymous() {
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	return h.render(ctx, http.StatusOK, "login", echo.Map{
		"Title": "Log In",
		"Next":  safeNext(ctx.QueryParam("next")),
		"Form":  user.LoginRequest{},
	})
}

func (h *handler) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	data.Username = core.CleanString(data.Username, true /* lower */)
	next := safeNext(ctx.FormValue("next"))

	rerender := func(errs map[string]string) error {
		data.Password = ""
		return h.render(ctx, http.StatusBadRequest, "login", echo.Map{
			"Title":  "Log In",
			"Next":   next,
			"Form":   data,
			"Errors": errs,
		})
	}
	if err := data.Validate(h.validate); err != nil {
		return rerender(core.FieldErrors(err, h.translator))
	}

	usr, err := h.users.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Is(err, user.ErrAuthenticationFailed) || errors.Is(err, user.ErrAccountDeactivated) {
			return rerender(map[string]string{"": err.Error()})
		}
		return errors.Wrap(err, "authenticating")
	}

	claims := newUserClaims(h.conf, usr)
	token, err := GenerateToken(h.conf.SecretKey, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	h.setTokenCookie(ctx, token, time.Unix(claims.ExpiresAt, 0))
	h.logger.Info("user logged in", usr)
	return ctx.Redirect(http.StatusSeeOther, next)
}

func (h *handler) logout(ctx echo.Context) error {
	h.setTokenCookie(ctx, "", time.Unix(0, 0))
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

// safeNext only keeps local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
