package echoapi

import (
	"bufio"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

const photoMaxSize = 2 << 20

func (h *handler) userPage(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	st, err := h.svc.GetStudent(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	classes := make([]classRow, 0, len(st.Classes))
	for _, e := range st.Classes {
		cls, err := h.svc.GetClass(rctx, e.ClassName)
		if err != nil {
			continue
		}
		classes = append(classes, classRow{Class: cls, Enrolled: true, Color: e.Color})
	}
	return h.render(ctx, http.StatusOK, "user", echo.Map{
		"Title":   st.Name,
		"Student": st,
		"Classes": classes,
		"IsSelf":  st.ID == contextActor(ctx).ID(),
	})
}

func (h *handler) userPhoto(ctx echo.Context) error {
	rc, err := h.svc.OpenProfilePhoto(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, organizer.ErrFileNotFound) || errors.Is(err, organizer.ErrStudentNotFound) {
			return echo.ErrNotFound
		}
		return errors.Wrap(err, "opening profile photo")
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	head, _ := br.Peek(512)
	ctx.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return ctx.Stream(http.StatusOK, http.DetectContentType(head), br)
}

func (h *handler) profilePage(ctx echo.Context) error {
	st := contextActor(ctx).Student
	form := organizer.EditProfile{
		Name:        st.Name,
		Mood:        st.Mood,
		Description: organizer.ProfileText(*st),
	}
	return h.renderProfile(ctx, http.StatusOK, form, nil)
}

func (h *handler) renderProfile(ctx echo.Context, code int, form organizer.EditProfile, errs map[string]string) error {
	return h.render(ctx, code, "profile", echo.Map{
		"Title":    "Edit Profile",
		"Form":     form,
		"Errors":   errs,
		"Personal": core.Personal(),
	})
}

func (h *handler) updateProfile(ctx echo.Context) error {
	var data organizer.EditProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditProfile")
	}
	if err := data.Validate(h.validate); err != nil {
		return h.renderProfile(ctx, http.StatusBadRequest, data, core.FieldErrors(err, h.translator))
	}

	actor := contextActor(ctx)
	if err := h.svc.UpdateProfile(ctx.Request().Context(), actor, data); err != nil {
		return errors.Wrap(err, "updating profile")
	}
	h.flashes.add(ctx, "Profile updated.")
	return ctx.Redirect(http.StatusSeeOther, "/users/"+actor.ID())
}

func (h *handler) updateProfilePhoto(ctx echo.Context) error {
	fh, err := ctx.FormFile("photo")
	if err != nil {
		return h.redirectBack(ctx, "photo: "+requiredText)
	}
	if fh.Size > photoMaxSize {
		return h.redirectBack(ctx, "photo: the file is too large")
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	br := bufio.NewReader(src)
	head, _ := br.Peek(512)
	if ct := http.DetectContentType(head); !(ct == "image/png" || ct == "image/jpeg" || ct == "image/gif" || ct == "image/webp") {
		return h.redirectBack(ctx, "photo: only PNG, JPEG, GIF and WebP images are allowed")
	}

	actor := contextActor(ctx)
	if err = h.svc.SetProfilePhoto(ctx.Request().Context(), actor, filepath.Base(fh.Filename), br); err != nil {
		return errors.Wrap(err, "setting profile photo")
	}
	h.flashes.add(ctx, "Photo updated.")
	return ctx.Redirect(http.StatusSeeOther, "/users/"+actor.ID())
}
