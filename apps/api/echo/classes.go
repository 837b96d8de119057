package echoapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

const (
	classFilesPreview = 5
	syllabusMaxSize   = 1 << 20
)

func classURL(name string) string {
	return "/classes/" + url.PathEscape(name)
}

// classRow is a class as listed on the class index pages.
type classRow struct {
	organizer.Class
	Enrolled bool
	Color    string
}

func (h *handler) myClasses(ctx echo.Context) error {
	actor := contextActor(ctx)
	rctx := ctx.Request().Context()

	rows := make([]classRow, 0, len(actor.Student.Classes))
	for _, e := range actor.Student.Classes {
		cls, err := h.svc.GetClass(rctx, e.ClassName)
		if err != nil {
			if organizer.IsNotFound(err) {
				continue
			}
			return errors.Wrap(err, "getting class")
		}
		rows = append(rows, classRow{Class: cls, Enrolled: true, Color: organizer.GetColor(actor, cls.Scope())})
	}
	return h.render(ctx, http.StatusOK, "classes", echo.Map{
		"Title":    "My Classes",
		"Classes":  rows,
		"ShowAll":  false,
		"Personal": core.Personal(),
	})
}

func (h *handler) allClasses(ctx echo.Context) error {
	actor := contextActor(ctx)
	classes, err := h.svc.ListClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}

	rows := make([]classRow, 0, len(classes))
	for _, cls := range classes {
		rows = append(rows, classRow{
			Class:    cls,
			Enrolled: organizer.IsEnrolled(actor, cls.Name),
			Color:    organizer.GetColor(actor, cls.Scope()),
		})
	}
	return h.render(ctx, http.StatusOK, "classes", echo.Map{
		"Title":   "All Classes",
		"Classes": rows,
		"ShowAll": true,
	})
}

func (h *handler) newClassPage(ctx echo.Context) error {
	if !organizer.IsProfessor(contextActor(ctx)) {
		return organizer.ErrNotProfessor
	}
	return h.renderNewClass(ctx, http.StatusOK, organizer.NewClass{}, nil)
}

func (h *handler) renderNewClass(ctx echo.Context, code int, form organizer.NewClass, errs map[string]string) error {
	return h.render(ctx, code, "class_new", echo.Map{
		"Title":  "New Class",
		"Form":   form,
		"Errors": errs,
	})
}

func (h *handler) createClass(ctx echo.Context) error {
	actor := contextActor(ctx)
	if !organizer.IsProfessor(actor) {
		return organizer.ErrNotProfessor
	}

	var data organizer.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(h.validate); err != nil {
		return h.renderNewClass(ctx, http.StatusBadRequest, data, core.FieldErrors(err, h.translator))
	}

	cls, err := h.svc.CreateClass(ctx.Request().Context(), actor, data)
	if err != nil {
		if isValidationError(errors.Cause(err)) {
			return h.renderNewClass(ctx, http.StatusBadRequest, data, core.FieldErrors(err, h.translator))
		}
		return errors.Wrap(err, "creating class")
	}
	h.logger.Info(fmt.Sprintf("class %q created", cls.Name), actor)
	h.flashes.add(ctx, "Class '"+cls.Name+"' created.")
	return ctx.Redirect(http.StatusSeeOther, classURL(cls.Name))
}

func (h *handler) classPage(ctx echo.Context) error {
	actor := contextActor(ctx)
	name := ctx.Param("name")
	return h.renderClass(ctx, http.StatusOK, actor, name, organizer.NewAssignment{Class: name}, nil)
}

func (h *handler) renderClass(
	ctx echo.Context,
	code int,
	actor organizer.Actor,
	name string,
	form organizer.NewAssignment,
	errs map[string]string,
) error {
	rctx := ctx.Request().Context()

	cls, err := h.svc.GetClass(rctx, name)
	if err != nil {
		return err
	}
	members, err := h.svc.Members(rctx, name)
	if err != nil {
		return errors.Wrap(err, "listing class members")
	}
	files, err := h.svc.ListFiles(rctx, organizer.FileFilter{ClassName: name})
	if err != nil {
		return errors.Wrap(err, "listing class files")
	}
	if len(files) > classFilesPreview {
		files = files[:classFilesPreview]
	}

	data := echo.Map{
		"Title":       cls.Name,
		"Class":       cls,
		"URL":         classURL(cls.Name),
		"Scope":       cls.Scope(),
		"Members":     members,
		"Files":       files,
		"IsEnrolled":  organizer.IsEnrolled(actor, name),
		"IsProfessor": h.svc.IsProfessorFor(rctx, actor, cls.Scope()),
		"Color":       organizer.GetColor(actor, cls.Scope()),
		"Form":        form,
		"Errors":      errs,
	}
	if organizer.IsEnrolled(actor, name) {
		todo, err := h.svc.TodoList(rctx, actor, cls.Scope())
		if err != nil {
			return errors.Wrap(err, "building class todo list")
		}
		data["Todo"] = todo
	}
	return h.render(ctx, code, "class", data)
}

func (h *handler) enroll(ctx echo.Context) error {
	name := ctx.Param("name")
	if err := h.svc.Enroll(ctx.Request().Context(), contextActor(ctx), name); err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return h.redirectBack(ctx, "Enrolled in '"+name+"'.")
}

func (h *handler) unenroll(ctx echo.Context) error {
	name := ctx.Param("name")
	if err := h.svc.Unenroll(ctx.Request().Context(), contextActor(ctx), name); err != nil {
		return errors.Wrap(err, "unenrolling")
	}
	return h.redirectBack(ctx, "Left '"+name+"'.")
}

func (h *handler) importSyllabus(ctx echo.Context) error {
	name := ctx.Param("name")

	fh, err := ctx.FormFile("syllabus")
	if err != nil {
		return h.redirectBack(ctx, "syllabus: "+requiredText)
	}
	if fh.Size > syllabusMaxSize {
		return h.redirectBack(ctx, "syllabus: the file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening syllabus")
	}
	defer f.Close()

	n, err := h.svc.ImportSyllabus(ctx.Request().Context(), contextActor(ctx), core.Named(name), f)
	if err != nil {
		if isValidationError(errors.Cause(err)) {
			return h.redirectBack(ctx, h.fieldMessages(err)...)
		}
		return errors.Wrap(err, "importing syllabus")
	}
	return h.redirectBack(ctx, fmt.Sprintf("%d assignment(s) imported.", n))
}
