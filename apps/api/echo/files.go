package echoapi

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

const fileMaxSize = 10 << 20

func (h *handler) classFiles(ctx echo.Context) error {
	return h.renderFiles(ctx, http.StatusOK, ctx.Param("name"), organizer.NewFile{}, nil)
}

func (h *handler) renderFiles(ctx echo.Context, code int, className string, form organizer.NewFile, errs map[string]string) error {
	rctx := ctx.Request().Context()
	actor := contextActor(ctx)

	filter := organizer.FileFilter{ClassName: className, Title: ctx.QueryParam("title")}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	filter.Ordering = ordering.Orderings

	files, err := h.svc.ListFiles(rctx, filter)
	if err != nil {
		return err
	}
	rows := make([]fileRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, fileRow{File: f, CanDelete: h.svc.CanDeleteFile(rctx, actor, f)})
	}

	return h.render(ctx, code, "files", echo.Map{
		"Title":      className + " Files",
		"ClassName":  className,
		"URL":        classURL(className),
		"Files":      rows,
		"Filter":     filter,
		"Ordering":   ordering.String(),
		"IsEnrolled": organizer.IsEnrolled(actor, className),
		"Form":       form,
		"Errors":     errs,
	})
}

type fileRow struct {
	organizer.File
	CanDelete bool
}

func (h *handler) uploadFile(ctx echo.Context) error {
	className := ctx.Param("name")

	var data organizer.NewFile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFile")
	}
	if err := data.Validate(h.validate); err != nil {
		return h.renderFiles(ctx, http.StatusBadRequest, className, data, core.FieldErrors(err, h.translator))
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return h.renderFiles(ctx, http.StatusBadRequest, className, data, map[string]string{"file": requiredText})
	}
	if fh.Size > fileMaxSize {
		return h.renderFiles(ctx, http.StatusBadRequest, className, data, map[string]string{"file": "the file is too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	filename := filepath.Base(fh.Filename)
	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}

	f, err := h.svc.UploadFile(ctx.Request().Context(), contextActor(ctx), className, data, filename, contentType, src)
	if err != nil {
		return errors.Wrap(err, "uploading file")
	}
	h.flashes.add(ctx, "File '"+f.Title+"' uploaded.")
	return ctx.Redirect(http.StatusSeeOther, classURL(className)+"/files")
}

func (h *handler) downloadFile(ctx echo.Context) error {
	f, rc, err := h.svc.OpenFile(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "opening file")
	}
	defer rc.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	disposition := "attachment"
	if f.IsImage() {
		disposition = "inline"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": f.Filename}))
	return ctx.Stream(http.StatusOK, contentType, rc)
}

func (h *handler) deleteFile(ctx echo.Context) error {
	f, err := h.svc.DeleteFile(ctx.Request().Context(), contextActor(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting file")
	}
	h.flashes.add(ctx, "File '"+f.Title+"' deleted.")
	return ctx.Redirect(http.StatusSeeOther, classURL(f.ClassName)+"/files")
}
