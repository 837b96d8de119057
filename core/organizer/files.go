package organizer

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

// countingReader records how many bytes went to the file storage.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// UploadFile stores a class file. Only class members may upload.
func (svc *Service) UploadFile(ctx context.Context, actor Actor, className string, nf NewFile, filename, contentType string, r io.Reader) (File, error) {
	if actor.IsAnonymous() {
		return File{}, ErrAnonymous
	}
	if _, err := svc.repo.GetClass(ctx, className); err != nil {
		return File{}, err
	}
	if !IsEnrolled(actor, className) {
		return File{}, ErrNotEnrolled
	}

	cr := &countingReader{r: r}
	handle, err := svc.files.Put(ctx, className, filename, cr)
	if err != nil {
		return File{}, providerErr("storing file", err)
	}

	f, err := svc.repo.CreateFile(ctx, File{
		ID:          uuid.NewString(),
		Title:       nf.Title,
		Description: nf.Description,
		AuthorID:    actor.ID(),
		AuthorName:  actor.Student.Name,
		ClassName:   className,
		Handle:      handle,
		Filename:    filename,
		ContentType: contentType,
		Size:        cr.n,
		UploadedAt:  NowFunc().UTC(),
	})
	if err != nil {
		_ = svc.files.Delete(ctx, handle)
		return File{}, errors.Wrap(err, "creating file")
	}
	return f, nil
}

func (svc *Service) ListFiles(ctx context.Context, filter FileFilter) ([]File, error) {
	if _, err := svc.repo.GetClass(ctx, filter.ClassName); err != nil {
		return nil, err
	}
	return svc.repo.FilterFiles(ctx, filter)
}

func (svc *Service) GetFile(ctx context.Context, id string) (File, error) {
	return svc.repo.GetFile(ctx, id)
}

// OpenFile returns the file record and its content. The caller closes the reader.
func (svc *Service) OpenFile(ctx context.Context, id string) (File, io.ReadCloser, error) {
	f, err := svc.repo.GetFile(ctx, id)
	if err != nil {
		return File{}, nil, err
	}
	rc, err := svc.files.Open(ctx, f.Handle)
	if err != nil {
		if errors.Is(err, core.ErrBlobNotFound) {
			return File{}, nil, ErrFileNotFound
		}
		return File{}, nil, providerErr("opening file", err)
	}
	return f, rc, nil
}

// CanDeleteFile reports whether the actor is the author of f or the professor of its class.
func (svc *Service) CanDeleteFile(ctx context.Context, actor Actor, f File) bool {
	if actor.IsAnonymous() {
		return false
	}
	return f.AuthorID == actor.ID() || svc.IsProfessorFor(ctx, actor, Class{Name: f.ClassName}.Scope())
}

func (svc *Service) DeleteFile(ctx context.Context, actor Actor, id string) (File, error) {
	f, err := svc.repo.GetFile(ctx, id)
	if err != nil {
		return File{}, err
	}
	if !svc.CanDeleteFile(ctx, actor, f) {
		return File{}, ErrForbidden
	}
	if err = svc.repo.DeleteFile(ctx, id); err != nil {
		return File{}, errors.Wrap(err, "deleting file")
	}
	if err = svc.files.Delete(ctx, f.Handle); err != nil {
		svc.logger.Warn("deleting file content", err)
	}
	return f, nil
}
