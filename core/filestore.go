package core

import (
	"context"
	"errors"
	"io"
)

var ErrBlobNotFound = errors.New("blob not found")

// FileStorage is any service able to store binary uploads.
type FileStorage interface {
	// Put stores the content of r under owner and returns a handle to retrieve it.
	Put(ctx context.Context, owner, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, handle string) (io.ReadCloser, error)
	Delete(ctx context.Context, handle string) error
}
