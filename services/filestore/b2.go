package filestore

import (
	"context"
	"io"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

// B2Storage stores file contents in a Backblaze B2 bucket.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
}

var _ core.FileStorage = (*B2Storage)(nil)

func NewB2Storage(ctx context.Context, conf *core.Config) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, conf.Storage.B2AccountID, conf.Storage.B2AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, conf.Storage.B2Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "getting b2 bucket")
	}
	return &B2Storage{client: client, bucket: bucket}, nil
}

func (s *B2Storage) Put(ctx context.Context, owner, filename string, r io.Reader) (string, error) {
	key := objectKey(owner, filename)
	obj := s.bucket.Object(key)
	err := upload(ctx, func(ctx context.Context) io.WriteCloser { return obj.NewWriter(ctx) }, r)
	if err != nil {
		return "", err
	}
	return key, nil
}

// upload copies r to a writer bound to ctx. A failed copy cancels the writer's context before
// closing it, so the partial object is discarded instead of committed.
func upload(ctx context.Context, newWriter func(context.Context) io.WriteCloser, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := newWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return errors.Wrap(err, "writing object")
	}
	return errors.Wrap(w.Close(), "closing object writer")
}

func (s *B2Storage) Open(ctx context.Context, handle string) (io.ReadCloser, error) {
	obj := s.bucket.Object(handle)
	if _, err := obj.Attrs(ctx); err != nil {
		if b2.IsNotExist(err) {
			return nil, core.ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "getting object attrs")
	}
	return obj.NewReader(ctx), nil
}

func (s *B2Storage) Delete(ctx context.Context, handle string) error {
	if err := s.bucket.Object(handle).Delete(ctx); err != nil {
		if b2.IsNotExist(err) {
			return core.ErrBlobNotFound
		}
		return errors.Wrap(err, "deleting object")
	}
	return nil
}
