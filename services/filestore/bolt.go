package filestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/organizer/core"
)

var filesBucket = []byte("Files")

// BoltStorage keeps file contents in a single bbolt bucket keyed by handle.
type BoltStorage struct {
	db *bbolt.DB
}

var _ core.FileStorage = (*BoltStorage)(nil)

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening file storage")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(filesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating files bucket")
	}
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Close() error { return s.db.Close() }

func (s *BoltStorage) Put(_ context.Context, owner, filename string, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	handle := objectKey(owner, filename)
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(filesBucket).Put([]byte(handle), content)
	})
	if err != nil {
		return "", errors.Wrap(err, "storing file")
	}
	return handle, nil
}

func (s *BoltStorage) Open(_ context.Context, handle string) (io.ReadCloser, error) {
	var content []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(filesBucket).Get([]byte(handle))
		if v == nil {
			return core.ErrBlobNotFound
		}
		// v is only valid inside the transaction
		content = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *BoltStorage) Delete(_ context.Context, handle string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(filesBucket)
		if b.Get([]byte(handle)) == nil {
			return core.ErrBlobNotFound
		}
		return b.Delete([]byte(handle))
	})
}

// objectKey namespaces stored objects by owner and keeps the original name readable.
func objectKey(owner, filename string) string {
	return owner + "/" + uuid.NewString() + "-" + filepath.Base(filename)
}
