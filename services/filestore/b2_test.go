package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWriter remembers whether its context was done when it got closed.
type recordingWriter struct {
	ctx       context.Context
	buf       bytes.Buffer
	closed    bool
	committed bool
}

func (w *recordingWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *recordingWriter) Close() error {
	w.closed = true
	if err := w.ctx.Err(); err != nil {
		return err
	}
	w.committed = true
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func Test_upload(t *testing.T) {
	tests := []struct {
		name          string
		r             io.Reader
		wantErr       string
		wantCommitted bool
	}{
		{name: "complete", r: strings.NewReader("hello"), wantCommitted: true},
		{name: "failed copy", r: io.MultiReader(strings.NewReader("hel"), failingReader{}), wantErr: "writing object: connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *recordingWriter
			err := upload(context.Background(), func(ctx context.Context) io.WriteCloser {
				w = &recordingWriter{ctx: ctx}
				return w
			}, tt.r)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, w.closed)
			assert.Equal(t, tt.wantCommitted, w.committed)
		})
	}
}
