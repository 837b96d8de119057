package filestore

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/organizer/core"
)

func TestBoltStorage(t *testing.T) {
	ctx := context.Background()
	s, err := OpenBolt(filepath.Join(t.TempDir(), "data", "files.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	handle, err := s.Put(ctx, "CS 2110", "../../notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(handle, "CS 2110/"))
	assert.True(t, strings.HasSuffix(handle, "-notes.txt"))

	other, err := s.Put(ctx, "CS 2110", "notes.txt", strings.NewReader("world"))
	require.NoError(t, err)
	assert.NotEqual(t, handle, other)

	rc, err := s.Open(ctx, handle)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(content))

	require.NoError(t, s.Delete(ctx, handle))
	_, err = s.Open(ctx, handle)
	assert.Equal(t, core.ErrBlobNotFound, err)
	assert.Equal(t, core.ErrBlobNotFound, s.Delete(ctx, handle))
}
