package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/logging"
)

func TestLogRotator_Rotates(t *testing.T) {
	dir := t.TempDir()
	r, err := logging.NewLogRotator(dir, "preview.log", 1, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	assert.Equal(t, filepath.Join(dir, "preview.log"), r.Path())

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for range 5 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "preview.log.") {
			backups++
		}
	}
	assert.LessOrEqual(t, backups, 2)
	assert.Positive(t, backups)

	info, err := os.Stat(r.Path())
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(1024*1024))
}

func TestLogRotator_CloseIsIdempotent(t *testing.T) {
	r, err := logging.NewLogRotator(t.TempDir(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "popframe.log", filepath.Base(r.Path()))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}
