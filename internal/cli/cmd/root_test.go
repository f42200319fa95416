package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/domain/build"
	"github.com/bnema/popframe/internal/domain/entity"
)

// isolate points every XDG directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("ENV", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		simulateOutput = ""
		aboutShort = false
	})
	err := Execute(context.Background())
	return out.String(), err
}

func TestSimulate(t *testing.T) {
	isolate(t)

	out, err := execute(t, "simulate", filepath.Join("..", "..", "simulate", "testdata", "hover.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "spawn    fn1")
	assert.Contains(t, out, "despawn  fn1")
	assert.NotContains(t, out, "FAIL")
}

func TestSimulate_OutputFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "replay.log")

	out, err := execute(t, "simulate", "-o", path, filepath.Join("..", "..", "simulate", "testdata", "hover.yaml"))
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rect     fn1  72,92 300x200")
}

func TestSimulate_MissingFile(t *testing.T) {
	isolate(t)

	_, err := execute(t, "simulate", "does-not-exist.yaml")
	require.Error(t, err)
}

func TestKeysSet_Invalid(t *testing.T) {
	isolate(t)

	_, err := execute(t, "keys", "set", "aa")
	require.ErrorIs(t, err, entity.ErrInvalidTilingKeys)
}

func TestKeysSet_StoresPreference(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "keys", "set", "hjkl")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "data", "popframe", "popframe.sqlite"))

	_, err = execute(t, "keys", "disable")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[popups]")
	assert.Contains(t, out, "trigger_delay_ms = 750")
}

func TestConfigSchema(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"trigger_delay_ms"`)
}

func TestTilingActionNames(t *testing.T) {
	names := tilingActionNames()
	require.Len(t, names, len(entity.DefaultTilingKeys))
	assert.Equal(t, "zoom-left", names[0])
	assert.Equal(t, "zoom-full", names[8])
}

func TestAbout_Short(t *testing.T) {
	isolate(t)
	SetBuildInfo(build.Info{Version: "v1.2.3", Commit: "abcdef0123", BuildDate: "2026-10-01"})
	t.Cleanup(func() { SetBuildInfo(build.Info{}) })

	out, err := execute(t, "about", "--short")
	require.NoError(t, err)
	assert.Equal(t, "popframe v1.2.3 (abcdef0, 2026-10-01)\n", out)
}
