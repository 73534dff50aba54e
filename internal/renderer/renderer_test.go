package renderer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derr "github.com/docstage/docstage/internal/errors"
)

func TestLocateMissingRenderer(t *testing.T) {
	_, err := Locate("definitely-not-a-renderer-binary", "")
	require.Error(t, err)
	assert.Equal(t, derr.CategoryRenderer, derr.CategoryOf(err))
}

func TestLocateExplicitPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "fake-renderer")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	r, err := Locate("fake-renderer", bin)
	require.NoError(t, err)
	assert.Equal(t, bin, r.Path)

	_, err = Locate("fake-renderer", filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestInvocationArgs(t *testing.T) {
	inv := Invocation{
		ConfDir:    "/b/conf",
		DoctreeDir: "/b/doctrees",
		SourceDir:  "/src",
		HTMLDir:    "/b/html",
		ExtraArgs:  []string{"-D", "html_theme=sphinx_rtd_theme"},
	}
	assert.Equal(t, []string{
		"-b", "html", "-c", "/b/conf", "-d", "/b/doctrees",
		"-D", "html_theme=sphinx_rtd_theme", "/src", "/b/html",
	}, inv.Args())
}

func TestRunReportsExitFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture not portable")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "failing-renderer")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 'theme error: missing' >&2\nexit 2\n"), 0o755))

	r := &Renderer{Name: "failing-renderer", Path: bin}
	err := r.Run(context.Background(), Invocation{ConfDir: dir, DoctreeDir: dir, SourceDir: dir, HTMLDir: dir})
	require.Error(t, err)
	assert.Equal(t, derr.CategoryRenderer, derr.CategoryOf(err))
	assert.Contains(t, err.Error(), "theme error: missing")
}

func TestRunSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture not portable")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "ok-renderer")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	r := &Renderer{Name: "ok-renderer", Path: bin}
	require.NoError(t, r.Run(context.Background(), Invocation{ConfDir: dir, DoctreeDir: dir, SourceDir: dir, HTMLDir: dir}))
}
