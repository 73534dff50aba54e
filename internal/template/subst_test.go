package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySubstitutesKnownVariables(t *testing.T) {
	s := New(map[string]string{"OUTPUT_DIR": "/build/docs", "THEME": "alabaster"}, true)
	out, missing, err := s.Apply([]byte("html_theme = '@THEME@'\nout = '@OUTPUT_DIR@'\n"))
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "html_theme = 'alabaster'\nout = '/build/docs'\n", string(out))
}

func TestApplyStrictFailsOnUnresolved(t *testing.T) {
	s := New(map[string]string{}, true)
	_, missing, err := s.Apply([]byte("path = @DOCTREE_DIR@"))
	require.Error(t, err)
	assert.Equal(t, []string{"DOCTREE_DIR"}, missing)
}

func TestApplyLenientKeepsToken(t *testing.T) {
	s := New(map[string]string{"A": "1"}, false)
	out, missing, err := s.Apply([]byte("@A@ @B@ @C@ @B@"))
	require.NoError(t, err)
	assert.Equal(t, "1 @B@ @C@ @B@", string(out))
	assert.Equal(t, []string{"B", "C"}, missing)
}

func TestApplyIgnoresNonPlaceholderAtSigns(t *testing.T) {
	s := New(map[string]string{"V": "x"}, true)
	out, _, err := s.Apply([]byte("user@host and @@ and @V@"))
	require.NoError(t, err)
	assert.Equal(t, "user@host and @@ and x", string(out))
}

func TestRenderFileWritesAndSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "conf.py.in")
	dst := filepath.Join(dir, "out", "conf.py")
	require.NoError(t, os.WriteFile(src, []byte("theme = '@THEME@'"), 0o644))

	s := New(map[string]string{"THEME": "rtd"}, true)
	_, changed, err := s.RenderFile(src, dst)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "theme = 'rtd'", string(data))

	// second render with identical content must not rewrite
	_, changed, err = s.RenderFile(src, dst)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "conf.py", OutputName("conf.py.in"))
	assert.Equal(t, "style.css", OutputName("style.css"))
}
