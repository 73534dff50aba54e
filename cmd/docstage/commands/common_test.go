package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstage/docstage/internal/config"
)

func TestResolveOutputDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.Output.Directory = "./build/docs"

	assert.Equal(t, "./explicit", ResolveOutputDir("./explicit", cfg))
	assert.Equal(t, "./build/docs", ResolveOutputDir("", cfg))

	cfg.Output.BaseDirectory = "/srv/www"
	assert.Equal(t, filepath.Join("/srv/www", "./build/docs"), ResolveOutputDir("", cfg))
	// CLI flag still wins over base_directory
	assert.Equal(t, "./explicit", ResolveOutputDir("./explicit", cfg))

	empty := &config.Config{}
	assert.Equal(t, config.DefaultOutputDir, ResolveOutputDir("", empty))
}

func TestBuildTargetsRegistersDocsAsOptional(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	reg, err := BuildTargets(cfg, "./out", nil)
	require.NoError(t, err)

	docsTarget, ok := reg.Get("docs")
	require.True(t, ok)
	assert.True(t, docsTarget.Optional)
	assert.Equal(t, []string{"sources"}, docsTarget.Requires)

	for _, dt := range reg.DefaultSet() {
		assert.NotEqual(t, "docs", dt.Name, "docs must not be in the default set")
	}
}

func TestValidateSources(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "docs")
	tmplDir := filepath.Join(srcDir, "templates")
	require.NoError(t, os.MkdirAll(tmplDir, 0o755))

	cfg := &config.Config{SourceDir: srcDir, TemplateDir: tmplDir}
	assert.NoError(t, validateSources(cfg))

	cfg.SourceDir = filepath.Join(dir, "missing")
	assert.Error(t, validateSources(cfg))

	cfg.SourceDir = srcDir
	cfg.TemplateDir = filepath.Join(dir, "missing-templates")
	assert.Error(t, validateSources(cfg))
}

func TestSourcesTargetRunsFromRegistry(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "docs")
	tmplDir := filepath.Join(srcDir, "templates")
	require.NoError(t, os.MkdirAll(tmplDir, 0o755))

	cfg := &config.Config{SourceDir: srcDir, TemplateDir: tmplDir}
	config.ApplyDefaults(cfg)
	cfg.SourceDir = srcDir
	cfg.TemplateDir = tmplDir

	reg, err := BuildTargets(cfg, filepath.Join(dir, "out"), nil)
	require.NoError(t, err)

	sources, ok := reg.Get("sources")
	require.True(t, ok)
	assert.NoError(t, sources.Run(context.Background()))
}
