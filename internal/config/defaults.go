package config

import (
	"path/filepath"
	"time"
)

// Default values applied when the corresponding config fields are empty.
const (
	DefaultRenderer    = "sphinx-build"
	DefaultTheme       = "alabaster"
	DefaultSourceDir   = "./docs"
	DefaultTemplateDir = "./docs/templates"
	DefaultOutputDir   = "./build/docs"
	DefaultSubject     = "docstage.builds"
	DefaultDebounce    = Duration(2 * time.Second)
)

// ApplyDefaults fills unset fields in-place. Called by Load after unmarshalling;
// exported so tests and in-memory configs get the same treatment.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.TemplateDir == "" {
		c.TemplateDir = DefaultTemplateDir
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Docs.Renderer == "" {
		c.Docs.Renderer = DefaultRenderer
	}
	if c.Docs.Theme == "" {
		c.Docs.Theme = DefaultTheme
	}
	if c.Docs.ThemeDir == "" {
		c.Docs.ThemeDir = filepath.Join(c.TemplateDir, "themes", c.Docs.Theme)
	}
	if c.Daemon != nil {
		if c.Daemon.Debounce <= 0 {
			c.Daemon.Debounce = DefaultDebounce
		}
		if c.Daemon.Subject == "" {
			c.Daemon.Subject = DefaultSubject
		}
	}
}
