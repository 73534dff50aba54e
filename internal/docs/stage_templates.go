package docs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docstage/docstage/internal/logfields"
	"github.com/docstage/docstage/internal/template"
)

// stageTemplates renders every *.in template from the template directory into
// the build tree, substituting the build path variables, and stages theme
// static assets. Files already matching on disk are left untouched.
func stageTemplates(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	cfg := g.Config()

	// Canonical path variable set available to every template.
	abs := func(p string) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}
	bs.Vars["SOURCE_DIR"] = abs(cfg.SourceDir)
	bs.Vars["OUTPUT_DIR"] = abs(g.buildRoot())
	bs.Vars["HTML_DIR"] = abs(g.htmlDir())
	bs.Vars["DOCTREE_DIR"] = abs(g.doctreeDir())
	bs.Vars["STATIC_DIR"] = abs(g.staticDir())
	bs.Vars["TEMPLATES_DIR"] = abs(g.templatesDir())
	bs.Vars["THEME"] = cfg.Docs.Theme
	if bs.ThemePath != "" {
		bs.Vars["THEME_DIR"] = abs(bs.ThemePath)
	}

	subst := template.New(bs.Vars, cfg.Docs.StrictVariables())

	entries, err := os.ReadDir(cfg.TemplateDir)
	if err != nil {
		return newFatalStageError(StageTemplates, fmt.Errorf("read template dir %s: %w", cfg.TemplateDir, err))
	}

	rendered := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".in") {
			continue
		}
		src := filepath.Join(cfg.TemplateDir, e.Name())
		dst := g.templateDestination(e.Name())

		missing, changed, err := subst.RenderFile(src, dst)
		bs.Report.UnresolvedVars = appendUnique(bs.Report.UnresolvedVars, missing...)
		if err != nil {
			return newFatalStageError(StageTemplates, err)
		}
		if changed {
			bs.Report.TemplatesRendered++
		} else {
			bs.Report.TemplatesSkipped++
		}
		rendered++
		slog.Debug("Rendered template", logfields.File(e.Name()), logfields.Path(dst))
	}
	if rendered == 0 {
		return newWarnStageError(StageTemplates,
			fmt.Errorf("no *.in templates found in %s", cfg.TemplateDir))
	}

	if bs.ThemePath != "" {
		if err := copyThemeStatics(bs.ThemePath, g.staticDir()); err != nil {
			return newFatalStageError(StageTemplates, err)
		}
	}
	return nil
}

// templateDestination maps a template filename into the build tree: stylesheets
// land in _static, html layout templates in _templates, everything else (the
// renderable configuration) next to the config root.
func (g *Generator) templateDestination(name string) string {
	out := template.OutputName(name)
	switch filepath.Ext(out) {
	case ".css":
		return filepath.Join(g.staticDir(), out)
	case ".html":
		return filepath.Join(g.templatesDir(), out)
	default:
		return filepath.Join(g.confDir(), out)
	}
}

// copyThemeStatics copies the theme's static/ subtree, when present, into the
// build's _static dir. Themes without a static dir are fine.
func copyThemeStatics(themeDir, staticDir string) error {
	src := filepath.Join(themeDir, "static")
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(staticDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o750)
		}
		return copyFile(path, dst)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, in)
	return err
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, existing := range dst {
			if existing == it {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, it)
		}
	}
	return dst
}
