// Package rtd registers the Read the Docs theme. It requires a theme directory
// (local or fetched) because the renderer does not bundle it.
package rtd

import "github.com/docstage/docstage/internal/theme"

type rtdTheme struct{}

func (rtdTheme) Name() string { return "rtd" }

func (rtdTheme) Features() theme.Features {
	return theme.Features{
		Name:            "rtd",
		DisplayName:     "Read the Docs",
		RequiresInstall: true,
		StaticAssets:    []string{"custom.css", "logo.svg"},
		ExtraArgs:       []string{"-D", "html_theme=sphinx_rtd_theme"},
	}
}

func (rtdTheme) ApplyVariables(vars map[string]string) {
	if _, ok := vars["HTML_THEME"]; !ok {
		vars["HTML_THEME"] = "sphinx_rtd_theme"
	}
	if _, ok := vars["HTML_LOGO"]; !ok {
		vars["HTML_LOGO"] = "_static/logo.svg"
	}
}

func init() { theme.Register(rtdTheme{}) }
