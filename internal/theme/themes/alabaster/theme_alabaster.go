// Package alabaster registers the default lightweight theme.
package alabaster

import "github.com/docstage/docstage/internal/theme"

type alabasterTheme struct{}

func (alabasterTheme) Name() string { return "alabaster" }

func (alabasterTheme) Features() theme.Features {
	return theme.Features{
		Name:         "alabaster",
		DisplayName:  "Alabaster",
		StaticAssets: []string{"custom.css"},
	}
}

func (alabasterTheme) ApplyVariables(vars map[string]string) {
	if _, ok := vars["HTML_THEME"]; !ok {
		vars["HTML_THEME"] = "alabaster"
	}
	if _, ok := vars["HTML_SIDEBAR_WIDTH"]; !ok {
		vars["HTML_SIDEBAR_WIDTH"] = "220px"
	}
}

func init() { theme.Register(alabasterTheme{}) }
