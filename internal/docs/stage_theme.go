package docs

import (
	"context"
	"fmt"
	"os"

	"github.com/docstage/docstage/internal/theme"
)

// stageResolveTheme validates the configured theme and assembles the variable
// set. An unknown theme with no usable theme directory fails this stage only;
// other build targets are untouched by construction.
func stageResolveTheme(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.Config()
	name := cfg.Docs.Theme

	registered := theme.Get(name)

	themeDir := cfg.Docs.ThemeDir
	if theme.IsRemote(themeDir) {
		local, err := theme.Fetch(ctx, themeDir, bs.WorkspaceDir)
		if err != nil {
			return newFatalStageError(StageResolveTheme, err)
		}
		themeDir = local
	}

	dirExists := false
	if info, err := os.Stat(themeDir); err == nil && info.IsDir() {
		dirExists = true
	}

	switch {
	case registered != nil && registered.Features().RequiresInstall && !dirExists:
		return newFatalStageError(StageResolveTheme,
			fmt.Errorf("theme %q requires a theme directory but %q does not exist", name, themeDir))
	case registered == nil && !dirExists:
		return newFatalStageError(StageResolveTheme,
			fmt.Errorf("unknown theme %q and theme_dir %q does not exist", name, themeDir))
	}

	if dirExists {
		bs.ThemePath = themeDir
	}

	// Variable precedence: user variables win over theme defaults.
	for k, v := range cfg.Variables {
		bs.Vars[k] = v
	}
	if registered != nil {
		registered.ApplyVariables(bs.Vars)
		bs.ExtraArgs = append(bs.ExtraArgs, registered.Features().ExtraArgs...)
	}
	bs.ExtraArgs = append(bs.ExtraArgs, cfg.Docs.ExtraArgs...)
	return nil
}
