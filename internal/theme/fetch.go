package theme

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/docstage/docstage/internal/errors"
	"github.com/docstage/docstage/internal/logfields"
)

// IsRemote reports whether a theme_dir value refers to a git remote rather than
// a local directory.
func IsRemote(themeDir string) bool {
	return strings.HasPrefix(themeDir, "http://") ||
		strings.HasPrefix(themeDir, "https://") ||
		strings.HasPrefix(themeDir, "git@") ||
		strings.HasPrefix(themeDir, "ssh://")
}

// Fetch clones a remote theme repository into workspaceDir and returns the local
// path. An optional "#branch" fragment on the URL selects the branch. Existing
// checkouts are replaced so a fetch always reflects the remote.
func Fetch(ctx context.Context, themeURL, workspaceDir string) (string, error) {
	url := themeURL
	branch := ""
	if i := strings.LastIndex(url, "#"); i > 0 {
		branch = url[i+1:]
		url = url[:i]
	}

	name := strings.TrimSuffix(filepath.Base(url), ".git")
	if name == "" || name == "." {
		return "", errors.New(errors.CategoryTheme, errors.SeverityFatal,
			fmt.Sprintf("cannot derive theme name from url %q", themeURL))
	}
	themePath := filepath.Join(workspaceDir, "themes", name)

	if err := os.RemoveAll(themePath); err != nil {
		return "", errors.Wrap(errors.CategoryFileSystem, errors.SeverityFatal, "remove stale theme checkout", err)
	}

	cloneOptions := &git.CloneOptions{URL: url, Depth: 1}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		cloneOptions.SingleBranch = true
	}

	slog.Info("Fetching remote theme", slog.String("url", url), logfields.Path(themePath))
	if _, err := git.PlainCloneContext(ctx, themePath, false, cloneOptions); err != nil {
		return "", errors.Wrap(errors.CategoryTheme, errors.SeverityFatal,
			fmt.Sprintf("clone theme %s", url), err)
	}
	return themePath, nil
}
