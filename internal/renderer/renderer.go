// Package renderer locates and invokes the external documentation renderer.
// The renderer is an opaque tool; its exit status alone decides success.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/docstage/docstage/internal/errors"
	"github.com/docstage/docstage/internal/logfields"
)

// Renderer wraps a resolved external renderer binary.
type Renderer struct {
	Name string // configured name, e.g. "sphinx-build"
	Path string // resolved absolute path
}

// Locate resolves the renderer binary. An explicit path wins; otherwise the name
// is looked up on PATH. A missing renderer is a classified error so the docs
// target can fail without touching other targets.
func Locate(name, explicitPath string) (*Renderer, error) {
	if explicitPath != "" {
		info, err := os.Stat(explicitPath)
		if err != nil || info.IsDir() {
			return nil, errors.New(errors.CategoryRenderer, errors.SeverityFatal,
				fmt.Sprintf("configured renderer_path %q does not exist", explicitPath))
		}
		return &Renderer{Name: name, Path: explicitPath}, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.Wrap(errors.CategoryRenderer, errors.SeverityFatal,
			fmt.Sprintf("renderer %q not found in PATH", name), err)
	}
	return &Renderer{Name: name, Path: path}, nil
}

// Version probes the renderer's version string (best effort; empty on failure).
func (r *Renderer) Version(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, r.Path, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Invocation describes one renderer run.
type Invocation struct {
	ConfDir    string   // directory holding the rendered configuration
	DoctreeDir string   // intermediate doctree cache
	SourceDir  string   // documentation sources
	HTMLDir    string   // html output
	ExtraArgs  []string // theme/user supplied arguments
	Dir        string   // working directory (empty = inherit)
}

// Args builds the renderer argument list following sphinx-build conventions:
// <renderer> -b html -c <confdir> -d <doctrees> [extra...] <sourcedir> <htmldir>.
func (inv Invocation) Args() []string {
	args := []string{"-b", "html", "-c", inv.ConfDir, "-d", inv.DoctreeDir}
	args = append(args, inv.ExtraArgs...)
	return append(args, inv.SourceDir, inv.HTMLDir)
}

// Run executes the renderer, streaming its output. The process is killed when
// the context is canceled.
func (r *Renderer) Run(ctx context.Context, inv Invocation) error {
	args := inv.Args()
	slog.Info("Running documentation renderer",
		logfields.Renderer(r.Name),
		logfields.Path(r.Path),
		slog.String("args", strings.Join(args, " ")))

	var stderrTail bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = &teeWriter{buf: &stderrTail}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(errors.CategoryRenderer, errors.SeverityFatal, "renderer canceled", ctx.Err())
		}
		msg := fmt.Sprintf("renderer %s failed", r.Name)
		if tail := strings.TrimSpace(stderrTail.String()); tail != "" {
			msg = fmt.Sprintf("%s: %s", msg, lastLines(tail, 5))
		}
		return errors.Wrap(errors.CategoryRenderer, errors.SeverityFatal, msg, err)
	}
	return nil
}

// teeWriter copies renderer stderr to the process stderr while keeping a copy
// for error reporting.
type teeWriter struct{ buf *bytes.Buffer }

func (w *teeWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return os.Stderr.Write(p)
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
