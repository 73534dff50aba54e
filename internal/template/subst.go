// Package template renders fixed configuration templates by substituting named
// path variables. Placeholders use the @NAME@ form; this is deliberate glue, not
// a general templating engine.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/docstage/docstage/internal/errors"
)

var placeholderRe = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)@`)

// Substituter replaces @NAME@ placeholders with configured values.
type Substituter struct {
	vars   map[string]string
	strict bool
}

// New creates a Substituter. In strict mode unresolved placeholders are errors;
// otherwise they are left verbatim and reported back to the caller.
func New(vars map[string]string, strict bool) *Substituter {
	cp := make(map[string]string, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return &Substituter{vars: cp, strict: strict}
}

// Set adds or overrides a variable.
func (s *Substituter) Set(name, value string) { s.vars[name] = value }

// Apply substitutes placeholders in the input and returns the result together
// with the sorted list of unresolved names. In strict mode unresolved names
// produce an error instead.
func (s *Substituter) Apply(input []byte) ([]byte, []string, error) {
	missing := map[string]struct{}{}
	out := placeholderRe.ReplaceAllFunc(input, func(m []byte) []byte {
		name := string(m[1 : len(m)-1])
		if v, ok := s.vars[name]; ok {
			return []byte(v)
		}
		missing[name] = struct{}{}
		return m
	})
	if len(missing) == 0 {
		return out, nil, nil
	}
	names := make([]string, 0, len(missing))
	for n := range missing {
		names = append(names, n)
	}
	sort.Strings(names)
	if s.strict {
		return nil, names, errors.New(errors.CategoryTemplate, errors.SeverityFatal,
			fmt.Sprintf("unresolved template variables: %s", strings.Join(names, ", ")))
	}
	return out, names, nil
}

// RenderFile reads src, substitutes placeholders, and writes dst (creating parent
// directories). Returns the unresolved names (lenient mode) and whether the file
// content actually changed on disk.
func (s *Substituter) RenderFile(src, dst string) (missing []string, changed bool, err error) {
	input, err := os.ReadFile(src)
	if err != nil {
		return nil, false, errors.Wrap(errors.CategoryTemplate, errors.SeverityFatal,
			fmt.Sprintf("read template %s", src), err)
	}
	out, missing, err := s.Apply(input)
	if err != nil {
		return missing, false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return missing, false, errors.Wrap(errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("create directory for %s", dst), err)
	}
	changed, err = WriteFileIfChanged(dst, out)
	if err != nil {
		return missing, false, errors.Wrap(errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("write %s", dst), err)
	}
	return missing, changed, nil
}

// WriteFileIfChanged writes data to path only when the existing content differs,
// keeping mtimes stable for downstream incremental renderers.
func WriteFileIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && string(existing) == string(data) {
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// OutputName strips a trailing ".in" from a template filename; files without the
// suffix keep their name.
func OutputName(name string) string {
	return strings.TrimSuffix(name, ".in")
}
