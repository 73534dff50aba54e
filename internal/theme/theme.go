// Package theme provides a registry of renderer themes. Themes self-register
// from their own packages and contribute substitution variables, extra renderer
// arguments, and static assets to the docs build.
package theme

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Features describes capability flags for a theme.
type Features struct {
	Name            string
	DisplayName     string
	RequiresInstall bool     // theme must exist on disk (or be fetched) before rendering
	StaticAssets    []string // asset filenames staged into _static
	ExtraArgs       []string // additional renderer arguments
}

// Theme provides hooks for configuring the external renderer via docstage.
type Theme interface {
	Name() string
	Features() Features
	// ApplyVariables contributes @VAR@ substitutions consumed by the template stage.
	ApplyVariables(vars map[string]string)
}

var (
	regMu sync.RWMutex
	reg   = map[string]Theme{}
)

// Register registers a Theme implementation (idempotent).
func Register(t Theme) {
	if t == nil {
		return
	}
	regMu.Lock()
	if _, ok := reg[t.Name()]; !ok {
		reg[t.Name()] = t
	}
	regMu.Unlock()
}

// Get retrieves a theme by name; nil when unknown.
func Get(name string) Theme {
	regMu.RLock()
	defer regMu.RUnlock()
	return reg[name]
}

// Names returns the registered theme names (unsorted).
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	return names
}

var titleCaser = cases.Title(language.English)

// DisplayName derives a human-readable name for unknown themes.
func DisplayName(name string) string {
	if t := Get(name); t != nil {
		if dn := t.Features().DisplayName; dn != "" {
			return dn
		}
	}
	return titleCaser.String(name)
}
