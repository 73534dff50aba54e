package config

import (
	"fmt"
	"strings"
)

// Normalizer canonicalizes case-insensitive enum input to a typed value with a fallback.
type Normalizer[T ~string] struct {
	values   map[string]T
	fallback T
}

// NewNormalizer builds a Normalizer over the given lowercase-keyed value map.
func NewNormalizer[T ~string](values map[string]T, fallback T) Normalizer[T] {
	return Normalizer[T]{values: values, fallback: fallback}
}

// Normalize maps raw input to its canonical value, falling back for unknowns.
func (n Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return n.fallback
}

// Lookup is like Normalize but reports whether the input was recognized.
func (n Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return n.fallback, false
	}
	return v, true
}

// Result captures normalization adjustments and warnings (non-fatal).
type Result struct {
	Warnings []string
}

// Normalize applies canonicalization transformations that logically occur after
// raw YAML load and defaulting but before use. Enum fields are case-folded;
// unknown values fall back with a recorded warning.
func Normalize(c *Config) (*Result, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &Result{}

	if raw := string(c.Logging.Level); strings.TrimSpace(raw) != "" {
		if lvl, ok := logLevelNormalizer.Lookup(raw); ok {
			if c.Logging.Level != lvl {
				res.Warnings = append(res.Warnings, fmt.Sprintf("normalized logging.level to '%s'", lvl))
			}
			c.Logging.Level = lvl
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown logging.level '%s', defaulting to info", raw))
			c.Logging.Level = LogLevelInfo
		}
	}

	if raw := string(c.Logging.Format); strings.TrimSpace(raw) != "" {
		if f, ok := logFormatNormalizer.Lookup(raw); ok {
			if c.Logging.Format != f {
				res.Warnings = append(res.Warnings, fmt.Sprintf("normalized logging.format to '%s'", f))
			}
			c.Logging.Format = f
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown logging.format '%s', defaulting to text", raw))
			c.Logging.Format = LogFormatText
		}
	}

	if c.Daemon != nil && c.Daemon.Debounce < 0 {
		res.Warnings = append(res.Warnings, "negative daemon.debounce clamped to default")
		c.Daemon.Debounce = DefaultDebounce
	}

	return res, nil
}
