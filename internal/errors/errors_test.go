package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CategoryTemplate, SeverityFatal, "unresolved variable")
	if got := e.Error(); got != "template (fatal): unresolved variable" {
		t.Fatalf("unexpected message: %q", got)
	}

	cause := stderrors.New("no such file")
	w := Wrap(CategoryRenderer, SeverityError, "renderer not found", cause)
	if got := w.Error(); got != "renderer (error): renderer not found: no such file" {
		t.Fatalf("unexpected wrapped message: %q", got)
	}
	if !stderrors.Is(w, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
}

func TestCategoryThroughWrapping(t *testing.T) {
	inner := New(CategoryTheme, SeverityError, "theme directory missing")
	outer := fmt.Errorf("docs target: %w", inner)
	if got := CategoryOf(outer); got != CategoryTheme {
		t.Fatalf("CategoryOf = %q, want %q", got, CategoryTheme)
	}
	if CategoryOf(stderrors.New("plain")) != "" {
		t.Fatal("plain error should have empty category")
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(New(CategoryBuild, SeverityWarning, "w")) {
		t.Fatal("warning classified fatal")
	}
	if !IsFatal(fmt.Errorf("wrap: %w", New(CategoryConfig, SeverityFatal, "bad config"))) {
		t.Fatal("fatal not detected through wrap")
	}
}

func TestWithContext(t *testing.T) {
	e := New(CategoryFileSystem, SeverityError, "mkdir failed").
		WithContext("path", "/tmp/out").
		WithContext("mode", "0750")
	if e.Context["path"] != "/tmp/out" || e.Context["mode"] != "0750" {
		t.Fatalf("context not recorded: %#v", e.Context)
	}
}
