package logfields

import (
	"errors"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		wantKey string
		wantVal string
		attr    interface{ String() string }
	}{
		{"Target", KeyTarget, "docs", Target("docs")},
		{"Stage", KeyStage, "templates", Stage("templates")},
		{"Theme", KeyTheme, "alabaster", Theme("alabaster")},
		{"Renderer", KeyRenderer, "sphinx-build", Renderer("sphinx-build")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "conf.py", File("conf.py")},
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
	}
	for _, c := range cases {
		got := c.attr.String()
		want := c.wantKey + "=" + c.wantVal
		if got != want {
			t.Errorf("%s: got %q want %q", c.name, got, want)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil).String(); got != KeyError+"=" {
		t.Fatalf("nil error attr: %q", got)
	}
	if got := Error(errors.New("boom")).String(); got != KeyError+"=boom" {
		t.Fatalf("error attr: %q", got)
	}
}
