package target

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, reg *Registry, tgt *Target) {
	t.Helper()
	require.NoError(t, reg.Register(tgt))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	ok := func(context.Context) error { return nil }
	register(t, reg, &Target{Name: "compile", Run: ok})
	assert.Error(t, reg.Register(&Target{Name: "compile", Run: ok}))
	assert.Error(t, reg.Register(&Target{Name: "", Run: ok}))
	assert.Error(t, reg.Register(&Target{Name: "norun"}))
}

func TestDefaultSetExcludesOptionalTargets(t *testing.T) {
	reg := NewRegistry()
	ok := func(context.Context) error { return nil }
	register(t, reg, &Target{Name: "compile", Run: ok})
	register(t, reg, &Target{Name: "docs", Optional: true, Run: ok})
	register(t, reg, &Target{Name: "package", Run: ok})

	var names []string
	for _, tgt := range reg.DefaultSet() {
		names = append(names, tgt.Name)
	}
	assert.Equal(t, []string{"compile", "package"}, names)
}

func TestRunDefaultsNeverRunsOptional(t *testing.T) {
	reg := NewRegistry()
	ran := map[string]int{}
	mk := func(name string) RunFunc {
		return func(context.Context) error { ran[name]++; return nil }
	}
	register(t, reg, &Target{Name: "compile", Run: mk("compile")})
	register(t, reg, &Target{Name: "docs", Optional: true, Run: mk("docs")})

	results, err := NewRunner(reg).RunDefaults(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, ran["compile"])
	assert.Zero(t, ran["docs"], "optional target must not run in default build")
}

func TestOptionalFailureDoesNotAffectDefaults(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("renderer missing")
	register(t, reg, &Target{Name: "compile", Run: func(context.Context) error { return nil }})
	register(t, reg, &Target{Name: "docs", Optional: true, Run: func(context.Context) error { return boom }})

	runner := NewRunner(reg)

	// Explicit docs run fails...
	_, err := runner.RunTarget(context.Background(), "docs")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// ...but the default build remains unaffected.
	results, err := runner.RunDefaults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Failed())
}

func TestRunDefaultsContinuesPastFailure(t *testing.T) {
	reg := NewRegistry()
	ran := []string{}
	register(t, reg, &Target{Name: "a", Run: func(context.Context) error { ran = append(ran, "a"); return errors.New("a failed") }})
	register(t, reg, &Target{Name: "b", Run: func(context.Context) error { ran = append(ran, "b"); return nil }})

	results, err := NewRunner(reg).RunDefaults(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Len(t, results, 2)
}

func TestRunDefaultsSharedPrerequisiteRunsOnce(t *testing.T) {
	reg := NewRegistry()
	ran := map[string]int{}
	mk := func(name string) RunFunc {
		return func(context.Context) error { ran[name]++; return nil }
	}
	register(t, reg, &Target{Name: "sources", Run: mk("sources")})
	register(t, reg, &Target{Name: "compile", Requires: []string{"sources"}, Run: mk("compile")})
	register(t, reg, &Target{Name: "package", Requires: []string{"sources"}, Run: mk("package")})

	results, err := NewRunner(reg).RunDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ran["sources"], "shared prerequisite must run once per default build")
	assert.Equal(t, 1, ran["compile"])
	assert.Equal(t, 1, ran["package"])
	assert.Len(t, results, 3)
}

func TestRunDefaultsFailedSharedPrerequisiteSkipsDependents(t *testing.T) {
	reg := NewRegistry()
	ran := map[string]int{}
	register(t, reg, &Target{Name: "sources", Run: func(context.Context) error {
		ran["sources"]++
		return errors.New("checkout failed")
	}})
	register(t, reg, &Target{Name: "compile", Requires: []string{"sources"}, Run: func(context.Context) error {
		ran["compile"]++
		return nil
	}})
	register(t, reg, &Target{Name: "package", Requires: []string{"sources"}, Run: func(context.Context) error {
		ran["package"]++
		return nil
	}})

	results, err := NewRunner(reg).RunDefaults(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, ran["sources"], "a failed prerequisite is not retried")
	assert.Zero(t, ran["compile"])
	assert.Zero(t, ran["package"])
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
}

func TestRunTargetRunsPrerequisitesFirst(t *testing.T) {
	reg := NewRegistry()
	var order []string
	mk := func(name string) RunFunc {
		return func(context.Context) error { order = append(order, name); return nil }
	}
	register(t, reg, &Target{Name: "prepare", Run: mk("prepare")})
	register(t, reg, &Target{Name: "docs", Optional: true, Requires: []string{"prepare"}, Run: mk("docs")})

	_, err := NewRunner(reg).RunTarget(context.Background(), "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"prepare", "docs"}, order)
}

func TestRunTargetFailedPrerequisiteSkipsDependent(t *testing.T) {
	reg := NewRegistry()
	docsRan := false
	register(t, reg, &Target{Name: "prepare", Run: func(context.Context) error { return errors.New("nope") }})
	register(t, reg, &Target{Name: "docs", Optional: true, Requires: []string{"prepare"}, Run: func(context.Context) error { docsRan = true; return nil }})

	results, err := NewRunner(reg).RunTarget(context.Background(), "docs")
	require.Error(t, err)
	assert.False(t, docsRan)
	assert.Len(t, results, 1)
}

func TestRunTargetDetectsCycle(t *testing.T) {
	reg := NewRegistry()
	ok := func(context.Context) error { return nil }
	register(t, reg, &Target{Name: "a", Requires: []string{"b"}, Run: ok})
	register(t, reg, &Target{Name: "b", Requires: []string{"a"}, Run: ok})

	_, err := NewRunner(reg).RunTarget(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursively")
}

func TestRunTargetUnknown(t *testing.T) {
	_, err := NewRunner(NewRegistry()).RunTarget(context.Background(), "ghost")
	require.Error(t, err)
}

func TestRunTargetCanceledContext(t *testing.T) {
	reg := NewRegistry()
	register(t, reg, &Target{Name: "docs", Optional: true, Run: func(context.Context) error { return nil }})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(reg).RunTarget(ctx, "docs")
	require.Error(t, err)
}
