package module_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/module"
	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// bare implements only the required part of the contract.
type bare struct{ name string }

func (b bare) Name() string             { return b.name }
func (b bare) CanBuild(env.Reader) bool { return true }

func mustEnv(t *testing.T, p string, flags map[string]bool) *env.Environment {
	t.Helper()
	vals := make(map[string]cty.Value, len(flags))
	for k, v := range flags {
		vals[k] = cty.BoolVal(v)
	}
	e, err := env.New(p, "linux", vals)
	require.NoError(t, err)
	return e
}

func TestOptionalCapabilitiesDefault(t *testing.T) {
	t.Parallel()
	d := bare{name: "websocket"}

	require.Nil(t, module.OptionsOf(d, platform.Linux))
	classes, path := module.DocsOf(d)
	require.Empty(t, classes)
	require.Empty(t, path)

	e := mustEnv(t, "linux", nil)
	w, err := e.Open(d.Name())
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, module.Configure(context.Background(), d, w))
}

func TestSpec(t *testing.T) {
	t.Parallel()
	called := false
	s := &module.Spec{
		ID:         "minimp3",
		CanBuildFn: module.NotFlag("pixel_engine"),
		OptionsFn: func(platform.ID) []option.Declaration {
			return []option.Declaration{option.Bool("minimp3_extra_formats", "", false)}
		},
		ConfigureFn: func(ctx context.Context, w *env.Window) error {
			called = true
			return w.SetBool("MINIMP3_ENABLED", true)
		},
		Classes: []string{"AudioStreamMP3"},
		Path:    "doc_classes",
	}

	e := mustEnv(t, "linux", nil)
	require.True(t, s.CanBuild(e))
	require.Len(t, module.OptionsOf(s, platform.Linux), 1)

	w, err := e.Open(s.Name())
	require.NoError(t, err)
	require.NoError(t, module.Configure(context.Background(), s, w))
	w.Close()
	require.True(t, called)
	require.True(t, e.Bool("MINIMP3_ENABLED"))

	classes, path := module.DocsOf(s)
	require.Equal(t, []string{"AudioStreamMP3"}, classes)
	require.Equal(t, "doc_classes", path)

	require.True(t, (&module.Spec{ID: "always"}).CanBuild(e), "nil predicate always builds")
}

func TestSafeCanBuild_PanicBecomesFalse(t *testing.T) {
	t.Parallel()
	s := &module.Spec{ID: "broken", CanBuildFn: func(e env.Reader) bool {
		var m map[string]int
		m["boom"]++
		return true
	}}

	ok, fault := module.SafeCanBuild(s, mustEnv(t, "linux", nil))
	require.False(t, ok)
	require.NotNil(t, fault)
	require.Equal(t, "broken", fault.Module)
	require.ErrorContains(t, fault, "predicate panicked")
	require.NotEmpty(t, fault.Stack)
	require.Contains(t, fault.Cause(), "assignment to entry in nil map")

	ok, fault = module.SafeCanBuild(&module.Spec{ID: "fine"}, mustEnv(t, "linux", nil))
	require.True(t, ok)
	require.Nil(t, fault)
}

// checked reports an evaluation error through module.Checker.
type checked struct{ err error }

func (c checked) Name() string { return "checked" }

func (c checked) CanBuild(e env.Reader) bool {
	ok, _ := c.CheckBuild(e)
	return ok
}

func (c checked) CheckBuild(env.Reader) (bool, error) { return c.err == nil, c.err }

func TestSafeCanBuild_CheckerErrorBecomesFault(t *testing.T) {
	t.Parallel()
	evalErr := errors.New("unsupported attribute")

	require.False(t, checked{err: evalErr}.CanBuild(mustEnv(t, "linux", nil)), "CanBuild itself never panics")

	ok, fault := module.SafeCanBuild(checked{err: evalErr}, mustEnv(t, "linux", nil))
	require.False(t, ok)
	require.NotNil(t, fault)
	require.ErrorIs(t, fault, evalErr)
	require.Nil(t, fault.Panic)
	require.Empty(t, fault.Stack)
	require.Equal(t, "unsupported attribute", fault.Cause())
	require.ErrorContains(t, fault, `module "checked": can_build failed`)

	ok, fault = module.SafeCanBuild(checked{}, mustEnv(t, "linux", nil))
	require.True(t, ok)
	require.Nil(t, fault)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, module.Validate(bare{name: "camera"}, platform.Linux))
	require.ErrorContains(t, module.Validate(bare{name: ""}, platform.Linux), "valid identifier")
	require.ErrorContains(t, module.Validate(bare{name: "web rtc"}, platform.Linux), "valid identifier")

	dup := &module.Spec{ID: "m", OptionsFn: func(platform.ID) []option.Declaration {
		return []option.Declaration{option.Bool("a", "", false), option.String("a", "", "")}
	}}
	var dupErr *option.DuplicateOptionNameError
	require.True(t, errors.As(module.Validate(dup, platform.Linux), &dupErr))

	bad := &module.Spec{ID: "m", OptionsFn: func(platform.ID) []option.Declaration {
		return []option.Declaration{option.Enum("mode", "", "x", "y")}
	}}
	require.ErrorContains(t, module.Validate(bad, platform.Linux), `module "m"`)
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	t.Run("platform exclusion ignores flags", func(t *testing.T) {
		t.Parallel()
		p := module.ExcludePlatform(platform.Web)
		for _, flags := range []map[string]bool{nil, {"pixel_engine": true}, {"pixel_engine": false, "x": true}} {
			require.False(t, p(mustEnv(t, "web", flags)))
			require.True(t, p(mustEnv(t, "linux", flags)))
		}
	})

	t.Run("flag gating", func(t *testing.T) {
		t.Parallel()
		p := module.NotFlag("pixel_engine")
		require.False(t, p(mustEnv(t, "linux", map[string]bool{"pixel_engine": true})))
		require.True(t, p(mustEnv(t, "linux", map[string]bool{"pixel_engine": false})))
		require.True(t, p(mustEnv(t, "linux", nil)))
	})

	t.Run("compound gating", func(t *testing.T) {
		t.Parallel()
		p := module.NoneOf("disable_3d", "disable_physics")
		for _, tc := range []struct {
			a, b bool
			want bool
		}{
			{false, false, true},
			{true, false, false},
			{false, true, false},
			{true, true, false},
		} {
			e := mustEnv(t, "linux", map[string]bool{"disable_3d": tc.a, "disable_physics": tc.b})
			require.Equal(t, tc.want, p(e), "disable_3d=%v disable_physics=%v", tc.a, tc.b)
		}
	})

	t.Run("all and host", func(t *testing.T) {
		t.Parallel()
		p := module.All(
			module.ExcludeHost("freebsd"),
			module.OnlyPlatforms(platform.MacOS, platform.Windows, platform.LinuxBSD),
		)
		require.True(t, p(mustEnv(t, "macos", nil)))
		require.False(t, p(mustEnv(t, "web", nil)))

		e, err := env.New("linuxbsd", "freebsd", nil)
		require.NoError(t, err)
		require.False(t, p(e))
	})
}
