package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/modresolve/internal/cli"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/registry"
	"github.com/specialistvlad/modresolve/internal/testutil"
	"github.com/stretchr/testify/require"
)

const manifests = `
module "audio" {
  can_build = !flag("pixel_engine")
  configure = "OnConfigureAudio"

  option "audio_backend" {
    type        = enum(["pulse", "alsa"])
    description = "Audio output backend"
  }

  doc {
    classes = ["AudioServer"]
    path    = "doc_classes"
  }
}

module "physics" {
  can_build = !flag("disable_physics")

  option "physics_fast" {
    type = bool
  }

  define "PHYSICS_FAST" {
    value = flag("physics_fast")
  }
}
`

type result struct {
	stdout string
	stderr string
	err    error
	hooks  *testutil.RecordingModule
}

func execute(t *testing.T, files map[string]string, args ...string) result {
	t.Helper()
	root := testutil.WriteFiles(t, files)
	hooks := &testutil.RecordingModule{
		Hooks: []string{"OnConfigureAudio"},
		Fn: map[string]registry.Hook{
			"OnConfigureAudio": func(_ context.Context, w *env.Window) error {
				return w.SetString("AUDIO_DRIVER", w.String("audio_backend"))
			},
		},
	}
	var stdout, stderr bytes.Buffer
	full := append([]string{}, args[:1]...)
	full = append(full, "--modules-path", filepath.Join(root, "modules"), "--platform", "linuxbsd", "--host", "linux")
	full = append(full, args[1:]...)
	err := cli.Execute(context.Background(), full, cli.Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		Modules: []registry.Module{hooks},
		Dir:     root,
	})
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err, hooks: hooks}
}

// planJSON decodes the selected list and final flags of a JSON plan.
func planJSON(t *testing.T, out string) (selected []string, flags map[string]any) {
	t.Helper()
	var doc struct {
		Selected []string       `json:"selected"`
		Flags    map[string]any `json:"flags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc.Selected, doc.Flags
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "want *cli.ExitError, got %T: %v", err, err)
	return exitErr.Code
}

func TestPlan(t *testing.T) {
	t.Parallel()
	files := map[string]string{"modules/all.hcl": manifests}

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan")
		require.NoError(t, res.err)
		require.Contains(t, res.stdout, "Modules (2 selected, 0 skipped):")
		require.Contains(t, res.stdout, `AUDIO_DRIVER = "pulse"`)
		require.Equal(t, []string{"audio"}, res.hooks.Calls())
	})

	t.Run("positional and switch overrides", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan", "--format", "json", "audio_backend=alsa", "--", "--physics_fast")
		require.NoError(t, res.err)
		_, flags := planJSON(t, res.stdout)
		require.Equal(t, "alsa", flags["AUDIO_DRIVER"])
		require.Equal(t, true, flags["PHYSICS_FAST"])
	})

	t.Run("initial flags gate modules", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan", "--format", "json", "--flag", "pixel_engine=yes")
		require.NoError(t, res.err)
		selected, flags := planJSON(t, res.stdout)
		require.Equal(t, []string{"physics"}, selected)
		require.Equal(t, true, flags["pixel_engine"])
		require.Empty(t, res.hooks.Calls())
	})

	t.Run("profile options", func(t *testing.T) {
		t.Parallel()
		res := execute(t, map[string]string{
			"modules/all.hcl": manifests,
			"modresolve.toml": "[options]\naudio_backend = \"alsa\"\n",
		}, "plan", "--format", "hcl")
		require.NoError(t, res.err)
		require.Contains(t, res.stdout, `option "audio_backend" {`)
		require.Regexp(t, `AUDIO_DRIVER\s+= "alsa"`, res.stdout)
	})

	t.Run("options of a gated-off module are ignored", func(t *testing.T) {
		t.Parallel()
		res := execute(t, map[string]string{
			"modules/all.hcl": manifests,
			"modresolve.toml": "[options]\naudio_backend = \"alsa\"\n",
		}, "plan", "--format", "json", "--flag", "pixel_engine=yes", "audio_backend=pulse")
		require.NoError(t, res.err)
		selected, flags := planJSON(t, res.stdout)
		require.Equal(t, []string{"physics"}, selected)
		require.NotContains(t, flags, "audio_backend")
		require.Empty(t, res.hooks.Calls())
	})

	t.Run("unknown option is a usage error", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan", "nope=1")
		require.Equal(t, cli.ExitUsage, exitCode(t, res.err))
		require.ErrorContains(t, res.err, `unknown option "nope"`)
	})

	t.Run("invalid option value is a usage error", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan", "audio_backend=oss")
		require.Equal(t, cli.ExitUsage, exitCode(t, res.err))
	})

	t.Run("malformed option argument is a usage error", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan", "audio_backend")
		require.Equal(t, cli.ExitUsage, exitCode(t, res.err))
	})

	t.Run("bad format is a usage error", func(t *testing.T) {
		t.Parallel()
		res := execute(t, files, "plan", "--format", "yaml")
		require.Equal(t, cli.ExitUsage, exitCode(t, res.err))
	})
}

func TestPlan_ResolutionFailures(t *testing.T) {
	t.Parallel()

	t.Run("duplicate option", func(t *testing.T) {
		t.Parallel()
		res := execute(t, map[string]string{
			"modules/all.hcl": manifests,
			"modules/zz.hcl": `
module "other" {
  option "physics_fast" {
    type = bool
  }
}`,
		}, "plan")
		require.Equal(t, cli.ExitFailure, exitCode(t, res.err))
		require.ErrorContains(t, res.err, "physics_fast")
	})

	t.Run("unregistered hook", func(t *testing.T) {
		t.Parallel()
		res := execute(t, map[string]string{"modules/m.hcl": `module "m" { configure = "OnMissing" }`}, "plan")
		require.Equal(t, cli.ExitFailure, exitCode(t, res.err))
		require.ErrorContains(t, res.err, "registry validation failed")
	})

	t.Run("bad manifest", func(t *testing.T) {
		t.Parallel()
		res := execute(t, map[string]string{"modules/m.hcl": `module "m" {`}, "plan")
		require.Equal(t, cli.ExitFailure, exitCode(t, res.err))
		require.ErrorContains(t, res.err, "failed to load module manifests")
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()
	res := execute(t, map[string]string{"modules/all.hcl": manifests}, "options")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "--audio_backend")
	require.Contains(t, res.stdout, "Audio output backend")
	require.Contains(t, res.stdout, "--physics_fast")

	res = execute(t, map[string]string{"modules/m.hcl": `module "bare" {}`}, "options")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "No options for the selected modules.")
}

func TestDocs(t *testing.T) {
	t.Parallel()
	res := execute(t, map[string]string{"modules/all.hcl": manifests}, "docs")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "audio\tAudioServer\t")
	require.Contains(t, res.stdout, filepath.Join("audio", "doc_classes", "AudioServer.xml"))

	res = execute(t, map[string]string{"modules/m.hcl": `
module "nodocs" {
  doc {
    classes = ["Orphan"]
  }
}`}, "docs")
	require.Equal(t, cli.ExitFailure, exitCode(t, res.err))
	require.ErrorContains(t, res.err, "no documentation path")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	res := execute(t, map[string]string{"modules/all.hcl": manifests}, "validate")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "2 modules valid")

	res = execute(t, map[string]string{"modules/m.hcl": `module "has-dash" {}`}, "validate")
	require.Equal(t, cli.ExitFailure, exitCode(t, res.err))
	require.ErrorContains(t, res.err, "valid identifier")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()
	files := map[string]string{"modules/all.hcl": manifests}

	res := execute(t, files, "plan", "--no-such-flag")
	require.Equal(t, cli.ExitUsage, exitCode(t, res.err))

	res = execute(t, files, "plan", "--platform", "amiga")
	require.Equal(t, cli.ExitUsage, exitCode(t, res.err))

	res = execute(t, files, "validate", "extra")
	require.Equal(t, cli.ExitUsage, exitCode(t, res.err))

	err := cli.Execute(context.Background(), []string{"frobnicate"}, cli.Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	require.Equal(t, cli.ExitUsage, exitCode(t, err))
}

func TestHelp(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	err := cli.Execute(context.Background(), []string{"--help"}, cli.Options{Stdout: &out, Stderr: &out})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "plan")
}

func TestDuplicateHookRegistrationPanics(t *testing.T) {
	t.Parallel()
	root := testutil.WriteFiles(t, map[string]string{"modules/m.hcl": `module "m" {}`})
	dup := &testutil.RecordingModule{Hooks: []string{"OnX"}}
	require.Panics(t, func() {
		_ = cli.Execute(context.Background(),
			[]string{"plan", "--modules-path", filepath.Join(root, "modules")},
			cli.Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Modules: []registry.Module{dup, dup}})
	})
}
