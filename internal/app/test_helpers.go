package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	hclloader "github.com/specialistvlad/modresolve/internal/hcl"
	"github.com/specialistvlad/modresolve/internal/registry"
	"github.com/specialistvlad/modresolve/internal/settings"
	"github.com/specialistvlad/modresolve/internal/testutil"
)

// SetupAppTest writes manifests (relative path → HCL) into a temp modules
// directory and builds an app over them with debug logging. Settings are
// adjusted by mutate, when given, before the app is built. The returned
// buffers hold rendered output and logs.
func SetupAppTest(t *testing.T, manifests map[string]string, mutate func(*settings.Settings), modules ...registry.Module) (*App, *bytes.Buffer, *testutil.SafeBuffer, error) {
	t.Helper()

	root := testutil.WriteFiles(t, manifests)
	s := settings.Defaults()
	s.Platform = "linuxbsd"
	s.Host = "linux"
	s.ModulesPath = root
	s.LogLevel = "debug"
	s.LogFormat = "json"
	if mutate != nil {
		mutate(&s)
	}

	out := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("MODRESOLVE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	a, err := NewApp(context.Background(), out, logBuffer, &s, hclloader.NewLoader(), modules...)
	return a, out, logBuffer, err
}

// ModulePath joins elem onto the app's modules directory.
func (a *App) ModulePath(elem ...string) string {
	return filepath.Join(append([]string{a.settings.ModulesPath}, elem...)...)
}
