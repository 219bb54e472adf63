package cli

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/modresolve/internal/app"
	"github.com/specialistvlad/modresolve/internal/config"
	hclloader "github.com/specialistvlad/modresolve/internal/hcl"
	"github.com/specialistvlad/modresolve/internal/registry"
	"github.com/specialistvlad/modresolve/internal/settings"
	"github.com/spf13/cobra"
)

// Options configures the command tree. Zero values pick the defaults: the
// HCL loader, the built-in Go modules, and the working directory.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Loader config.Loader
	// Modules overrides the built-in Go modules.
	Modules []registry.Module
	// Dir is searched for a profile file when --config is not given.
	Dir string
}

// Execute runs the command line in args and returns nil or an *ExitError.
// Errors raised before a command starts running (unknown command, bad
// flags or arguments) are usage errors.
func Execute(ctx context.Context, args []string, opts Options) error {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)

	started := false
	cmd.PersistentPreRun = func(*cobra.Command, []string) { started = true }

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return nil
	case !started:
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return usageError(err)
	default:
		return classify(err)
	}
}

// NewRootCommand builds the modresolve command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Loader == nil {
		opts.Loader = hclloader.NewLoader()
	}

	root := &cobra.Command{
		Use:   "modresolve",
		Short: "Resolve which engine modules take part in a build",
		Long: `modresolve reads module manifests, decides which modules can be built for
the target platform and flags, merges their build options, runs their
configure hooks and reports the resulting build plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	if opts.Stdout != nil {
		root.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		root.SetErr(opts.Stderr)
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	defaults := settings.Defaults()
	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a build profile (toml, yaml or json). Defaults to ./modresolve.*")
	pf.String("platform", defaults.Platform, "Target platform.")
	pf.String("host", defaults.Host, "Host operating system.")
	pf.String("modules-path", defaults.ModulesPath, "Directory containing module manifests.")
	pf.String("log-level", defaults.LogLevel, "Logging level: debug, info, warn, error.")
	pf.String("log-format", defaults.LogFormat, "Log output format: text or json.")
	pf.StringToString("flag", nil, "Initial environment flag as name=value (repeatable).")

	root.AddCommand(
		newPlanCommand(&opts),
		newOptionsCommand(&opts),
		newDocsCommand(&opts),
		newValidateCommand(&opts),
	)
	return root
}

// newApp loads settings for cmd and builds the app.
func newApp(cmd *cobra.Command, opts *Options) (*app.App, error) {
	ctx := cmd.Context()
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, usageError(err)
	}
	s, _, err := settings.Load(ctx, settings.LoadOptions{
		ConfigFile: configFile,
		Dir:        opts.Dir,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, usageError(err)
	}

	a, err := app.NewApp(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), s, opts.Loader, opts.Modules...)
	if err != nil {
		return nil, err
	}
	return a, nil
}
