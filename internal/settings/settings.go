// Package settings loads the build profile: target platform, host, initial
// flags, option values and the ambient knobs (paths, logging, output). It is
// layered with viper: defaults, then a profile file, then MODRESOLVE_*
// environment variables, then command-line flags.
package settings

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/modresolve/internal/ctxlog"
	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/planfmt"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zclconf/go-cty/cty"
)

// ConfigName is the base name of the profile file looked up in the working
// directory; any extension viper understands is accepted.
const ConfigName = "modresolve"

// EnvPrefix prefixes the environment variables that override settings.
const EnvPrefix = "MODRESOLVE"

// Keys of the settings viper knows about, paired with the command-line
// flag each one is bound to.
var flagBindings = map[string]string{
	"platform":     "platform",
	"host":         "host",
	"modules_path": "modules-path",
	"log_level":    "log-level",
	"log_format":   "log-format",
	"format":       "format",
}

// Settings is the resolved build profile.
type Settings struct {
	Platform    string         `mapstructure:"platform"`
	Host        string         `mapstructure:"host"`
	ModulesPath string         `mapstructure:"modules_path"`
	LogLevel    string         `mapstructure:"log_level"`
	LogFormat   string         `mapstructure:"log_format"`
	Format      string         `mapstructure:"format"`
	Flags       map[string]any `mapstructure:"flags"`
	Options     map[string]any `mapstructure:"options"`
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// ConfigFile is an explicit profile path. When set, it must exist.
	ConfigFile string
	// Dir is searched for ConfigName.* when ConfigFile is empty. Defaults
	// to the working directory.
	Dir string
	// Flags, when non-nil, overrides settings with the flags the user set.
	// A "flag" string-to-string flag is merged into Flags.
	Flags *pflag.FlagSet
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	target, ok := platform.Host(runtime.GOOS)
	if !ok {
		target = platform.LinuxBSD
	}
	return Settings{
		Platform:    string(target),
		Host:        runtime.GOOS,
		ModulesPath: "modules",
		LogLevel:    "info",
		LogFormat:   "text",
		Format:      string(planfmt.FormatText),
	}
}

// Load resolves the settings. The second return is the profile file that
// was read, or "".
func Load(ctx context.Context, opts LoadOptions) (*Settings, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}
	logger := ctxlog.FromContext(ctx)

	v := viper.New()
	defaults := Defaults()
	v.SetDefault("platform", defaults.Platform)
	v.SetDefault("host", defaults.Host)
	v.SetDefault("modules_path", defaults.ModulesPath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("format", defaults.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read profile %s: %w", opts.ConfigFile, err)
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(ConfigName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("read profile: %w", err)
			}
			logger.Debug("No profile file found; using defaults.", "dir", dir)
		}
	}

	if opts.Flags != nil {
		for _, key := range slices.Sorted(maps.Keys(flagBindings)) {
			if f := opts.Flags.Lookup(flagBindings[key]); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("bind flag --%s: %w", f.Name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, "", fmt.Errorf("failed to parse settings: %w", err)
	}

	if opts.Flags != nil {
		if f := opts.Flags.Lookup("flag"); f != nil && f.Changed {
			cli, err := opts.Flags.GetStringToString("flag")
			if err != nil {
				return nil, "", err
			}
			if s.Flags == nil {
				s.Flags = make(map[string]any, len(cli))
			}
			for k, raw := range cli {
				s.Flags[k] = raw
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, "", err
	}
	used := v.ConfigFileUsed()
	logger.Debug("Settings loaded.", "profile", used, "platform", s.Platform, "modules_path", s.ModulesPath)
	return &s, used, nil
}

// Validate checks every setting that has a closed set of values.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := platform.Parse(s.Platform); err != nil {
		errs = append(errs, err)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s.LogLevel))
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", s.LogFormat))
	}
	if _, err := planfmt.ParseFormat(s.Format); err != nil {
		errs = append(errs, err)
	}
	if s.ModulesPath == "" {
		errs = append(errs, errors.New("modules_path must not be empty"))
	}
	return errors.Join(errs...)
}

// FlagValues converts the profile's initial flags into Environment values.
func (s *Settings) FlagValues() (map[string]cty.Value, error) {
	return toValues("flags", s.Flags)
}

// OptionValues converts the profile's option values into overrides.
func (s *Settings) OptionValues() (map[string]cty.Value, error) {
	return toValues("options", s.Options)
}

func toValues(section string, in map[string]any) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(in))
	for _, k := range slices.Sorted(maps.Keys(in)) {
		switch x := in[k].(type) {
		case bool:
			out[k] = cty.BoolVal(x)
		case string:
			out[k] = env.ParseValue(x)
		case int:
			out[k] = cty.StringVal(strconv.Itoa(x))
		case int64:
			out[k] = cty.StringVal(strconv.FormatInt(x, 10))
		case float64:
			out[k] = cty.StringVal(strconv.FormatFloat(x, 'f', -1, 64))
		default:
			return nil, fmt.Errorf("%s.%s: unsupported value %v (%T); use a bool or a string", section, k, x, x)
		}
	}
	return out, nil
}
