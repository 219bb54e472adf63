package option_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestDeclaration_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		decl        option.Declaration
		errContains string
	}{
		{name: "bool ok", decl: option.Bool("minimp3_extra_formats", "MP1/MP2", false)},
		{name: "enum ok", decl: option.Enum("camera_backend", "", "v4l2", "v4l2", "pipewire")},
		{name: "bad name", decl: option.Bool("extra formats", "", false), errContains: "valid identifier"},
		{name: "empty name", decl: option.String("", "", ""), errContains: "valid identifier"},
		{name: "enum default outside choices", decl: option.Enum("mode", "", "fast", "slow"), errContains: "must be one of slow"},
		{name: "enum without choices", decl: option.Enum("mode", "", "x"), errContains: "no choices"},
		{
			name:        "default type mismatch",
			decl:        option.Declaration{Name: "x", Kind: option.KindBool, Default: cty.StringVal("yes")},
			errContains: "got string, want bool",
		},
		{
			name:        "unknown platform",
			decl:        option.Bool("x", "", false).On("beos"),
			errContains: "unknown platform",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.decl.Validate()
			if tc.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestDeclaration_Parse(t *testing.T) {
	t.Parallel()

	b := option.Bool("lto", "", false)
	v, err := b.Parse("yes")
	require.NoError(t, err)
	require.True(t, v.True())

	_, err = b.Parse("maybe")
	var ive *option.InvalidValueError
	require.True(t, errors.As(err, &ive))
	require.Equal(t, "lto", ive.Option)

	e := option.Enum("backend", "", "a", "a", "b")
	v, err = e.Parse("b")
	require.NoError(t, err)
	require.Equal(t, "b", v.AsString())
	_, err = e.Parse("c")
	require.ErrorAs(t, err, &ive)
}

func TestDeclaration_AppliesTo(t *testing.T) {
	t.Parallel()
	d := option.Bool("x", "", false)
	require.True(t, d.AppliesTo(platform.Web))

	d = d.On(platform.Windows, platform.MacOS)
	require.True(t, d.AppliesTo(platform.Windows))
	require.False(t, d.AppliesTo(platform.Linux))
}

func TestSchema_DuplicateOptionName(t *testing.T) {
	t.Parallel()
	s := option.NewSchema()
	require.NoError(t, s.Add("minimp3", option.Bool("extra_formats", "", false)))
	require.NoError(t, s.Add("minimp3", option.Bool("other", "", false)))

	err := s.Add("vorbis", option.Bool("extra_formats", "", true))
	var dup *option.DuplicateOptionNameError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "extra_formats", dup.Name)
	require.Equal(t, "minimp3", dup.First)
	require.Equal(t, "vorbis", dup.Second)

	require.Equal(t, []string{"extra_formats", "other"}, s.Names(), "a rejected declaration leaves the schema unchanged")
	require.Equal(t, "minimp3", s.Owner("extra_formats"))
	entry, ok := s.Lookup("extra_formats")
	require.True(t, ok)
	require.False(t, entry.Default.True(), "first declaration is kept")
}

func newSchema(t *testing.T) *option.Schema {
	t.Helper()
	s := option.NewSchema()
	require.NoError(t, s.Add("minimp3", option.Bool("minimp3_extra_formats", "MP1/MP2 decoding", false)))
	require.NoError(t, s.Add("camera", option.Enum("camera_backend", "Camera backend", "v4l2", "v4l2", "pipewire")))
	require.NoError(t, s.Add("webrtc", option.String("webrtc_lib", "WebRTC library", "builtin")))
	return s
}

func TestSchema_FlagSet(t *testing.T) {
	t.Parallel()
	s := newSchema(t)
	fs := s.FlagSet("options")

	f := fs.Lookup("minimp3_extra_formats")
	require.NotNil(t, f)
	require.Equal(t, "false", f.DefValue)
	require.Equal(t, "bool", f.Value.Type())
	require.Equal(t, "true", f.NoOptDefVal)

	usage := fs.FlagUsages()
	require.True(t, strings.Index(usage, "minimp3_extra_formats") < strings.Index(usage, "camera_backend"), "switches keep schema order")
	require.Contains(t, usage, "(v4l2|pipewire)")

	require.NoError(t, fs.Parse([]string{"--camera_backend=pipewire"}))
	over := s.Overrides(fs)
	require.Len(t, over, 1)
	require.Equal(t, "pipewire", over["camera_backend"].AsString())
}

func TestSchema_ParseArgs(t *testing.T) {
	t.Parallel()
	s := newSchema(t)

	got, err := s.ParseArgs([]string{"minimp3_extra_formats=yes", "--webrtc_lib=system"})
	require.NoError(t, err)
	require.True(t, got["minimp3_extra_formats"].True())
	require.Equal(t, "system", got["webrtc_lib"].AsString())
	require.NotContains(t, got, "camera_backend")

	got, err = s.ParseArgs([]string{"--minimp3_extra_formats"})
	require.NoError(t, err)
	require.True(t, got["minimp3_extra_formats"].True())

	_, err = s.ParseArgs([]string{"nope=1"})
	var unknown *option.UnknownOptionError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "nope", unknown.Name)

	_, err = s.ParseArgs([]string{"camera_backend=directshow"})
	var ive *option.InvalidValueError
	require.ErrorAs(t, err, &ive)
	require.Equal(t, "directshow", ive.Value)

	_, err = s.ParseArgs([]string{"bare"})
	require.ErrorContains(t, err, "want name=value")
}

func TestSchema_Dormant(t *testing.T) {
	t.Parallel()
	s := newSchema(t)
	s.AddDormant("gridmap", "gridmap_editor")
	s.AddDormant("other", "gridmap_editor")
	s.AddDormant("minimp3", "minimp3_extra_formats")

	owner, ok := s.Dormant("gridmap_editor")
	require.True(t, ok)
	require.Equal(t, "gridmap", owner, "first declaration wins")

	_, ok = s.Dormant("minimp3_extra_formats")
	require.False(t, ok, "active options are never dormant")
	_, ok = s.Lookup("gridmap_editor")
	require.False(t, ok)
	require.NotContains(t, s.Names(), "gridmap_editor")

	got, err := s.ParseArgs([]string{"gridmap_editor=whatever", "--gridmap_editor", "minimp3_extra_formats=on"})
	require.NoError(t, err)
	require.NotContains(t, got, "gridmap_editor")
	require.True(t, got["minimp3_extra_formats"].True())

	_, err = s.ParseArgs([]string{"gridmap_editr=1"})
	var unknown *option.UnknownOptionError
	require.ErrorAs(t, err, &unknown)
}
