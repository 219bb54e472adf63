package minimp3_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/registry"
	"github.com/specialistvlad/modresolve/modules/minimp3"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOnConfigureMinimp3(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		flags map[string]cty.Value
		set   string
		unset string
	}{
		{name: "default", flags: nil, set: minimp3.DefineOnlyMP3, unset: minimp3.DefineExtraFormats},
		{name: "extra formats", flags: map[string]cty.Value{"minimp3_extra_formats": cty.True}, set: minimp3.DefineExtraFormats, unset: minimp3.DefineOnlyMP3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e, err := env.New("linuxbsd", "linux", tc.flags)
			require.NoError(t, err)
			w, err := e.Open("minimp3")
			require.NoError(t, err)
			defer w.Close()

			require.NoError(t, minimp3.OnConfigureMinimp3(context.Background(), w))
			require.True(t, e.Bool(tc.set))
			_, ok := e.Flag(tc.unset)
			require.False(t, ok)
		})
	}
}

func TestModule_Register(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&minimp3.Module{}).Register(r)
	_, ok := r.Hook("OnConfigureMinimp3")
	require.True(t, ok)
}
