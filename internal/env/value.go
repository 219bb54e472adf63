package env

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ParseValue turns a raw command-line or config value into a flag value:
// recognised boolean words become bools, everything else stays a string.
func ParseValue(raw string) cty.Value {
	if b, ok := ParseBool(raw); ok {
		return cty.BoolVal(b)
	}
	return cty.StringVal(raw)
}

// ParseBool accepts the boolean spellings build tools traditionally allow.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "y", "yes", "true", "t", "on":
		return true, true
	case "0", "n", "no", "false", "f", "off":
		return false, true
	}
	return false, false
}

// normalize keeps flags to known bools and strings.
func normalize(name string, v cty.Value) (cty.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, fmt.Errorf("flag %q: value must be a known, non-null bool or string", name)
	}
	switch v.Type() {
	case cty.Bool, cty.String:
		return v, nil
	default:
		return cty.NilVal, fmt.Errorf("flag %q: unsupported value type %s, want bool or string", name, v.Type().FriendlyName())
	}
}

func asBool(v cty.Value) bool {
	if v.IsNull() {
		return false
	}
	switch v.Type() {
	case cty.Bool:
		return v.True()
	case cty.String:
		b, _ := ParseBool(v.AsString())
		return b
	}
	return false
}

func asString(v cty.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	}
	return ""
}
