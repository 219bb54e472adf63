package option

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zclconf/go-cty/cty"
)

// value adapts a Declaration to pflag.Value. Set records typed parse errors
// on the shared binder because pflag only keeps their text.
type value struct {
	decl Declaration
	cur  cty.Value
	b    *binder
}

type binder struct {
	err error
}

func (v *value) Set(raw string) error {
	val, err := v.decl.Parse(raw)
	if err != nil {
		v.b.err = err
		return err
	}
	v.cur = val
	return nil
}

func (v *value) String() string {
	if v.cur.IsNull() {
		return ""
	}
	if v.cur.Type() == cty.Bool {
		if v.cur.True() {
			return "true"
		}
		return "false"
	}
	return v.cur.AsString()
}

func (v *value) Type() string { return v.decl.Kind.String() }

func (s *Schema) flagSet(name string) (*pflag.FlagSet, *binder) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	b := &binder{}
	for _, e := range s.entries {
		usage := e.Description
		if e.Kind == KindEnum {
			usage = fmt.Sprintf("%s (%s)", usage, strings.Join(e.Choices, "|"))
		}
		f := fs.VarPF(&value{decl: e.Declaration, cur: e.Default, b: b}, e.Name, "", usage)
		if e.Kind == KindBool {
			f.NoOptDefVal = "true"
		}
	}
	return fs, b
}

// FlagSet exposes every declaration as a typed command-line switch carrying
// its default and description.
func (s *Schema) FlagSet(name string) *pflag.FlagSet {
	fs, _ := s.flagSet(name)
	return fs
}

// Overrides returns the values of the switches in fs the user changed.
// fs must come from FlagSet on the same schema.
func (s *Schema) Overrides(fs *pflag.FlagSet) map[string]cty.Value {
	out := make(map[string]cty.Value)
	fs.Visit(func(f *pflag.Flag) {
		if v, ok := f.Value.(*value); ok {
			out[f.Name] = v.cur
		}
	})
	return out
}

// ParseArgs parses user overrides against the schema. Each argument is
// either `name=value` or a switch `--name=value` / `--name` (bools only).
// Arguments naming a dormant option are skipped.
func (s *Schema) ParseArgs(args []string) (map[string]cty.Value, error) {
	fs, b := s.flagSet("options")
	normalized := make([]string, 0, len(args))
	for _, arg := range args {
		name, raw, hasValue, err := splitArg(arg)
		if err != nil {
			return nil, err
		}
		if _, ok := s.Lookup(name); !ok {
			if _, dormant := s.Dormant(name); dormant {
				continue
			}
			return nil, &UnknownOptionError{Name: name}
		}
		if hasValue {
			normalized = append(normalized, "--"+name+"="+raw)
		} else {
			normalized = append(normalized, "--"+name)
		}
	}
	if err := fs.Parse(normalized); err != nil {
		if b.err != nil {
			return nil, b.err
		}
		var ive *InvalidValueError
		if errors.As(err, &ive) {
			return nil, ive
		}
		return nil, fmt.Errorf("parse options: %w", err)
	}
	return s.Overrides(fs), nil
}

// ErrInvalidArgument is returned by ParseArgs for an argument that is
// neither `name=value` nor a switch.
var ErrInvalidArgument = errors.New("invalid option argument")

func splitArg(arg string) (name, raw string, hasValue bool, err error) {
	trimmed := strings.TrimPrefix(arg, "--")
	isSwitch := trimmed != arg
	name, raw, hasValue = strings.Cut(trimmed, "=")
	if name == "" || (!isSwitch && !hasValue) {
		return "", "", false, fmt.Errorf("%w %q: want name=value or --name[=value]", ErrInvalidArgument, arg)
	}
	return name, raw, hasValue, nil
}
