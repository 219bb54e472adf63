package option

import (
	"fmt"
)

// Entry is a declaration together with the module that contributed it.
type Entry struct {
	Module string
	Declaration
}

// DuplicateOptionNameError is returned when two selected modules declare
// the same option name.
type DuplicateOptionNameError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateOptionNameError) Error() string {
	if e.First == e.Second {
		return fmt.Sprintf("duplicate option name %q declared twice by module %q", e.Name, e.First)
	}
	return fmt.Sprintf("duplicate option name %q: declared by module %q and module %q", e.Name, e.First, e.Second)
}

// Schema is the ordered, de-duplicated set of options of a build. It also
// remembers dormant names: options declared by modules that are not part
// of the build, which are accepted as overrides and then ignored.
type Schema struct {
	entries []Entry
	index   map[string]int
	dormant map[string]string
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{index: make(map[string]int), dormant: make(map[string]string)}
}

// AddDormant records that module declares name without contributing it to
// the build. Names already in the schema, or already dormant, are kept as
// they are.
func (s *Schema) AddDormant(module, name string) {
	if _, ok := s.index[name]; ok {
		return
	}
	if _, ok := s.dormant[name]; ok {
		return
	}
	if s.dormant == nil {
		s.dormant = make(map[string]string)
	}
	s.dormant[name] = module
}

// Dormant returns the module that declared name when name is dormant.
func (s *Schema) Dormant(name string) (string, bool) {
	if _, ok := s.index[name]; ok {
		return "", false
	}
	module, ok := s.dormant[name]
	return module, ok
}

// Add appends d, contributed by module. A name already present is an error
// and leaves the schema unchanged.
func (s *Schema) Add(module string, d Declaration) error {
	if i, ok := s.index[d.Name]; ok {
		return &DuplicateOptionNameError{Name: d.Name, First: s.entries[i].Module, Second: module}
	}
	s.index[d.Name] = len(s.entries)
	s.entries = append(s.entries, Entry{Module: module, Declaration: d})
	return nil
}

// Lookup finds a declaration by name.
func (s *Schema) Lookup(name string) (Entry, bool) {
	i, ok := s.index[name]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// All returns every entry in insertion order.
func (s *Schema) All() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns option names in insertion order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of declarations.
func (s *Schema) Len() int { return len(s.entries) }

// Owner returns the module that declared name, or "".
func (s *Schema) Owner(name string) string {
	e, _ := s.Lookup(name)
	return e.Module
}
