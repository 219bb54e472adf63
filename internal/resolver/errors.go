package resolver

import "fmt"

// DuplicateModuleError is returned when two descriptors share a name.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q registered more than once", e.Name)
}

// ConfigureHookError wraps the error a selected module's configure hook
// returned. Writes made by modules configured before it are kept.
type ConfigureHookError struct {
	Module string
	Err    error
}

func (e *ConfigureHookError) Error() string {
	return fmt.Sprintf("configure module %q: %v", e.Module, e.Err)
}

func (e *ConfigureHookError) Unwrap() error { return e.Err }
