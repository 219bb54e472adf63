package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/modresolve/internal/env"
	"github.com/specialistvlad/modresolve/internal/registry"
)

// RecordingModule registers one hook per name in Hooks. Each hook records
// its window owner into Calls and then runs the matching Fn, if any.
type RecordingModule struct {
	Hooks []string
	Fn    map[string]registry.Hook

	mu    sync.Mutex
	calls []string
}

// Register implements registry.Module.
func (m *RecordingModule) Register(r *registry.Registry) {
	for _, name := range m.Hooks {
		r.RegisterHook(name, func(ctx context.Context, w *env.Window) error {
			m.mu.Lock()
			m.calls = append(m.calls, w.Owner())
			m.mu.Unlock()
			if fn := m.Fn[name]; fn != nil {
				return fn(ctx, w)
			}
			return nil
		})
	}
}

// Calls returns the owners of the windows hooks ran in, in call order.
func (m *RecordingModule) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
