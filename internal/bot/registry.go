package bot

import "sync"

// Registry collects the modules a bot loads at startup.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a module to the registry.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules; callers cannot
// mutate the registry through it.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := make([]Module, len(r.modules))
	copy(modules, r.modules)
	return modules
}

// globalRegistry backs module self-registration from init functions,
// triggered by blank imports in main.
var globalRegistry = NewRegistry()

// Register adds a module to the global registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry replaces the global registry with an empty one.
// Test use only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
