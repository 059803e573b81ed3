package render

import "fmt"

// Factory builds a Backend from a probed GPU context. Real backends
// (gl, vulkan) additionally need the DRM/GBM capability handles, which
// they accept through their own constructors; Factory exists so
// selection-by-name can stay generic here.
type Factory func() (Backend, error)

var backends = make(map[string]Factory)

// RegisterBackend makes a backend selectable by name from config,
// chosen once at startup based on config and a capability probe, with
// no runtime swap. Backend packages call this from an init().
func RegisterBackend(name string, f Factory) {
	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("render: backend %q already registered", name))
	}
	backends[name] = f
}

// NewBackend instantiates the named backend, or an error listing what
// is available if the name is unknown or the probe fails.
func NewBackend(name string) (Backend, error) {
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown backend %q (available: %v)", name, BackendNames())
	}
	return f()
}

// BackendNames lists every backend registered so far, for error
// messages and the CLI's capability probe.
func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	return names
}
