package atlas

import (
	"fmt"
	"sort"
)

// DefaultAtlasName is used when the CLI does not select an atlas and the
// configuration carries no override.
const DefaultAtlasName = "albert"

// Registry resolves atlases by name. It is immutable after construction.
type Registry struct {
	atlases     map[string]Atlas
	defaultName string
}

// NewRegistry builds a registry from the given atlases. The default atlas is
// defaultName when non-empty, otherwise DefaultAtlasName when present,
// otherwise the lexicographically first entry.
func NewRegistry(atlases []Atlas, defaultName string) (*Registry, error) {
	if len(atlases) == 0 {
		return nil, ErrEmptyRegistry
	}

	m := make(map[string]Atlas, len(atlases))
	for _, a := range atlases {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: atlas with empty name", ErrUnknownAtlas)
		}
		if a.MinAge > a.MaxAge {
			return nil, fmt.Errorf("atlas %q: min_age %d exceeds max_age %d", a.Name, a.MinAge, a.MaxAge)
		}
		m[a.Name] = a
	}

	if defaultName == "" {
		if _, ok := m[DefaultAtlasName]; ok {
			defaultName = DefaultAtlasName
		} else {
			names := make([]string, 0, len(m))
			for n := range m {
				names = append(names, n)
			}
			sort.Strings(names)
			defaultName = names[0]
		}
	}
	if _, ok := m[defaultName]; !ok {
		return nil, fmt.Errorf("%w: default atlas %q not in registry", ErrUnknownAtlas, defaultName)
	}

	return &Registry{atlases: m, defaultName: defaultName}, nil
}

// Get returns the atlas registered under name.
func (r *Registry) Get(name string) (Atlas, error) {
	a, ok := r.atlases[name]
	if !ok {
		return Atlas{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownAtlas, name, r.Names())
	}
	return a, nil
}

// Default returns the default atlas.
func (r *Registry) Default() Atlas {
	return r.atlases[r.defaultName]
}

// Resolve returns the atlas for name, falling back to the default when name
// is empty.
func (r *Registry) Resolve(name string) (Atlas, error) {
	if name == "" {
		return r.Default(), nil
	}
	return r.Get(name)
}

// Names returns all registered atlas names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.atlases))
	for n := range r.atlases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
