package fixers

import "fmt"

// Registry holds fixers in a fixed application order.
type Registry struct {
	ordered []Fixer
	byName  map[string]Fixer
}

// NewRegistry creates a registry with the given fixers, applied in argument
// order. Duplicate names panic; fixer names are compile-time constants.
func NewRegistry(fixers ...Fixer) *Registry {
	r := &Registry{byName: make(map[string]Fixer, len(fixers))}
	for _, f := range fixers {
		if _, dup := r.byName[f.Name()]; dup {
			panic(fmt.Sprintf("fixers: duplicate fixer %q", f.Name()))
		}
		r.ordered = append(r.ordered, f)
		r.byName[f.Name()] = f
	}
	return r
}

// Default returns the registry of all built-in fixers.
func Default() *Registry {
	return NewRegistry(
		RenamedTags{},
		OverrideInfo{},
		UpstreamMetadata{},
		DesktopKeys{},
		SystemdDirectives{},
		RulesRequiresRoot{},
		TrailingWhitespace{},
	)
}

// All returns the fixers in application order.
func (r *Registry) All() []Fixer {
	out := make([]Fixer, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByName looks up a fixer.
func (r *Registry) ByName(name string) (Fixer, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Select returns the fixers to run. With a non-empty only list, exactly
// those fixers are returned, still in registry order; otherwise all fixers
// minus the excluded ones. Unknown names in either list are an error.
func (r *Registry) Select(only, exclude []string) ([]Fixer, error) {
	for _, name := range append(append([]string{}, only...), exclude...) {
		if _, ok := r.byName[name]; !ok {
			return nil, fmt.Errorf("unknown fixer %q", name)
		}
	}

	wanted := func(name string) bool {
		if len(only) > 0 {
			for _, n := range only {
				if n == name {
					return true
				}
			}
			return false
		}
		for _, n := range exclude {
			if n == name {
				return false
			}
		}
		return true
	}

	var out []Fixer
	for _, f := range r.ordered {
		if wanted(f.Name()) {
			out = append(out, f)
		}
	}
	return out, nil
}
